package model

// CategoryConstants はマップ上で使用するPOIカテゴリの定数（固定の閉集合）
const (
	CategoryFood   = "food"
	CategoryCafe   = "cafe"
	CategoryFuel   = "fuel"
	CategoryHealth = "health"
	CategoryPolice = "police"
	CategoryPark   = "park"
	CategoryShop   = "shop"
	CategorySight  = "sight"
	CategoryOther  = "other" // どのルールにもマッチしない場合のデフォルト
)

// CategoryRule タグのキーと値からカテゴリを決定する分類ルール。
// TagValues が空の場合はキーの存在のみでマッチする
type CategoryRule struct {
	TagKey    string
	TagValues []string
	Category  string
}

// CategoryRules は優先順位順の分類ルール。先頭のルールから順に照合し、
// 複数のタグにマッチするスポットでも最初のマッチを採用する
var CategoryRules = []CategoryRule{
	{TagKey: "amenity", TagValues: []string{"restaurant", "fast_food", "food_court"}, Category: CategoryFood},
	{TagKey: "amenity", TagValues: []string{"cafe"}, Category: CategoryCafe},
	{TagKey: "amenity", TagValues: []string{"fuel", "charging_station"}, Category: CategoryFuel},
	{TagKey: "amenity", TagValues: []string{"hospital", "clinic", "pharmacy"}, Category: CategoryHealth},
	{TagKey: "amenity", TagValues: []string{"police"}, Category: CategoryPolice},
	{TagKey: "leisure", TagValues: []string{"park", "garden"}, Category: CategoryPark},
	{TagKey: "shop", TagValues: nil, Category: CategoryShop},
	{TagKey: "tourism", TagValues: nil, Category: CategorySight},
}

// CategoryNameMap はカテゴリIDから日本語名へのマッピング
var CategoryNameMap = map[string]string{
	CategoryFood:   "グルメ",
	CategoryCafe:   "カフェ",
	CategoryFuel:   "ガソリンスタンド",
	CategoryHealth: "病院・薬局",
	CategoryPolice: "警察",
	CategoryPark:   "公園",
	CategoryShop:   "ショップ",
	CategorySight:  "観光スポット",
	CategoryOther:  "その他",
}

// GetAllCategories は全カテゴリの一覧を取得する
func GetAllCategories() []string {
	return []string{
		CategoryFood,
		CategoryCafe,
		CategoryFuel,
		CategoryHealth,
		CategoryPolice,
		CategoryPark,
		CategoryShop,
		CategorySight,
		CategoryOther,
	}
}

// IsKnownCategory はカテゴリIDが閉集合に含まれるかチェックする
func IsKnownCategory(category string) bool {
	for _, c := range GetAllCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// DefaultVisibleCategories は初期状態で表示する全カテゴリの集合を返す
func DefaultVisibleCategories() map[string]bool {
	visible := make(map[string]bool)
	for _, c := range GetAllCategories() {
		visible[c] = true
	}
	return visible
}
