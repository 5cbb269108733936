package model

// POI Point of Interest（マップ上に表示するスポット）を表すモデル
type POI struct {
	ID       string `json:"id" db:"id"`               // ユニークなスポットID
	Name     string `json:"name,omitempty" db:"name"` // 表示名（無い場合は空文字）
	Category string `json:"category" db:"category"`   // 分類済みカテゴリ（単一）
	Location LatLng `json:"location" db:"location"`   // 検証済みの位置情報
}

// ClassifyCategory タグ集合を優先順位付きのルールでカテゴリに分類する。
// 最初にマッチしたルールが勝ち、どれにもマッチしない場合はデフォルトカテゴリを返す
func ClassifyCategory(tags map[string]string) string {
	for _, rule := range CategoryRules {
		v, ok := tags[rule.TagKey]
		if !ok {
			continue
		}
		if len(rule.TagValues) == 0 {
			return rule.Category
		}
		for _, tv := range rule.TagValues {
			if v == tv {
				return rule.Category
			}
		}
	}
	return CategoryOther
}

// FilterPOIsByCategories 表示中のカテゴリに属するPOIのみを抽出する
func FilterPOIsByCategories(pois []POI, visible map[string]bool) []POI {
	filtered := make([]POI, 0, len(pois))
	for _, p := range pois {
		if visible[p.Category] {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
