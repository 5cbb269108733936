package model

import (
	"math"

	"github.com/paulmach/orb"
)

// LatLng 緯度経度を表す基本的な型（位置情報・経路座標で使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsValid 緯度経度が有限な数値かつ地理的に有効な範囲内かチェックする。
// 外部サービス由来の座標は必ずこのチェックを通してから取り込む
func (ll LatLng) IsValid() bool {
	if math.IsNaN(ll.Lat) || math.IsInf(ll.Lat, 0) {
		return false
	}
	if math.IsNaN(ll.Lng) || math.IsInf(ll.Lng, 0) {
		return false
	}
	return ll.Lat >= -90 && ll.Lat <= 90 && ll.Lng >= -180 && ll.Lng <= 180
}

// LatLngFromPoint orb.Point（経度が先）から LatLng に変換
func LatLngFromPoint(p orb.Point) LatLng {
	return LatLng{Lat: p.Lat(), Lng: p.Lon()}
}

// SanitizeLatLngs 座標列から無効な座標を取り除く。
// 順序は保持し、無効な要素はエラーを出さずに黙って捨てる（冪等）
func SanitizeLatLngs(candidates []LatLng) []LatLng {
	sanitized := make([]LatLng, 0, len(candidates))
	for _, ll := range candidates {
		if ll.IsValid() {
			sanitized = append(sanitized, ll)
		}
	}
	return sanitized
}

// SanitizeLineString GeoJSONジオメトリ（経度が先）を検証済み LatLng 列に転置する。
// 順序は保持し、検証に失敗した点は黙って捨てる。外部ルーティングサービスの経路取り込み用
func SanitizeLineString(ls orb.LineString) []LatLng {
	sanitized := make([]LatLng, 0, len(ls))
	for _, p := range ls {
		if ll := LatLngFromPoint(p); ll.IsValid() {
			sanitized = append(sanitized, ll)
		}
	}
	return sanitized
}
