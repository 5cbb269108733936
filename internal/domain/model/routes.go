package model

// Route 出発地から目的地までの検証済み経路ジオメトリとメタ情報。
// Points は出発地→目的地の順で、全要素が座標検証を通過している
type Route struct {
	Points          []LatLng `json:"points"`
	DistanceMeters  *float64 `json:"distance_meters,omitempty"`  // 提供元が返さない場合はnil
	DurationSeconds *float64 `json:"duration_seconds,omitempty"` // 提供元が返さない場合はnil
}

// IsUsable 経路として利用可能かチェックする。2点未満の経路は使えない
func (r *Route) IsUsable() bool {
	return r != nil && len(r.Points) >= 2
}

// MapState レンダリング層へ公開するマップの観測可能な状態のスナップショット
type MapState struct {
	PlayerPosition       *LatLng  `json:"player_position"`
	Waypoint             *LatLng  `json:"waypoint"`
	POIs                 []POI    `json:"pois"`
	RevealedRoute        []LatLng `json:"revealed_route"`
	RouteDistanceMeters  *float64 `json:"route_distance_meters,omitempty"`
	RouteDurationSeconds *float64 `json:"route_duration_seconds,omitempty"`
	RecenterTarget       *LatLng  `json:"recenter_target"`
	RecenterToken        uint64   `json:"recenter_token"`
	VisibleCategories    []string `json:"visible_categories"`
	Trail                []LatLng `json:"trail"`
	PermissionBlocked    bool     `json:"permission_blocked"`
}
