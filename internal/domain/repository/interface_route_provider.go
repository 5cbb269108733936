package repository

import (
	"context"

	"QuestNav-App/internal/domain/model"
)

// RouteProvider 2地点間の走行可能な経路を外部ルーティングサービスから取得する。
// 実装は経路ジオメトリを緯度が先の順に正規化し、有効な点が2未満の場合はエラーを返す
type RouteProvider interface {
	GetDrivingRoute(ctx context.Context, origin, destination model.LatLng) (*model.Route, error)
}
