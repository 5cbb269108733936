package repository

import (
	"context"

	"QuestNav-App/internal/domain/model"
)

// POIsProvider 中心座標の周辺スポットを外部の空間クエリサービスから取得する。
// 実装は座標検証に失敗したスポットを捨て、limit 件に切り詰めた結果を返す
type POIsProvider interface {
	FindNearby(ctx context.Context, center model.LatLng, radiusMeters int, limit int) ([]model.POI, error)
}
