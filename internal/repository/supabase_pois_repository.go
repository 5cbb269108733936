package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"QuestNav-App/internal/domain/helper"
	"QuestNav-App/internal/domain/model"
	"QuestNav-App/internal/domain/repository"
	"QuestNav-App/internal/infrastructure/database"
)

// SupabasePOIsRepository Supabase REST経由のPOIプロバイダ
type SupabasePOIsRepository struct {
	client *database.SupabaseClient
}

// NewSupabasePOIsRepository 新しいSupabasePOIsRepositoryインスタンスを作成
func NewSupabasePOIsRepository(client *database.SupabaseClient) repository.POIsProvider {
	return &SupabasePOIsRepository{
		client: client,
	}
}

// supabasePOIRow pois テーブルの行（位置はGeoJSON Point形式、経度が先）
type supabasePOIRow struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Category string           `json:"category"`
	Location geojson.Geometry `json:"location"`
}

// FindNearby はSupabaseからPOIを取得し、半径内のものだけをアプリ側で絞り込む。
// 座標検証に失敗した行は捨て、受信順のまま limit 件に切り詰める
func (r *SupabasePOIsRepository) FindNearby(ctx context.Context, center model.LatLng, radiusMeters int, limit int) ([]model.POI, error) {
	data, count, err := r.client.GetClient().From("pois").
		Select("id,name,category,location", "exact", false).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("周辺POIデータの取得失敗: %w", err)
	}
	_ = count

	var rows []supabasePOIRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("POIデータのJSONアンマーシャル失敗: %w", err)
	}

	pois := make([]model.POI, 0, limit)
	for _, row := range rows {
		if len(pois) >= limit {
			break
		}

		point, ok := row.Location.Geometry().(orb.Point)
		if !ok {
			continue
		}
		location := model.LatLngFromPoint(point)
		if !location.IsValid() {
			continue
		}
		if helper.HaversineDistanceMeters(center, location) > float64(radiusMeters) {
			continue
		}

		category := row.Category
		if !model.IsKnownCategory(category) {
			category = model.CategoryOther
		}
		pois = append(pois, model.POI{
			ID:       row.ID,
			Name:     row.Name,
			Category: category,
			Location: location,
		})
	}

	return pois, nil
}
