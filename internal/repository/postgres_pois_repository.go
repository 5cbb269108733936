package repository

import (
	"context"
	"database/sql"
	"fmt"

	"QuestNav-App/internal/domain/model"
	"QuestNav-App/internal/domain/repository"
	"QuestNav-App/internal/infrastructure/database"
)

// PostgresPOIsRepository PostGISの空間検索を使用したPOIプロバイダ
type PostgresPOIsRepository struct {
	client *database.PostgreSQLClient
}

// NewPostgresPOIsRepository 新しいPostgresPOIsRepositoryインスタンスを作成
func NewPostgresPOIsRepository(client *database.PostgreSQLClient) repository.POIsProvider {
	return &PostgresPOIsRepository{
		client: client,
	}
}

// FindNearby はST_DWithinで半径内のPOIを取得する。
// 座標検証に失敗した行は捨て、受信順のまま limit 件に切り詰める
func (r *PostgresPOIsRepository) FindNearby(ctx context.Context, center model.LatLng, radiusMeters int, limit int) ([]model.POI, error) {
	query := `
		SELECT id, COALESCE(name, ''), category,
		       ST_Y(location::geometry) AS lat,
		       ST_X(location::geometry) AS lng
		FROM pois
		WHERE ST_DWithin(
			location,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			$3
		)
		LIMIT $4`

	rows, err := r.client.DB.QueryContext(ctx, query, center.Lng, center.Lat, radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("周辺POIデータの取得失敗: %w", err)
	}
	defer rows.Close()

	pois := make([]model.POI, 0, limit)
	for rows.Next() {
		var poi model.POI
		var name sql.NullString
		if err := rows.Scan(&poi.ID, &name, &poi.Category, &poi.Location.Lat, &poi.Location.Lng); err != nil {
			return nil, fmt.Errorf("POIデータのスキャン失敗: %w", err)
		}
		poi.Name = name.String

		if !poi.Location.IsValid() {
			continue
		}
		if !model.IsKnownCategory(poi.Category) {
			poi.Category = model.CategoryOther
		}
		pois = append(pois, poi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("POIデータの読み取り失敗: %w", err)
	}

	return pois, nil
}
