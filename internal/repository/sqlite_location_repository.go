package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"QuestNav-App/internal/domain/model"
	"QuestNav-App/internal/domain/repository"
	"QuestNav-App/internal/infrastructure/database"
)

// SQLiteLocationRepository ローカルSQLiteを使用した最終確認位置ストア
type SQLiteLocationRepository struct {
	client *database.SQLiteClient
}

// NewSQLiteLocationRepository 新しいSQLiteLocationRepositoryインスタンスを作成し、
// 必要なテーブルを初期化する
func NewSQLiteLocationRepository(client *database.SQLiteClient) (repository.LocationStore, error) {
	schema := `
		CREATE TABLE IF NOT EXISTS last_known_location (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			lat REAL NOT NULL,
			lng REAL NOT NULL
		);
		CREATE TABLE IF NOT EXISTS map_flags (
			key TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		);`
	if _, err := client.DB.Exec(schema); err != nil {
		return nil, fmt.Errorf("テーブルの初期化に失敗: %w", err)
	}

	return &SQLiteLocationRepository{client: client}, nil
}

// SaveLastKnownLocation 最終確認位置を保存する（1件のみ保持）
func (r *SQLiteLocationRepository) SaveLastKnownLocation(ctx context.Context, location model.LatLng) error {
	_, err := r.client.DB.ExecContext(ctx, `
		INSERT INTO last_known_location (id, lat, lng) VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET lat = excluded.lat, lng = excluded.lng`,
		location.Lat, location.Lng)
	if err != nil {
		return fmt.Errorf("最終確認位置の保存失敗: %w", err)
	}
	return nil
}

// LoadLastKnownLocation 保存された最終確認位置を読み込む
func (r *SQLiteLocationRepository) LoadLastKnownLocation(ctx context.Context) (model.LatLng, bool, error) {
	var location model.LatLng
	err := r.client.DB.QueryRowContext(ctx,
		"SELECT lat, lng FROM last_known_location WHERE id = 1").
		Scan(&location.Lat, &location.Lng)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LatLng{}, false, nil
	}
	if err != nil {
		return model.LatLng{}, false, fmt.Errorf("最終確認位置の読み込み失敗: %w", err)
	}
	return location, true, nil
}

// SaveOnboardingSeen オンボーディング表示済みフラグを保存する
func (r *SQLiteLocationRepository) SaveOnboardingSeen(ctx context.Context, seen bool) error {
	value := 0
	if seen {
		value = 1
	}
	_, err := r.client.DB.ExecContext(ctx, `
		INSERT INTO map_flags (key, value) VALUES ('onboarding_seen', $1)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, value)
	if err != nil {
		return fmt.Errorf("オンボーディングフラグの保存失敗: %w", err)
	}
	return nil
}

// LoadOnboardingSeen オンボーディング表示済みフラグを読み込む（未設定はfalse）
func (r *SQLiteLocationRepository) LoadOnboardingSeen(ctx context.Context) (bool, error) {
	var value int
	err := r.client.DB.QueryRowContext(ctx,
		"SELECT value FROM map_flags WHERE key = 'onboarding_seen'").Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("オンボーディングフラグの読み込み失敗: %w", err)
	}
	return value != 0, nil
}
