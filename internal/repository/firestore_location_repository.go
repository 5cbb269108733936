package repository

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"

	"QuestNav-App/internal/domain/model"
	"QuestNav-App/internal/domain/repository"
)

// FirestoreLocationRepository Firestoreを使用した最終確認位置ストア。
// デプロイ環境（Cloud Run）ではこちらを使用する
type FirestoreLocationRepository struct {
	client *firestore.Client
	// deviceID 端末単位でドキュメントを分けるためのスコープキー
	deviceID string
}

// NewFirestoreLocationRepository 新しいFirestoreLocationRepositoryインスタンスを作成
func NewFirestoreLocationRepository(client *firestore.Client, deviceID string) repository.LocationStore {
	return &FirestoreLocationRepository{
		client:   client,
		deviceID: deviceID,
	}
}

// firestoreMapPreferences mapPreferences ドキュメントの構造
type firestoreMapPreferences struct {
	Lat            float64 `firestore:"lat"`
	Lng            float64 `firestore:"lng"`
	HasLocation    bool    `firestore:"has_location"`
	OnboardingSeen bool    `firestore:"onboarding_seen"`
}

// SaveLastKnownLocation 最終確認位置を保存する
func (r *FirestoreLocationRepository) SaveLastKnownLocation(ctx context.Context, location model.LatLng) error {
	_, err := r.doc().Set(ctx, map[string]interface{}{
		"lat":          location.Lat,
		"lng":          location.Lng,
		"has_location": true,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("最終確認位置の保存に失敗しました: %w", err)
	}
	return nil
}

// LoadLastKnownLocation 保存された最終確認位置を読み込む
func (r *FirestoreLocationRepository) LoadLastKnownLocation(ctx context.Context) (model.LatLng, bool, error) {
	doc, err := r.doc().Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return model.LatLng{}, false, nil
		}
		return model.LatLng{}, false, fmt.Errorf("最終確認位置の取得に失敗しました: %w", err)
	}

	var prefs firestoreMapPreferences
	if err := doc.DataTo(&prefs); err != nil {
		return model.LatLng{}, false, fmt.Errorf("データの変換に失敗しました: %w", err)
	}
	if !prefs.HasLocation {
		return model.LatLng{}, false, nil
	}
	return model.LatLng{Lat: prefs.Lat, Lng: prefs.Lng}, true, nil
}

// SaveOnboardingSeen オンボーディング表示済みフラグを保存する
func (r *FirestoreLocationRepository) SaveOnboardingSeen(ctx context.Context, seen bool) error {
	_, err := r.doc().Set(ctx, map[string]interface{}{
		"onboarding_seen": seen,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("オンボーディングフラグの保存に失敗しました: %w", err)
	}
	return nil
}

// LoadOnboardingSeen オンボーディング表示済みフラグを読み込む
func (r *FirestoreLocationRepository) LoadOnboardingSeen(ctx context.Context) (bool, error) {
	doc, err := r.doc().Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("オンボーディングフラグの取得に失敗しました: %w", err)
	}

	var prefs firestoreMapPreferences
	if err := doc.DataTo(&prefs); err != nil {
		return false, fmt.Errorf("データの変換に失敗しました: %w", err)
	}
	return prefs.OnboardingSeen, nil
}

func (r *FirestoreLocationRepository) doc() *firestore.DocumentRef {
	return r.client.Collection("mapPreferences").Doc(r.deviceID)
}

func isNotFound(err error) bool {
	status := err.Error()
	return strings.Contains(status, "NotFound") || strings.Contains(status, "not found")
}
