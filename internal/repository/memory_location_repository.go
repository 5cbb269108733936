package repository

import (
	"context"
	"sync"

	"QuestNav-App/internal/domain/model"
	"QuestNav-App/internal/domain/repository"
)

// MemoryLocationRepository インメモリの最終確認位置ストア。
// 永続化バックエンドが構成されていない環境とテストで使用する
type MemoryLocationRepository struct {
	mu             sync.Mutex
	location       model.LatLng
	hasLocation    bool
	onboardingSeen bool
}

// NewMemoryLocationRepository 新しいMemoryLocationRepositoryインスタンスを作成
func NewMemoryLocationRepository() repository.LocationStore {
	return &MemoryLocationRepository{}
}

// SaveLastKnownLocation 最終確認位置を保存する
func (r *MemoryLocationRepository) SaveLastKnownLocation(ctx context.Context, location model.LatLng) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.location = location
	r.hasLocation = true
	return nil
}

// LoadLastKnownLocation 保存された最終確認位置を読み込む
func (r *MemoryLocationRepository) LoadLastKnownLocation(ctx context.Context) (model.LatLng, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location, r.hasLocation, nil
}

// SaveOnboardingSeen オンボーディング表示済みフラグを保存する
func (r *MemoryLocationRepository) SaveOnboardingSeen(ctx context.Context, seen bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onboardingSeen = seen
	return nil
}

// LoadOnboardingSeen オンボーディング表示済みフラグを読み込む
func (r *MemoryLocationRepository) LoadOnboardingSeen(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.onboardingSeen, nil
}
