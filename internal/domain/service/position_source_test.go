package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuestNav-App/internal/domain/model"
	"QuestNav-App/internal/domain/repository"
	repoImpl "QuestNav-App/internal/repository"
)

// fakePositionProvider テスト用の測位プロバイダ
type fakePositionProvider struct {
	mu         sync.Mutex
	current    model.LatLng
	currentErr error
	deliver    func(model.LatLng)
	watchErr   error
}

func (f *fakePositionProvider) CurrentPosition(ctx context.Context, timeout time.Duration) (model.LatLng, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, f.currentErr
}

func (f *fakePositionProvider) WatchPosition(deliver func(model.LatLng)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watchErr != nil {
		return nil, f.watchErr
	}
	f.deliver = deliver
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.deliver = nil
	}, nil
}

func (f *fakePositionProvider) push(position model.LatLng) {
	f.mu.Lock()
	deliver := f.deliver
	f.mu.Unlock()
	if deliver != nil {
		deliver(position)
	}
}

func TestPositionSourceCurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("成功時は検証済み座標を返し最終確認位置として永続化する", func(t *testing.T) {
		provider := &fakePositionProvider{current: model.LatLng{Lat: 35.0, Lng: 135.0}}
		store := repoImpl.NewMemoryLocationRepository()
		source := NewPositionSource(provider, store, time.Second)

		position, err := source.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.LatLng{Lat: 35.0, Lng: 135.0}, position)

		saved, found, err := store.LoadLastKnownLocation(ctx)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, position, saved)
	})

	t.Run("権限拒否はそのまま分類される", func(t *testing.T) {
		provider := &fakePositionProvider{currentErr: repository.ErrPermissionDenied}
		source := NewPositionSource(provider, repoImpl.NewMemoryLocationRepository(), time.Second)

		_, err := source.Current(ctx)
		assert.ErrorIs(t, err, repository.ErrPermissionDenied)
	})

	t.Run("その他の失敗は測位不可に分類される", func(t *testing.T) {
		provider := &fakePositionProvider{currentErr: errors.New("device timeout")}
		source := NewPositionSource(provider, repoImpl.NewMemoryLocationRepository(), time.Second)

		_, err := source.Current(ctx)
		assert.ErrorIs(t, err, repository.ErrPositionUnavailable)
	})

	t.Run("無効な座標は測位不可として扱う", func(t *testing.T) {
		provider := &fakePositionProvider{current: model.LatLng{Lat: math.NaN(), Lng: 135.0}}
		store := repoImpl.NewMemoryLocationRepository()
		source := NewPositionSource(provider, store, time.Second)

		_, err := source.Current(ctx)
		assert.ErrorIs(t, err, repository.ErrPositionUnavailable)

		// 無効な値は永続化もされない
		_, found, _ := store.LoadLastKnownLocation(ctx)
		assert.False(t, found)
	})
}

func TestPositionSourceWatch(t *testing.T) {
	t.Run("各更新を検証し無効な更新は購読を維持したまま捨てる", func(t *testing.T) {
		provider := &fakePositionProvider{}
		source := NewPositionSource(provider, repoImpl.NewMemoryLocationRepository(), time.Second)

		var received []model.LatLng
		cancel, err := source.Watch(func(p model.LatLng) {
			received = append(received, p)
		})
		require.NoError(t, err)
		defer cancel()

		provider.push(model.LatLng{Lat: 35.0, Lng: 135.0})
		provider.push(model.LatLng{Lat: math.NaN(), Lng: 135.0}) // 破棄される
		provider.push(model.LatLng{Lat: 35.1, Lng: 135.1})

		assert.Equal(t, []model.LatLng{
			{Lat: 35.0, Lng: 135.0},
			{Lat: 35.1, Lng: 135.1},
		}, received)
	})

	t.Run("解除後は一切配信しない", func(t *testing.T) {
		provider := &fakePositionProvider{}
		source := NewPositionSource(provider, repoImpl.NewMemoryLocationRepository(), time.Second)

		var received []model.LatLng
		cancel, err := source.Watch(func(p model.LatLng) {
			received = append(received, p)
		})
		require.NoError(t, err)

		provider.push(model.LatLng{Lat: 35.0, Lng: 135.0})
		cancel()
		provider.push(model.LatLng{Lat: 35.1, Lng: 135.1})

		assert.Len(t, received, 1)
	})

	t.Run("権限拒否で購読を開始できない", func(t *testing.T) {
		provider := &fakePositionProvider{watchErr: repository.ErrPermissionDenied}
		source := NewPositionSource(provider, repoImpl.NewMemoryLocationRepository(), time.Second)

		_, err := source.Watch(func(model.LatLng) {})
		assert.ErrorIs(t, err, repository.ErrPermissionDenied)
	})
}
