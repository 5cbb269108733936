package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuestNav-App/internal/domain/model"
	"QuestNav-App/internal/domain/repository"
	"QuestNav-App/internal/infrastructure/database"
)

// runLocationStoreSuite 全てのLocationStore実装が満たすべき共通の性質を検証する
func runLocationStoreSuite(t *testing.T, store repository.LocationStore) {
	ctx := context.Background()

	t.Run("初期状態では最終確認位置が存在しない", func(t *testing.T) {
		_, found, err := store.LoadLastKnownLocation(ctx)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("保存した座標を読み戻すと等しい", func(t *testing.T) {
		saved := model.LatLng{Lat: 34.98534, Lng: 135.75813}
		require.NoError(t, store.SaveLastKnownLocation(ctx, saved))

		loaded, found, err := store.LoadLastKnownLocation(ctx)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, saved, loaded)
	})

	t.Run("上書き保存で最新の1件だけを保持する", func(t *testing.T) {
		latest := model.LatLng{Lat: 35.03937, Lng: 135.72924}
		require.NoError(t, store.SaveLastKnownLocation(ctx, latest))

		loaded, found, err := store.LoadLastKnownLocation(ctx)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, latest, loaded)
	})

	t.Run("オンボーディングフラグの読み書き", func(t *testing.T) {
		seen, err := store.LoadOnboardingSeen(ctx)
		require.NoError(t, err)
		assert.False(t, seen)

		require.NoError(t, store.SaveOnboardingSeen(ctx, true))

		seen, err = store.LoadOnboardingSeen(ctx)
		require.NoError(t, err)
		assert.True(t, seen)
	})
}

func TestMemoryLocationRepository(t *testing.T) {
	runLocationStoreSuite(t, NewMemoryLocationRepository())
}

func TestSQLiteLocationRepository(t *testing.T) {
	client, err := database.NewSQLiteClient(filepath.Join(t.TempDir(), "questnav_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	store, err := NewSQLiteLocationRepository(client)
	require.NoError(t, err)

	runLocationStoreSuite(t, store)
}
