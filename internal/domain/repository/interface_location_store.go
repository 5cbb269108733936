package repository

import (
	"context"

	"QuestNav-App/internal/domain/model"
)

// LocationStore 最後に確認された位置とオンボーディング表示済みフラグの永続化。
// 書き込み・読み込みの失敗は致命的ではなく、呼び出し側はデフォルト値で継続する
type LocationStore interface {
	SaveLastKnownLocation(ctx context.Context, location model.LatLng) error
	// LoadLastKnownLocation は保存された位置と、値が存在するかどうかを返す
	LoadLastKnownLocation(ctx context.Context) (model.LatLng, bool, error)
	SaveOnboardingSeen(ctx context.Context, seen bool) error
	LoadOnboardingSeen(ctx context.Context) (bool, error)
}
