package repository

import (
	"context"
	"errors"
	"time"

	"QuestNav-App/internal/domain/model"
)

var (
	// ErrPermissionDenied 位置情報の利用がユーザーによって拒否されている
	ErrPermissionDenied = errors.New("位置情報の利用が許可されていません")
	// ErrPositionUnavailable 現在位置を取得できない（タイムアウト・機器エラーなど）
	ErrPositionUnavailable = errors.New("現在位置を取得できません")
)

// PositionProvider 測位デバイスからの位置情報を提供する。
// CurrentPosition はキャッシュされた古い測位結果を返さず、常に新しい測位を待つ。
// WatchPosition は購読を解除するための関数を返し、解除後は一切配信しない
type PositionProvider interface {
	CurrentPosition(ctx context.Context, timeout time.Duration) (model.LatLng, error)
	WatchPosition(deliver func(model.LatLng)) (cancel func(), err error)
}
