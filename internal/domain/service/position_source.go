package service

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"QuestNav-App/internal/domain/model"
	"QuestNav-App/internal/domain/repository"
)

// PositionSource 測位デバイスをラップし、検証済みの座標または明示的な利用不可状態に正規化する。
// 単発取得と継続購読の2つのモードを提供する
type PositionSource struct {
	provider repository.PositionProvider
	store    repository.LocationStore
	timeout  time.Duration
}

// NewPositionSource 新しいPositionSourceインスタンスを作成
func NewPositionSource(provider repository.PositionProvider, store repository.LocationStore, timeout time.Duration) *PositionSource {
	return &PositionSource{
		provider: provider,
		store:    store,
		timeout:  timeout,
	}
}

// Current 現在位置を1回だけ取得する。
// 成功時は検証済み座標を返し、最後に確認された位置としてベストエフォートで永続化する。
// 失敗は ErrPermissionDenied / ErrPositionUnavailable のいずれかに分類して返す
func (s *PositionSource) Current(ctx context.Context) (model.LatLng, error) {
	position, err := s.provider.CurrentPosition(ctx, s.timeout)
	if err != nil {
		if errors.Is(err, repository.ErrPermissionDenied) {
			return model.LatLng{}, repository.ErrPermissionDenied
		}
		return model.LatLng{}, repository.ErrPositionUnavailable
	}

	if !position.IsValid() {
		return model.LatLng{}, repository.ErrPositionUnavailable
	}

	// 永続化の失敗は呼び出し側に伝播させない
	if err := s.store.SaveLastKnownLocation(ctx, position); err != nil {
		log.Printf("⚠️ 最終確認位置の保存に失敗（無視して継続）: %v", err)
	}

	return position, nil
}

// LastKnown 前回セッションで永続化された位置を読み込む。
// 読み込み失敗時は値なしとして扱う
func (s *PositionSource) LastKnown(ctx context.Context) (model.LatLng, bool) {
	location, found, err := s.store.LoadLastKnownLocation(ctx)
	if err != nil {
		log.Printf("⚠️ 最終確認位置の読み込みに失敗（デフォルトで継続）: %v", err)
		return model.LatLng{}, false
	}
	if !found || !location.IsValid() {
		return model.LatLng{}, false
	}
	return location, true
}

// Watch 位置更新の継続購読を開始する。
// 各更新は個別に検証し、不正な更新は購読を維持したまま破棄する。
// 返却された cancel の呼び出し後は一切配信しない
func (s *PositionSource) Watch(deliver func(model.LatLng)) (func(), error) {
	var cancelled atomic.Bool

	cancelProvider, err := s.provider.WatchPosition(func(position model.LatLng) {
		if cancelled.Load() {
			return
		}
		if !position.IsValid() {
			return
		}
		deliver(position)
	})
	if err != nil {
		if errors.Is(err, repository.ErrPermissionDenied) {
			return nil, repository.ErrPermissionDenied
		}
		return nil, repository.ErrPositionUnavailable
	}

	return func() {
		cancelled.Store(true)
		cancelProvider()
	}, nil
}
