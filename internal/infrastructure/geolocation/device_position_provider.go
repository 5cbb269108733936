package geolocation

import (
	"context"
	"sync"
	"time"

	"QuestNav-App/internal/domain/model"
	"QuestNav-App/internal/domain/repository"
)

// DevicePositionProvider デバイスからプッシュされる測位結果を配信するプロバイダ。
// HTTP経由で届いた生のフィックスを購読者へファンアウトする。
// 座標の検証は行わない（下流のPositionSourceが担当する）
type DevicePositionProvider struct {
	mu               sync.Mutex
	subscribers      map[int]func(model.LatLng)
	nextSubscriberID int
	waiters          []chan model.LatLng
	permissionDenied bool
}

// NewDevicePositionProvider 新しいプロバイダを生成する
func NewDevicePositionProvider() *DevicePositionProvider {
	return &DevicePositionProvider{
		subscribers: make(map[int]func(model.LatLng)),
	}
}

// Push デバイスから届いた測位結果を取り込み、購読者と単発待機者へ配信する
func (p *DevicePositionProvider) Push(position model.LatLng) {
	p.mu.Lock()
	subscribers := make([]func(model.LatLng), 0, len(p.subscribers))
	for _, cb := range p.subscribers {
		subscribers = append(subscribers, cb)
	}
	waiters := p.waiters
	p.waiters = nil
	p.mu.Unlock()

	for _, cb := range subscribers {
		cb(position)
	}
	for _, w := range waiters {
		w <- position
	}
}

// SetPermissionDenied 位置情報の権限拒否状態を設定する（デバイス側の状態を反映）
func (p *DevicePositionProvider) SetPermissionDenied(denied bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.permissionDenied = denied
}

// CurrentPosition 次にプッシュされる新しいフィックスを1つだけ待つ。
// キャッシュ済みの古いフィックスは返さない（常に新しい測位を要求する）
func (p *DevicePositionProvider) CurrentPosition(ctx context.Context, timeout time.Duration) (model.LatLng, error) {
	p.mu.Lock()
	if p.permissionDenied {
		p.mu.Unlock()
		return model.LatLng{}, repository.ErrPermissionDenied
	}
	waiter := make(chan model.LatLng, 1)
	p.waiters = append(p.waiters, waiter)
	p.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case position := <-waiter:
		return position, nil
	case <-timer.C:
		p.removeWaiter(waiter)
		return model.LatLng{}, repository.ErrPositionUnavailable
	case <-ctx.Done():
		p.removeWaiter(waiter)
		return model.LatLng{}, repository.ErrPositionUnavailable
	}
}

// WatchPosition 測位結果の継続購読を開始する。cancel 呼び出しで購読を解除する
func (p *DevicePositionProvider) WatchPosition(deliver func(model.LatLng)) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.permissionDenied {
		return nil, repository.ErrPermissionDenied
	}

	id := p.nextSubscriberID
	p.nextSubscriberID++
	p.subscribers[id] = deliver

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subscribers, id)
	}, nil
}

func (p *DevicePositionProvider) removeWaiter(waiter chan model.LatLng) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, w := range p.waiters {
		if w == waiter {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			break
		}
	}
}
