package service

import "time"

// FrameScheduler アニメーションの1フレームをスケジュールする抽象。
// Schedule は予約を取り消すための関数を返し、取り消し後 fn は呼ばれない。
// テストでは手動で発火するフェイク実装に差し替える
type FrameScheduler interface {
	Schedule(fn func()) (cancel func())
}

// intervalFrameScheduler time.AfterFunc による実スケジューラ
type intervalFrameScheduler struct {
	interval time.Duration
}

// NewIntervalFrameScheduler 固定間隔でフレームを発火するスケジューラを作成
func NewIntervalFrameScheduler(interval time.Duration) FrameScheduler {
	return &intervalFrameScheduler{interval: interval}
}

func (s *intervalFrameScheduler) Schedule(fn func()) func() {
	timer := time.AfterFunc(s.interval, fn)
	return func() { timer.Stop() }
}
