package service

import (
	"sync"

	"QuestNav-App/internal/domain/model"
)

// AnimationState 経路アニメーションの状態
type AnimationState int

const (
	// AnimationIdle 経路が無い、または短すぎてアニメーションしない状態
	AnimationIdle AnimationState = iota
	// AnimationAnimating フレームごとに経路を段階的に公開している状態
	AnimationAnimating
	// AnimationComplete サンプリング対象の点を全て公開し終えた状態
	AnimationComplete
)

// RouteAnimator 経路を時間経過とともに段階的に公開するアニメーター。
// 新しい経路が設定されるたびに進行中のアニメーションを取り消して最初から再開する。
// 古い予約フレームは世代カウンタの比較で無効化されるため、
// 同じ公開列に対して複数のアニメーションが同時に走ることはない
type RouteAnimator struct {
	mu         sync.Mutex
	scheduler  FrameScheduler
	stride     int
	generation uint64
	state      AnimationState
	route      []model.LatLng
	revealed   []model.LatLng
	nextIndex  int
	cancelTick func()
}

// NewRouteAnimator 新しいRouteAnimatorインスタンスを作成。
// stride はフレームごとに進める点数（なめらかさと描画コストのトレードオフ）
func NewRouteAnimator(scheduler FrameScheduler, stride int) *RouteAnimator {
	if stride < 1 {
		stride = 1
	}
	return &RouteAnimator{
		scheduler: scheduler,
		stride:    stride,
		state:     AnimationIdle,
	}
}

// Start 新しい経路のアニメーションを開始する。
// 進行中のアニメーションは同期的に取り消され、公開列は経路の先頭1点に再初期化される。
// 有効な点が2未満の経路は公開列を空にしてIdleのままにする
func (a *RouteAnimator) Start(points []model.LatLng) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cancelPendingLocked()
	a.generation++

	if len(points) < 2 {
		a.route = nil
		a.revealed = nil
		a.nextIndex = 0
		a.state = AnimationIdle
		return
	}

	a.route = make([]model.LatLng, len(points))
	copy(a.route, points)
	a.revealed = []model.LatLng{a.route[0]}
	a.nextIndex = a.stride
	a.state = AnimationAnimating
	a.scheduleTickLocked()
}

// Stop アニメーションを停止し、公開列を空にする（コンポーネント破棄時にも呼ぶ）
func (a *RouteAnimator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cancelPendingLocked()
	a.generation++
	a.route = nil
	a.revealed = nil
	a.nextIndex = 0
	a.state = AnimationIdle
}

// Revealed 現時点までに公開された経路のコピーを返す
func (a *RouteAnimator) Revealed() []model.LatLng {
	a.mu.Lock()
	defer a.mu.Unlock()

	revealed := make([]model.LatLng, len(a.revealed))
	copy(revealed, a.revealed)
	return revealed
}

// State 現在のアニメーション状態を返す
func (a *RouteAnimator) State() AnimationState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *RouteAnimator) cancelPendingLocked() {
	if a.cancelTick != nil {
		a.cancelTick()
		a.cancelTick = nil
	}
}

func (a *RouteAnimator) scheduleTickLocked() {
	generation := a.generation
	a.cancelTick = a.scheduler.Schedule(func() {
		a.tick(generation)
	})
}

// tick 1フレーム分の公開を進める。世代が古いフレームは何もしない
func (a *RouteAnimator) tick(generation uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if generation != a.generation || a.state != AnimationAnimating {
		return
	}

	if a.nextIndex >= len(a.route) {
		a.state = AnimationComplete
		a.cancelTick = nil
		return
	}

	a.revealed = append(a.revealed, a.route[a.nextIndex])
	a.nextIndex += a.stride
	a.scheduleTickLocked()
}
