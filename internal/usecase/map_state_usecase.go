package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"QuestNav-App/internal/config"
	"QuestNav-App/internal/domain/helper"
	"QuestNav-App/internal/domain/model"
	"QuestNav-App/internal/domain/repository"
	"QuestNav-App/internal/domain/service"
)

// ErrInvalidCoordinate 外部から渡された座標が検証を通らなかった
var ErrInvalidCoordinate = errors.New("無効な座標です")

// MapStateUseCase マップ状態のオーケストレーター。
// プレイヤー位置・目的地・POI集合・経路・公開中経路・リセンタートリガーを所有し、
// 測位ソース、POI取得、ルーティング、経路アニメーションを結線する
type MapStateUseCase interface {
	// Start は永続化された最終確認位置で初期表示を種付けし、測位の購読を開始する
	Start(ctx context.Context) error

	// OnPositionUpdate は新しい測位結果を取り込む（無効な座標は破棄）
	OnPositionUpdate(position model.LatLng)

	// SetWaypoint は目的地を設定し、経路取得をトリガーする
	SetWaypoint(waypoint model.LatLng) error

	// ClearRoute は目的地・経路・公開中経路・距離・所要時間を原子的にリセットする
	ClearRoute()

	// Recenter はカメラジャンプ用のターゲットと単調増加トークンを更新する
	Recenter(target model.LatLng) error

	// ToggleCategory はカテゴリの表示・非表示を切り替え、切り替え後の表示状態を返す
	ToggleCategory(category string) (bool, error)

	// MarkOnboardingSeen はオンボーディング表示済みフラグをベストエフォートで永続化する
	MarkOnboardingSeen(ctx context.Context)

	// OnboardingSeen はオンボーディング表示済みフラグを読み込む（失敗時はfalse）
	OnboardingSeen(ctx context.Context) bool

	// Snapshot はレンダリング層へ公開する現在のマップ状態を返す
	Snapshot() model.MapState

	// Close は測位購読と予約済みアニメーションフレームを取り消す
	Close()
}

// mapStateUseCaseImpl はMapStateUseCaseの実装
type mapStateUseCaseImpl struct {
	mu sync.Mutex

	cfg       *config.Config
	sessionID string

	poisProvider  repository.POIsProvider
	routeProvider repository.RouteProvider
	positions     *service.PositionSource
	store         repository.LocationStore
	animator      *service.RouteAnimator

	player            *model.LatLng
	waypoint          *model.LatLng
	pois              []model.POI
	route             *model.Route
	trail             []model.LatLng
	visibleCategories map[string]bool
	recenterTarget    *model.LatLng
	recenterToken     uint64
	permissionBlocked bool

	// POIクエリの単一飛行ガード（インスタンス単位）
	poiInFlight     bool
	lastPOICenter   *model.LatLng
	poiGeneration   uint64
	routeGeneration uint64

	cancelWatch func()
	closed      bool
}

// NewMapStateUseCase 新しいMapStateUseCaseインスタンスを作成
func NewMapStateUseCase(
	cfg *config.Config,
	poisProvider repository.POIsProvider,
	routeProvider repository.RouteProvider,
	positions *service.PositionSource,
	store repository.LocationStore,
	animator *service.RouteAnimator,
) MapStateUseCase {
	return &mapStateUseCaseImpl{
		cfg:               cfg,
		sessionID:         uuid.New().String(),
		poisProvider:      poisProvider,
		routeProvider:     routeProvider,
		positions:         positions,
		store:             store,
		animator:          animator,
		visibleCategories: model.DefaultVisibleCategories(),
	}
}

// Start は永続化された最終確認位置で初期表示を種付けし、測位の購読を開始する
func (u *mapStateUseCaseImpl) Start(ctx context.Context) error {
	log.Printf("🗺️ マップセッション開始 (ID: %s)", u.sessionID)

	// 前回セッションの位置があれば、最初の測位が届く前の初期表示に使う
	if last, ok := u.positions.LastKnown(ctx); ok {
		u.mu.Lock()
		u.player = &last
		u.mu.Unlock()
		log.Printf("📍 前回の最終確認位置で初期化: (%.5f, %.5f)", last.Lat, last.Lng)
	}

	// 単発測位で最初のフィックスを試みる。権限拒否はユーザー可視の状態として保持する
	if position, err := u.positions.Current(ctx); err != nil {
		if errors.Is(err, repository.ErrPermissionDenied) {
			u.mu.Lock()
			u.permissionBlocked = true
			u.mu.Unlock()
			log.Printf("🚫 位置情報の権限が拒否されています")
		} else {
			log.Printf("⚠️ 初回測位に失敗（購読で回復を待つ）: %v", err)
		}
	} else {
		u.OnPositionUpdate(position)
	}

	cancel, err := u.positions.Watch(u.OnPositionUpdate)
	if err != nil {
		if errors.Is(err, repository.ErrPermissionDenied) {
			u.mu.Lock()
			u.permissionBlocked = true
			u.mu.Unlock()
			return nil
		}
		return fmt.Errorf("測位の購読開始に失敗: %w", err)
	}

	u.mu.Lock()
	u.cancelWatch = cancel
	u.mu.Unlock()
	return nil
}

// OnPositionUpdate は新しい測位結果を取り込む。
// 位置更新は常に最新のものが次のPOIクエリ中心の決定に優先される
func (u *mapStateUseCaseImpl) OnPositionUpdate(position model.LatLng) {
	if !position.IsValid() {
		return
	}

	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return
	}

	u.player = &position
	u.permissionBlocked = false
	u.trail = append(u.trail, position)

	u.maybeRefreshPOIsLocked(position)

	var reroute *model.LatLng
	if u.waypoint != nil {
		reroute = u.waypoint
	}
	u.mu.Unlock()

	if reroute != nil {
		u.requestRoute(position, *reroute)
	}
}

// SetWaypoint は目的地を設定し、最終確認位置として永続化して経路取得をトリガーする
func (u *mapStateUseCaseImpl) SetWaypoint(waypoint model.LatLng) error {
	if !waypoint.IsValid() {
		return ErrInvalidCoordinate
	}

	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return nil
	}
	u.waypoint = &waypoint
	var origin *model.LatLng
	if u.player != nil {
		p := *u.player
		origin = &p
	}
	u.mu.Unlock()

	// 永続化の失敗は無視する
	if err := u.store.SaveLastKnownLocation(context.Background(), waypoint); err != nil {
		log.Printf("⚠️ 目的地の永続化に失敗（無視して継続）: %v", err)
	}

	if origin != nil {
		u.requestRoute(*origin, waypoint)
	}
	return nil
}

// ClearRoute は目的地・経路・公開中経路・距離・所要時間を原子的にリセットする
func (u *mapStateUseCaseImpl) ClearRoute() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.waypoint = nil
	u.route = nil
	u.routeGeneration++
	u.animator.Stop()
	log.Printf("🧹 経路をクリア (セッション: %s)", u.sessionID)
}

// Recenter はカメラジャンプ用のターゲットとトークンを更新する。
// 同じ座標への連続リセンターでもトークンが増えるため、レンダリング層は必ずジャンプできる
func (u *mapStateUseCaseImpl) Recenter(target model.LatLng) error {
	if !target.IsValid() {
		return ErrInvalidCoordinate
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	u.recenterTarget = &target
	u.recenterToken++
	return nil
}

// ToggleCategory はカテゴリの表示・非表示を切り替える。
// POI取得・アニメーションのパイプラインからは独立した操作
func (u *mapStateUseCaseImpl) ToggleCategory(category string) (bool, error) {
	if !model.IsKnownCategory(category) {
		return false, fmt.Errorf("未知のカテゴリです: %s", category)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.visibleCategories[category] {
		delete(u.visibleCategories, category)
		return false, nil
	}
	u.visibleCategories[category] = true
	return true, nil
}

// MarkOnboardingSeen はオンボーディング表示済みフラグをベストエフォートで永続化する
func (u *mapStateUseCaseImpl) MarkOnboardingSeen(ctx context.Context) {
	if err := u.store.SaveOnboardingSeen(ctx, true); err != nil {
		log.Printf("⚠️ オンボーディングフラグの保存に失敗（無視して継続）: %v", err)
	}
}

// OnboardingSeen はオンボーディング表示済みフラグを読み込む
func (u *mapStateUseCaseImpl) OnboardingSeen(ctx context.Context) bool {
	seen, err := u.store.LoadOnboardingSeen(ctx)
	if err != nil {
		log.Printf("⚠️ オンボーディングフラグの読み込みに失敗（デフォルトで継続）: %v", err)
		return false
	}
	return seen
}

// Snapshot はレンダリング層へ公開する現在のマップ状態を返す
func (u *mapStateUseCaseImpl) Snapshot() model.MapState {
	u.mu.Lock()
	defer u.mu.Unlock()

	visible := make([]string, 0, len(u.visibleCategories))
	for _, c := range model.GetAllCategories() {
		if u.visibleCategories[c] {
			visible = append(visible, c)
		}
	}

	trail := make([]model.LatLng, len(u.trail))
	copy(trail, u.trail)

	state := model.MapState{
		PlayerPosition:    copyLatLng(u.player),
		Waypoint:          copyLatLng(u.waypoint),
		POIs:              model.FilterPOIsByCategories(u.pois, u.visibleCategories),
		RevealedRoute:     u.animator.Revealed(),
		RecenterTarget:    copyLatLng(u.recenterTarget),
		RecenterToken:     u.recenterToken,
		VisibleCategories: visible,
		Trail:             trail,
		PermissionBlocked: u.permissionBlocked,
	}
	if u.route != nil {
		state.RouteDistanceMeters = u.route.DistanceMeters
		state.RouteDurationSeconds = u.route.DurationSeconds
	}
	return state
}

// Close は測位購読と予約済みアニメーションフレームを取り消す。
// 飛行中のネットワーク要求は取り消さず、遅延応答は世代比較で破棄される
func (u *mapStateUseCaseImpl) Close() {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return
	}
	u.closed = true
	u.poiGeneration++
	u.routeGeneration++
	cancel := u.cancelWatch
	u.cancelWatch = nil
	u.animator.Stop()
	u.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	log.Printf("👋 マップセッション終了 (ID: %s)", u.sessionID)
}

// maybeRefreshPOIsLocked は移動量のしきい値と単一飛行ガードを満たす場合のみ
// 周辺POIの再取得を起動する。呼び出し側が u.mu を保持していること
func (u *mapStateUseCaseImpl) maybeRefreshPOIsLocked(center model.LatLng) {
	if u.poiInFlight {
		return
	}
	if u.lastPOICenter != nil &&
		!helper.DisplacementExceeds(*u.lastPOICenter, center, u.cfg.DisplacementThresholdMeters) {
		return
	}

	u.poiInFlight = true
	u.lastPOICenter = &center
	u.poiGeneration++
	generation := u.poiGeneration

	go u.fetchPOIs(center, generation)
}

// fetchPOIs は周辺POIを取得してコレクションを丸ごと置き換える。
// 失敗時は既存のコレクションを維持し、ユーザーにはエラーを出さない
func (u *mapStateUseCaseImpl) fetchPOIs(center model.LatLng, generation uint64) {
	pois, err := u.poisProvider.FindNearby(context.Background(), center, u.cfg.POIRadiusMeters, u.cfg.POILimit)

	u.mu.Lock()
	defer u.mu.Unlock()

	// 成否に関わらず単一飛行フラグは必ず下ろす
	u.poiInFlight = false

	if u.closed || generation != u.poiGeneration {
		return
	}
	if err != nil {
		log.Printf("⚠️ 周辺POIの取得に失敗（既存コレクションを維持）: %v", err)
		return
	}

	u.pois = pois
	log.Printf("✅ 周辺POIを更新 (%d件, 中心: %.5f, %.5f)", len(pois), center.Lat, center.Lng)
}

// requestRoute は経路取得を起動する。
// 失敗および2点未満の応答は既存の経路を消さずに破棄する。
// 新しい経路が受理された時点で進行中のアニメーションは同期的に再開される
func (u *mapStateUseCaseImpl) requestRoute(origin, destination model.LatLng) {
	u.mu.Lock()
	u.routeGeneration++
	generation := u.routeGeneration
	u.mu.Unlock()

	go func() {
		route, err := u.routeProvider.GetDrivingRoute(context.Background(), origin, destination)

		u.mu.Lock()
		defer u.mu.Unlock()

		if u.closed || generation != u.routeGeneration {
			return
		}
		if err != nil {
			log.Printf("⚠️ 経路の取得に失敗（既存の経路を維持）: %v", err)
			return
		}
		if !route.IsUsable() {
			log.Printf("⚠️ 有効な点が2未満の経路応答を破棄（既存の経路を維持）")
			return
		}

		u.route = route
		u.animator.Start(route.Points)
		log.Printf("🛣️ 経路を更新 (%d点)", len(route.Points))
	}()
}

func copyLatLng(ll *model.LatLng) *model.LatLng {
	if ll == nil {
		return nil
	}
	c := *ll
	return &c
}
