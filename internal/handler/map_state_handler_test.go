package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuestNav-App/internal/domain/model"
	"QuestNav-App/internal/infrastructure/geolocation"
	"QuestNav-App/internal/usecase"
)

// stubMapStateUseCase ハンドラーテスト用のスタブ。受け取った座標を記録する
type stubMapStateUseCase struct {
	mu        sync.Mutex
	waypoints []model.LatLng
	recenters []model.LatLng
}

func (s *stubMapStateUseCase) Start(ctx context.Context) error        { return nil }
func (s *stubMapStateUseCase) OnPositionUpdate(position model.LatLng) {}

func (s *stubMapStateUseCase) SetWaypoint(waypoint model.LatLng) error {
	if !waypoint.IsValid() {
		return usecase.ErrInvalidCoordinate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waypoints = append(s.waypoints, waypoint)
	return nil
}

func (s *stubMapStateUseCase) ClearRoute() {}

func (s *stubMapStateUseCase) Recenter(target model.LatLng) error {
	if !target.IsValid() {
		return usecase.ErrInvalidCoordinate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recenters = append(s.recenters, target)
	return nil
}

func (s *stubMapStateUseCase) ToggleCategory(category string) (bool, error) { return true, nil }
func (s *stubMapStateUseCase) MarkOnboardingSeen(ctx context.Context)       {}
func (s *stubMapStateUseCase) OnboardingSeen(ctx context.Context) bool      { return false }
func (s *stubMapStateUseCase) Snapshot() model.MapState                     { return model.MapState{} }
func (s *stubMapStateUseCase) Close()                                       {}

func (s *stubMapStateUseCase) lastWaypoint() (model.LatLng, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.waypoints) == 0 {
		return model.LatLng{}, false
	}
	return s.waypoints[len(s.waypoints)-1], true
}

func newHandlerFixture(t *testing.T) (*gin.Engine, *stubMapStateUseCase, *geolocation.DevicePositionProvider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stub := &stubMapStateUseCase{}
	devices := geolocation.NewDevicePositionProvider()

	r := gin.New()
	NewMapStateHandler(stub, devices).RegisterRoutes(r)
	return r, stub, devices
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestPostPositionAcceptsZeroComponentCoordinate(t *testing.T) {
	r, _, devices := newHandlerFixture(t)

	var delivered []model.LatLng
	cancel, err := devices.WatchPosition(func(p model.LatLng) {
		delivered = append(delivered, p)
	})
	require.NoError(t, err)
	defer cancel()

	// 赤道上（緯度0）のフィックスは有効な座標として受理される
	w := postJSON(r, "/api/map/position", `{"lat": 0, "lng": 100.5}`)
	assert.Equal(t, http.StatusAccepted, w.Code)

	require.Len(t, delivered, 1)
	assert.Equal(t, model.LatLng{Lat: 0, Lng: 100.5}, delivered[0])
}

func TestPostWaypointAcceptsZeroComponentCoordinate(t *testing.T) {
	r, stub, _ := newHandlerFixture(t)

	// 本初子午線上（経度0）の目的地は有効な座標として受理される
	w := postJSON(r, "/api/map/waypoint", `{"lat": 51.48, "lng": 0}`)
	assert.Equal(t, http.StatusOK, w.Code)

	waypoint, ok := stub.lastWaypoint()
	require.True(t, ok)
	assert.Equal(t, model.LatLng{Lat: 51.48, Lng: 0}, waypoint)
}

func TestPostRecenterAcceptsOriginCoordinate(t *testing.T) {
	r, stub, _ := newHandlerFixture(t)

	w := postJSON(r, "/api/map/recenter", `{"lat": 0, "lng": 0}`)
	assert.Equal(t, http.StatusOK, w.Code)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	require.Len(t, stub.recenters, 1)
	assert.Equal(t, model.LatLng{Lat: 0, Lng: 0}, stub.recenters[0])
}

func TestPostWaypointRejectsOutOfRangeCoordinate(t *testing.T) {
	r, stub, _ := newHandlerFixture(t)

	// 範囲外の座標は下流の検証で弾かれて400になる
	w := postJSON(r, "/api/map/waypoint", `{"lat": 999, "lng": 135.0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, ok := stub.lastWaypoint()
	assert.False(t, ok)
}

func TestPostWaypointRejectsMalformedBody(t *testing.T) {
	r, _, _ := newHandlerFixture(t)

	w := postJSON(r, "/api/map/waypoint", `{"lat": "not-a-number"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
