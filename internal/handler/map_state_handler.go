package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"QuestNav-App/internal/domain/model"
	"QuestNav-App/internal/infrastructure/geolocation"
	"QuestNav-App/internal/usecase"
)

// MapStateHandler マップ状態APIのハンドラー
type MapStateHandler struct {
	mapState usecase.MapStateUseCase
	devices  *geolocation.DevicePositionProvider
}

// NewMapStateHandler 新しいMapStateHandlerインスタンスを作成
func NewMapStateHandler(mapState usecase.MapStateUseCase, devices *geolocation.DevicePositionProvider) *MapStateHandler {
	return &MapStateHandler{
		mapState: mapState,
		devices:  devices,
	}
}

// RegisterRoutes エンドポイントをルーターに登録する
func (h *MapStateHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", h.GetHealth)
		api.GET("/map/state", h.GetMapState)
		api.POST("/map/position", h.PostPosition)
		api.POST("/map/waypoint", h.PostWaypoint)
		api.DELETE("/map/route", h.DeleteRoute)
		api.POST("/map/recenter", h.PostRecenter)
		api.POST("/map/categories/toggle", h.PostCategoryToggle)
		api.GET("/map/onboarding", h.GetOnboarding)
		api.POST("/map/onboarding", h.PostOnboarding)
	}
}

// coordinateRequest 緯度経度を受け取る共通のリクエストボディ。
// 0は有効な緯度・経度なのでrequired検証は付けず、座標の妥当性は下流で判定する
type coordinateRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GetHealth ヘルスチェックエンドポイント
// GET /api/health
func (h *MapStateHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "QuestNav-App"})
}

// GetMapState マップの観測可能な状態を返すエンドポイント
// GET /api/map/state
func (h *MapStateHandler) GetMapState(c *gin.Context) {
	c.JSON(http.StatusOK, h.mapState.Snapshot())
}

// PostPosition デバイスからの測位結果を取り込むエンドポイント
// POST /api/map/position
func (h *MapStateHandler) PostPosition(c *gin.Context) {
	var req coordinateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	// 検証は下流で行い、不正なフィックスは黙って捨てられる
	h.devices.Push(model.LatLng{Lat: req.Lat, Lng: req.Lng})
	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}

// PostWaypoint 目的地を設定するエンドポイント
// POST /api/map/waypoint
func (h *MapStateHandler) PostWaypoint(c *gin.Context) {
	var req coordinateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	if err := h.mapState.SetWaypoint(model.LatLng{Lat: req.Lat, Lng: req.Lng}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "目的地の設定に失敗しました",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, h.mapState.Snapshot())
}

// DeleteRoute 目的地と経路をクリアするエンドポイント
// DELETE /api/map/route
func (h *MapStateHandler) DeleteRoute(c *gin.Context) {
	h.mapState.ClearRoute()
	c.JSON(http.StatusOK, h.mapState.Snapshot())
}

// PostRecenter カメラジャンプのターゲットを設定するエンドポイント
// POST /api/map/recenter
func (h *MapStateHandler) PostRecenter(c *gin.Context) {
	var req coordinateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	if err := h.mapState.Recenter(model.LatLng{Lat: req.Lat, Lng: req.Lng}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リセンターに失敗しました",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, h.mapState.Snapshot())
}

// categoryToggleRequest カテゴリ切り替えのリクエストボディ
type categoryToggleRequest struct {
	Category string `json:"category" binding:"required"`
}

// PostCategoryToggle カテゴリの表示・非表示を切り替えるエンドポイント
// POST /api/map/categories/toggle
func (h *MapStateHandler) PostCategoryToggle(c *gin.Context) {
	var req categoryToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "リクエストの形式が正しくありません",
			"details": err.Error(),
		})
		return
	}

	visible, err := h.mapState.ToggleCategory(req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "カテゴリの切り替えに失敗しました",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": req.Category, "visible": visible})
}

// GetOnboarding オンボーディング表示済みフラグを返すエンドポイント
// GET /api/map/onboarding
func (h *MapStateHandler) GetOnboarding(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"seen": h.mapState.OnboardingSeen(c.Request.Context())})
}

// PostOnboarding オンボーディング表示済みフラグを立てるエンドポイント
// POST /api/map/onboarding
func (h *MapStateHandler) PostOnboarding(c *gin.Context) {
	h.mapState.MarkOnboardingSeen(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"seen": true})
}
