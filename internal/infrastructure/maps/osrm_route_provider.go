package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"QuestNav-App/internal/domain/model"
	"QuestNav-App/internal/domain/repository"
)

// OSRMRouteProvider はOSRM Route Serviceを使用した走行経路検索の実装
type OSRMRouteProvider struct {
	endpoint   string
	httpClient *http.Client
}

// NewOSRMRouteProvider は新しいプロバイダを生成する
func NewOSRMRouteProvider(endpoint string) repository.RouteProvider {
	return &OSRMRouteProvider{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetDrivingRoute はOSRM APIを呼び出して2地点間の走行経路を取得する。
// 提供元のジオメトリは経度が先のペア列なので、緯度が先の順に転置してから検証する。
// 有効な点が2未満の応答はエラーとして扱う
func (o *OSRMRouteProvider) GetDrivingRoute(ctx context.Context, origin, destination model.LatLng) (*model.Route, error) {
	// 1. APIリクエストURLを構築（OSRMの座標は lng,lat の順）
	reqURL := fmt.Sprintf(
		"%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		o.endpoint, origin.Lng, origin.Lat, destination.Lng, destination.Lat,
	)

	// 2. HTTPリクエストを作成・実行
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	// 3. JSONレスポンスをパース
	var apiResp osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	if apiResp.Code != "Ok" || len(apiResp.Routes) == 0 {
		return nil, errors.New("APIから有効なルートが返されませんでした")
	}

	// 4. GeoJSONジオメトリを転置・検証してドメインモデルに変換
	firstRoute := apiResp.Routes[0]
	lineString, ok := firstRoute.Geometry.Geometry().(orb.LineString)
	if !ok {
		return nil, errors.New("経路のジオメトリがLineStringではありません")
	}
	points := model.SanitizeLineString(lineString)

	route := &model.Route{
		Points:          points,
		DistanceMeters:  firstRoute.Distance,
		DurationSeconds: firstRoute.Duration,
	}
	if !route.IsUsable() {
		return nil, errors.New("検証を通過した経路の点が2未満です")
	}

	return route, nil
}

// --- OSRM APIのレスポンスをパースするための構造体 ---

type osrmRouteResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}
type osrmRoute struct {
	Geometry geojson.Geometry `json:"geometry"` // GeoJSON LineString（[lng, lat] の順）
	Distance *float64         `json:"distance"` // meters（省略されうる）
	Duration *float64         `json:"duration"` // seconds（省略されうる）
}
