package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"QuestNav-App/internal/domain/model"
	"QuestNav-App/internal/domain/repository"
)

// OverpassPOIsProvider はOverpass APIを使用した周辺スポット検索の実装
type OverpassPOIsProvider struct {
	endpoint   string
	httpClient *http.Client
}

// NewOverpassPOIsProvider は新しいプロバイダを生成する
func NewOverpassPOIsProvider(endpoint string) repository.POIsProvider {
	return &OverpassPOIsProvider{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 25 * time.Second},
	}
}

// FindNearby はOverpass APIを呼び出して中心座標の周辺スポットを取得する。
// 各フィーチャは優先順位付きのタグ照合でカテゴリに分類し、
// 座標検証に失敗したものは捨て、受信順を保ったまま limit 件に切り詰める
func (p *OverpassPOIsProvider) FindNearby(ctx context.Context, center model.LatLng, radiusMeters int, limit int) ([]model.POI, error) {
	query := p.buildQuery(center, radiusMeters)

	req, err := http.NewRequestWithContext(ctx, "POST", p.endpoint,
		strings.NewReader(url.Values{"data": {query}}.Encode()))
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	var apiResp overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	return convertElements(apiResp.Elements, limit), nil
}

// buildQuery は分類ルールに出てくるタグキーを対象としたOverpassクエリを構築する
func (p *OverpassPOIsProvider) buildQuery(center model.LatLng, radiusMeters int) string {
	keys := make([]string, 0, len(model.CategoryRules))
	seen := make(map[string]bool)
	for _, rule := range model.CategoryRules {
		if !seen[rule.TagKey] {
			seen[rule.TagKey] = true
			keys = append(keys, rule.TagKey)
		}
	}

	var b strings.Builder
	b.WriteString("[out:json][timeout:20];(")
	for _, key := range keys {
		fmt.Fprintf(&b, "nwr(around:%d,%f,%f)[%q];", radiusMeters, center.Lat, center.Lng, key)
	}
	b.WriteString(");out center;")
	return b.String()
}

// convertElements は生のフィーチャ列を検証・分類済みのPOI列に変換する。
// 非ポイント形状は中心点の座標を採用する。
// 複数のタグ条件にマッチしたフィーチャはIDで重複排除し、最初の出現のみ採用する
func convertElements(elements []overpassElement, limit int) []model.POI {
	pois := make([]model.POI, 0, limit)
	seen := make(map[string]bool, len(elements))
	for _, el := range elements {
		if len(pois) >= limit {
			break
		}

		id := el.Type + "/" + strconv.FormatInt(el.ID, 10)
		if seen[id] {
			continue
		}

		location := model.LatLng{Lat: el.Lat, Lng: el.Lon}
		if el.Center != nil {
			location = model.LatLng{Lat: el.Center.Lat, Lng: el.Center.Lon}
		}
		if !location.IsValid() {
			continue
		}

		seen[id] = true
		pois = append(pois, model.POI{
			ID:       id,
			Name:     el.Tags["name"],
			Category: model.ClassifyCategory(el.Tags),
			Location: location,
		})
	}
	return pois
}

// --- Overpass APIのレスポンスをパースするための構造体 ---

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *overpassCenter   `json:"center,omitempty"` // way/relation の中心点
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
