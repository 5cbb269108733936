package config

import (
	"os"
	"strconv"
	"time"
)

// Config アプリケーション設定。
// POI探索の半径やしきい値などの方針値はリテラルではなく設定として扱う
type Config struct {
	Port string

	// POIProvider は "overpass" / "postgres" / "supabase" のいずれか
	POIProvider string
	// LocationStore は "sqlite" / "firestore" / "memory" のいずれか
	LocationStore string

	SQLitePath         string
	FirestoreProjectID string
	OverpassEndpoint   string
	OSRMEndpoint       string

	// POIRadiusMeters 周辺スポット探索の半径 (m)
	POIRadiusMeters int
	// POILimit 1回のクエリで保持するスポット数の上限
	POILimit int
	// DisplacementThresholdMeters 前回クエリ中心からの最小移動量 (m)。
	// これ未満の移動では新しいPOIクエリを発行しない（約0.01度 ≈ 1km相当）
	DisplacementThresholdMeters float64
	// AnimationStride フレームごとに進める経路点数
	AnimationStride int
	// FrameInterval 経路公開アニメーションのフレーム間隔
	FrameInterval time.Duration
	// PositionTimeout 単発測位のタイムアウト
	PositionTimeout time.Duration
}

// Load 環境変数から設定を読み込む。未設定の項目はデフォルト値を使用する
func Load() *Config {
	return &Config{
		Port:                        getEnv("PORT", "8080"),
		POIProvider:                 getEnv("POI_PROVIDER", "overpass"),
		LocationStore:               getEnv("LOCATION_STORE", "sqlite"),
		SQLitePath:                  getEnv("SQLITE_PATH", "./data/questnav.db"),
		FirestoreProjectID:          getEnv("FIRESTORE_PROJECT_ID", ""),
		OverpassEndpoint:            getEnv("OVERPASS_ENDPOINT", "https://overpass-api.de/api/interpreter"),
		OSRMEndpoint:                getEnv("OSRM_ENDPOINT", "https://router.project-osrm.org"),
		POIRadiusMeters:             getEnvInt("POI_RADIUS_METERS", 20000),
		POILimit:                    getEnvInt("POI_LIMIT", 500),
		DisplacementThresholdMeters: getEnvFloat("DISPLACEMENT_THRESHOLD_METERS", 1000),
		AnimationStride:             getEnvInt("ANIMATION_STRIDE", 2),
		FrameInterval:               time.Duration(getEnvInt("FRAME_INTERVAL_MS", 50)) * time.Millisecond,
		PositionTimeout:             time.Duration(getEnvInt("POSITION_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
