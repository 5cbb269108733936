package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"QuestNav-App/internal/config"
	"QuestNav-App/internal/domain/repository"
	"QuestNav-App/internal/domain/service"
	"QuestNav-App/internal/handler"
	"QuestNav-App/internal/infrastructure/database"
	firestoreinfra "QuestNav-App/internal/infrastructure/firestore"
	"QuestNav-App/internal/infrastructure/geolocation"
	"QuestNav-App/internal/infrastructure/maps"
	"QuestNav-App/internal/infrastructure/overpass"
	repoImpl "QuestNav-App/internal/repository"
	"QuestNav-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	store := buildLocationStore(ctx, cfg)
	poisProvider := buildPOIsProvider(cfg)
	routeProvider := maps.NewOSRMRouteProvider(cfg.OSRMEndpoint)

	devices := geolocation.NewDevicePositionProvider()
	positions := service.NewPositionSource(devices, store, cfg.PositionTimeout)
	animator := service.NewRouteAnimator(
		service.NewIntervalFrameScheduler(cfg.FrameInterval), cfg.AnimationStride)

	mapState := usecase.NewMapStateUseCase(cfg, poisProvider, routeProvider, positions, store, animator)
	if err := mapState.Start(ctx); err != nil {
		log.Fatalf("マップセッションの開始に失敗: %v", err)
	}
	defer mapState.Close()

	r := gin.Default()
	handler.NewMapStateHandler(mapState, devices).RegisterRoutes(r)

	fmt.Printf("QuestNav-App server starting on :%s...\n", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("サーバーの起動に失敗: %v", err)
	}
}

// buildLocationStore 設定に応じた最終確認位置ストアを構築する。
// 永続化はベストエフォートなので、初期化に失敗したらインメモリにフォールバックする
func buildLocationStore(ctx context.Context, cfg *config.Config) repository.LocationStore {
	switch cfg.LocationStore {
	case "firestore":
		if cfg.FirestoreProjectID == "" {
			log.Printf("⚠️ FIRESTORE_PROJECT_ID未設定、インメモリストアを使用")
			return repoImpl.NewMemoryLocationRepository()
		}
		client, err := firestoreinfra.NewFirestoreClient(ctx, cfg.FirestoreProjectID)
		if err != nil {
			log.Printf("⚠️ Firestoreクライアント初期化失敗、インメモリストアを使用: %v", err)
			return repoImpl.NewMemoryLocationRepository()
		}
		deviceID := os.Getenv("DEVICE_ID")
		if deviceID == "" {
			deviceID = "default"
		}
		return repoImpl.NewFirestoreLocationRepository(client.GetClient(), deviceID)

	case "memory":
		return repoImpl.NewMemoryLocationRepository()

	default: // sqlite
		client, err := database.NewSQLiteClient(cfg.SQLitePath)
		if err != nil {
			log.Printf("⚠️ SQLite初期化失敗、インメモリストアを使用: %v", err)
			return repoImpl.NewMemoryLocationRepository()
		}
		store, err := repoImpl.NewSQLiteLocationRepository(client)
		if err != nil {
			log.Printf("⚠️ SQLiteストア初期化失敗、インメモリストアを使用: %v", err)
			return repoImpl.NewMemoryLocationRepository()
		}
		fmt.Println("✅ SQLite location store initialized:", cfg.SQLitePath)
		return store
	}
}

// buildPOIsProvider 設定に応じた周辺POIプロバイダを構築する
func buildPOIsProvider(cfg *config.Config) repository.POIsProvider {
	switch cfg.POIProvider {
	case "postgres":
		client, err := database.NewPostgreSQLClient()
		if err != nil {
			log.Fatalf("PostgreSQLクライアント初期化失敗: %v", err)
		}
		if err := client.HealthCheck(); err != nil {
			log.Fatalf("PostgreSQLヘルスチェック失敗: %v", err)
		}
		fmt.Println("✅ PostgreSQL connection successful!")
		return repoImpl.NewPostgresPOIsRepository(client)

	case "supabase":
		client, err := database.NewSupabaseClient()
		if err != nil {
			log.Fatalf("Supabaseクライアント初期化失敗: %v", err)
		}
		if err := client.HealthCheck(); err != nil {
			log.Fatalf("Supabaseヘルスチェック失敗: %v", err)
		}
		fmt.Println("✅ Supabase connection successful!")
		return repoImpl.NewSupabasePOIsRepository(client)

	default: // overpass
		return overpass.NewOverpassPOIsProvider(cfg.OverpassEndpoint)
	}
}
