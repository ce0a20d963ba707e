package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"golos/internal/asr"
	"golos/internal/config"
	"golos/internal/export"
	"golos/internal/handlers"
	"golos/internal/pipeline"
	"golos/internal/platform"
	"golos/internal/storage"
	"golos/internal/tasks"
	"golos/internal/version"
	"golos/internal/worker"
	"golos/internal/youtube"
)

func main() {
	// .envファイルを読み込み（存在しない場合はスキップ）
	_ = godotenv.Load()

	cfg := config.Load()

	for _, dir := range []string{cfg.UploadDir, cfg.TempDir, cfg.ResultsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	// スナップショットストアの選択
	var snaps storage.SnapshotStore
	var err error
	switch cfg.StoreBackend {
	case "sqlite":
		snaps, err = storage.OpenSQLiteStore(cfg.SQLitePath)
	default:
		snaps, err = storage.NewFileStore(cfg.TasksDir)
	}
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer snaps.Close()

	cleaner := tasks.NewFileCleaner(cfg.UploadDir, cfg.TempDir, cfg.ResultsDir)
	store := tasks.NewStore(snaps, cleaner)

	// ステージ実行系の選択
	var (
		downloader  pipeline.Downloader
		extractor   pipeline.Extractor
		transcriber pipeline.Transcriber
	)
	if cfg.StubPipeline {
		log.Println("Using stub pipeline executors")
		downloader = &pipeline.StubDownloader{Delay: cfg.StubDelay}
		extractor = &pipeline.StubExtractor{Delay: cfg.StubDelay}
		transcriber = &pipeline.StubTranscriber{Delay: cfg.StubDelay}
	} else {
		asrConfig, err := asr.NewConfig(cfg.ModelDir)
		if err != nil {
			log.Fatalf("Failed to load ASR model config: %v", err)
		}
		recognizer, err := asr.NewRecognizer(asrConfig)
		if err != nil {
			log.Fatalf("Failed to create recognizer: %v", err)
		}
		defer recognizer.Close()

		downloader = youtube.NewClient()
		extractor = asr.NewConverter(cfg.TempDir)
		transcriber = recognizer
	}

	orch := pipeline.NewOrchestrator(store, downloader, extractor, transcriber, cfg.TempDir)

	exporter, err := export.NewExporter(cfg.ResultsDir)
	if err != nil {
		log.Fatalf("Failed to create exporter: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := worker.NewPool(cfg.Workers, cfg.QueueSize)
	pool.Start(ctx)
	defer pool.Stop()

	sweeper := tasks.NewSweeper(store, time.Duration(cfg.MaxAgeHours)*time.Hour, cfg.SweepInterval)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	validator := platform.NewValidator()
	taskHandler := handlers.NewTaskHandler(store, pool, orch, exporter, validator, cfg.UploadDir, cfg.MaxFileSizeMB)
	platformHandler := handlers.NewPlatformHandler(validator)

	// Echoインスタンスの作成
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// ルートの登録
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")
	api.GET("/platforms", platformHandler.List)
	api.GET("/platforms/validate", platformHandler.Validate)

	tr := api.Group("/transcription")
	tr.POST("/", taskHandler.Upload)
	tr.POST("/url", taskHandler.FromURL)
	tr.GET("/", taskHandler.List)
	tr.GET("/stats", taskHandler.Stats)
	tr.GET("/:id/status", taskHandler.Status)
	tr.GET("/:id/result", taskHandler.Result)
	tr.GET("/:id/download", taskHandler.Download)
	tr.DELETE("/:id", taskHandler.Delete)

	// サーバー起動
	log.Printf("Starting Golos v%s on port %s", version.Version, cfg.Port)
	if err := e.Start(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal(err)
	}
}
