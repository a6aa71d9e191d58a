package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recipe-normalizer/internal/api"
	"recipe-normalizer/internal/api/handlers/health"
	"recipe-normalizer/internal/core/cache"
	"recipe-normalizer/internal/core/ingredient"
	"recipe-normalizer/internal/core/nutrition"
	"recipe-normalizer/internal/core/queue"
	"recipe-normalizer/internal/core/recipe"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("measurement_system", cfg.Engine.DefaultSystem),
		zap.Bool("nutrition_enabled", cfg.Nutrition.Enabled),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	// 初始化快取
	store, err := cache.NewStore(context.Background(), &cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	defer store.Close()

	var (
		analyzer    nutrition.Analyzer
		queueStatus health.QueueReporter
		cacheStats  health.CacheReporter
		pinger      health.Pinger
	)
	switch s := store.(type) {
	case *cache.Manager:
		cacheStats = s
	case *cache.RedisStore:
		pinger = s
	}

	// 營養分析經由隊列限制對外併發
	if cfg.Nutrition.Enabled {
		client := nutrition.NewClient(&cfg.Nutrition)
		q := queue.NewManager(&cfg.Queue)
		q.Start(client)
		defer q.Close()
		analyzer = q
		queueStatus = q
	}

	svc := recipe.NewService(cfg, ingredient.Default(), store, analyzer)
	router := api.SetupRouter(cfg, svc, health.NewHandler(cfg, queueStatus, cacheStats, pinger))

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
