package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-normalizer/internal/core/cache"
	"recipe-normalizer/internal/core/queue"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"
)

// QueueReporter 提供營養分析隊列狀態
type QueueReporter interface {
	GetQueueStatus() *queue.Status
}

// CacheReporter 提供記憶體快取統計
type CacheReporter interface {
	GetStats() cache.Stats
}

// Pinger 可檢查連線的外部依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Runtime   map[string]interface{} `json:"runtime"`
	Engine    EngineStatus           `json:"engine"`
	Queue     *queue.Status          `json:"queue,omitempty"`
	Cache     *cache.Stats           `json:"cache,omitempty"`
}

// EngineStatus 引擎設定摘要
type EngineStatus struct {
	DefaultSystem    string `json:"default_system"`
	SuggestYield     bool   `json:"suggest_yield"`
	NutritionEnabled bool   `json:"nutrition_enabled"`
	CacheBackend     string `json:"cache_backend"`
}

// Handler 健康檢查處理程序
type Handler struct {
	config  *config.Config
	queue   QueueReporter
	cache   CacheReporter
	pinger  Pinger
	started time.Time
}

// NewHandler 創建健康檢查處理程序，queue 與 cache 可為 nil
func NewHandler(cfg *config.Config, q QueueReporter, c CacheReporter, p Pinger) *Handler {
	return &Handler{
		config:  cfg,
		queue:   q,
		cache:   c,
		pinger:  p,
		started: time.Now(),
	}
}

// Register 註冊健康檢查路由
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/live", h.LivenessCheck)
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	backend := "disabled"
	if h.config.Cache.Enabled {
		backend = h.config.Cache.Backend
	}

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Engine: EngineStatus{
			DefaultSystem:    h.config.Engine.DefaultSystem,
			SuggestYield:     h.config.Engine.SuggestYield,
			NutritionEnabled: h.config.Nutrition.Enabled,
			CacheBackend:     backend,
		},
	}
	if h.queue != nil {
		response.Queue = h.queue.GetQueueStatus()
	}
	if h.cache != nil {
		stats := h.cache.GetStats()
		response.Cache = &stats
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器，外部快取無法連線或隊列已滿時回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			common.LogWarn("就緒檢查失敗", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"reason": "cache",
			})
			return
		}
	}
	if h.queue != nil {
		if s := h.queue.GetQueueStatus(); s.MaxQueueSize > 0 && s.QueueLength >= s.MaxQueueSize {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"reason": "queue",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
