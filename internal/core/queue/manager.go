// Package queue 以固定數量的 worker 處理對外營養分析請求，避免突發流量打滿外部服務。
package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"recipe-normalizer/internal/core/nutrition"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"
)

// Request 隊列請求
type Request struct {
	Context context.Context
	Title   string
	Lines   []string
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Analysis *nutrition.Analysis
	Error    error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 隊列管理器
type Manager struct {
	config    *config.QueueConfig
	queue     chan *Request
	processed int64
	mu        sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
}

// NewManager 創建新的隊列管理器
func NewManager(cfg *config.QueueConfig) *Manager {
	return &Manager{
		config: cfg,
		queue:  make(chan *Request, cfg.MaxSize),
	}
}

// Start 啟動 worker
func (m *Manager) Start(analyzer nutrition.Analyzer) {
	for i := 0; i < m.config.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i, analyzer)
	}
	common.LogInfo("營養分析隊列已啟動",
		zap.Int("workers", m.config.Workers),
		zap.Int("max_queue_size", m.config.MaxSize),
	)
}

func (m *Manager) worker(id int, analyzer nutrition.Analyzer) {
	defer m.wg.Done()
	for req := range m.queue {
		var res Result
		if err := req.Context.Err(); err != nil {
			res.Error = err
		} else {
			res.Analysis, res.Error = analyzer.Analyze(req.Context, req.Title, req.Lines)
		}
		req.Result <- res
		atomic.AddInt64(&m.processed, 1)

		common.LogDebug("Request processed",
			zap.Int("worker", id),
			zap.Bool("failed", res.Error != nil),
		)
	}
}

// Enqueue 將請求加入隊列，隊列已滿時立即回傳 common.ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, title string, lines []string) (<-chan Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, common.ErrQueueClosed
	}

	req := &Request{
		Context: ctx,
		Title:   title,
		Lines:   lines,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- req:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
		return req.Result, nil
	default:
		common.LogWarn("營養分析隊列已滿", zap.Int("max_queue_size", m.config.MaxSize))
		return nil, common.ErrQueueFull
	}
}

// Analyze 加入隊列並等待結果，使 Manager 可直接作為 nutrition.Analyzer
func (m *Manager) Analyze(ctx context.Context, title string, lines []string) (*nutrition.Analysis, error) {
	ch, err := m.Enqueue(ctx, title, lines)
	if err != nil {
		return nil, err
	}
	select {
	case res := <-ch:
		return res.Analysis, res.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// Close 停止接收請求，等待已入隊的請求處理完畢
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	m.wg.Wait()
}

var _ nutrition.Analyzer = (*Manager)(nil)
