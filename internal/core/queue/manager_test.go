package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-normalizer/internal/core/nutrition"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"
)

type fakeAnalyzer struct {
	calls   int64
	block   chan struct{}
	failFor string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, title string, lines []string) (*nutrition.Analysis, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.block != nil {
		<-f.block
	}
	if title == f.failFor {
		return nil, errors.New("boom")
	}
	return &nutrition.Analysis{Calories: float64(len(lines)) * 100}, nil
}

func TestManager_Analyze(t *testing.T) {
	m := NewManager(&config.QueueConfig{Workers: 2, MaxSize: 4})
	m.Start(&fakeAnalyzer{failFor: "bad"})
	defer m.Close()

	got, err := m.Analyze(context.Background(), "soup", []string{"1 cup rice", "2 eggs"})
	require.NoError(t, err)
	assert.Equal(t, 200.0, got.Calories)

	_, err = m.Analyze(context.Background(), "bad", []string{"x"})
	assert.EqualError(t, err, "boom")

	assert.Eventually(t, func() bool {
		return m.GetQueueStatus().ProcessedCount == 2
	}, time.Second, 10*time.Millisecond)
}

func TestManager_QueueFull(t *testing.T) {
	f := &fakeAnalyzer{block: make(chan struct{})}
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1})
	m.Start(f)

	ctx := context.Background()
	_, err := m.Enqueue(ctx, "a", nil)
	require.NoError(t, err)
	// 等待 worker 取走第一個請求
	require.Eventually(t, func() bool { return atomic.LoadInt64(&f.calls) == 1 }, time.Second, 5*time.Millisecond)

	_, err = m.Enqueue(ctx, "b", nil)
	require.NoError(t, err)
	_, err = m.Enqueue(ctx, "c", nil)
	assert.ErrorIs(t, err, common.ErrQueueFull)

	close(f.block)
	m.Close()
}

func TestManager_Closed(t *testing.T) {
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1})
	m.Start(&fakeAnalyzer{})
	m.Close()
	m.Close()

	_, err := m.Enqueue(context.Background(), "a", nil)
	assert.ErrorIs(t, err, common.ErrQueueClosed)
}

func TestManager_CancelledContext(t *testing.T) {
	m := NewManager(&config.QueueConfig{Workers: 1, MaxSize: 1})
	f := &fakeAnalyzer{}
	m.Start(f)
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Analyze(ctx, "a", []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}
