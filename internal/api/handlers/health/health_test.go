package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-normalizer/internal/core/cache"
	"recipe-normalizer/internal/core/queue"
	"recipe-normalizer/internal/infrastructure/config"
)

type fakeQueue struct{ status queue.Status }

func (f *fakeQueue) GetQueueStatus() *queue.Status {
	s := f.status
	return &s
}

type fakeCache struct{}

func (fakeCache) GetStats() cache.Stats { return cache.Stats{Size: 3, MaxSize: 10} }

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Register(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthCheck(t *testing.T) {
	cfg := config.Default()
	cfg.App.Version = "1.2.3"
	q := &fakeQueue{status: queue.Status{QueueLength: 1, MaxQueueSize: 100, Workers: 4}}

	w := serve(NewHandler(cfg, q, fakeCache{}, nil), "/health")

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "imperial", resp.Engine.DefaultSystem)
	assert.Equal(t, config.BackendMemory, resp.Engine.CacheBackend)
	require.NotNil(t, resp.Queue)
	assert.Equal(t, 4, resp.Queue.Workers)
	require.NotNil(t, resp.Cache)
	assert.Equal(t, 3, resp.Cache.Size)
}

func TestHealthCheck_WithoutOptionalDeps(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Enabled = false

	w := serve(NewHandler(cfg, nil, nil, nil), "/health")

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Queue)
	assert.Nil(t, resp.Cache)
	assert.Equal(t, "disabled", resp.Engine.CacheBackend)
}

func TestReadinessCheck(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, http.StatusOK, serve(NewHandler(cfg, nil, nil, fakePinger{}), "/ready").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(NewHandler(cfg, nil, nil, fakePinger{err: errors.New("down")}), "/ready").Code)

	full := &fakeQueue{status: queue.Status{QueueLength: 2, MaxQueueSize: 2}}
	assert.Equal(t, http.StatusServiceUnavailable, serve(NewHandler(cfg, full, nil, nil), "/ready").Code)
}

func TestLivenessCheck(t *testing.T) {
	w := serve(NewHandler(config.Default(), nil, nil, nil), "/live")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}
