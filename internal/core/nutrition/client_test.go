package nutrition

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.NutritionConfig{
		Enabled: true,
		BaseURL: srv.URL,
		AppID:   "id",
		AppKey:  "secret",
		Timeout: 5 * time.Second,
	})
}

func TestClient_Analyze(t *testing.T) {
	var body struct {
		Title string   `json:"title"`
		Ingr  []string `json:"ingr"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "id", r.URL.Query().Get("app_id"))
		assert.Equal(t, "secret", r.URL.Query().Get("app_key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"calories": 412, "totalWeight": 355.2, "dietLabels": ["LOW_FAT"],
			"totalNutrients": {"ENERC_KCAL": {"label": "Energy", "quantity": 412, "unit": "kcal"}}}`))
	})

	got, err := c.Analyze(context.Background(), "Soup", []string{"1.5 cup onion, diced", "2 eggs"})

	require.NoError(t, err)
	assert.Equal(t, "Soup", body.Title)
	assert.Equal(t, []string{"1.5 cup onion, diced", "2 eggs"}, body.Ingr)
	assert.Equal(t, 412.0, got.Calories)
	assert.Equal(t, []string{"LOW_FAT"}, got.DietLabels)
	assert.Equal(t, "kcal", got.Nutrients["ENERC_KCAL"].Unit)
	assert.False(t, got.Cached)
}

func TestClient_Analyze_ServiceError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"low_quality"}`, http.StatusUnprocessableEntity)
	})

	_, err := c.Analyze(context.Background(), "", []string{"a pinch of hope"})

	var ce *common.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "NUTRITION_SERVICE_ERROR", ce.Code)
}

func TestClient_Analyze_Disabled(t *testing.T) {
	c := NewClient(&config.NutritionConfig{Enabled: false})

	_, err := c.Analyze(context.Background(), "", []string{"1 cup rice"})

	assert.ErrorIs(t, err, common.ErrNutritionDisabled)
}

func TestClient_Analyze_NoLines(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := c.Analyze(context.Background(), "", nil)

	assert.Error(t, err)
}
