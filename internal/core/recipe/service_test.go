package recipe

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-normalizer/internal/core/cache"
	"recipe-normalizer/internal/core/ingredient"
	"recipe-normalizer/internal/core/nutrition"
	"recipe-normalizer/internal/core/quantity"
	"recipe-normalizer/internal/core/unit"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"
)

type countingAnalyzer struct {
	calls int64
	lines []string
}

func (a *countingAnalyzer) Analyze(ctx context.Context, title string, lines []string) (*nutrition.Analysis, error) {
	atomic.AddInt64(&a.calls, 1)
	a.lines = lines
	return &nutrition.Analysis{Calories: 250}, nil
}

func newTestService(t *testing.T, analyzer nutrition.Analyzer) *Service {
	t.Helper()
	cfg := config.Default()
	store := cache.NewManager(&config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})
	t.Cleanup(func() { _ = store.Close() })
	return NewService(cfg, ingredient.Default(), store, analyzer)
}

func TestService_ParseLine(t *testing.T) {
	s := newTestService(t, nil)

	row, ok := s.ParseLine(context.Background(), "2 carrots, peeled")
	require.True(t, ok)
	require.NotNil(t, row.YieldPercent)
	assert.Equal(t, 85.0, *row.YieldPercent)

	row, ok = s.ParseLine(context.Background(), "Salt and pepper")
	assert.False(t, ok)
	assert.Equal(t, ingredient.Row{Item: "Salt and pepper"}, row)
}

func TestService_ParseLine_SuggestYieldOff(t *testing.T) {
	s := newTestService(t, nil)
	s.config.Engine.SuggestYield = false

	row, ok := s.ParseLine(context.Background(), "2 carrots, peeled")

	require.True(t, ok)
	assert.Nil(t, row.YieldPercent)
}

func TestService_ParseLines_TooMany(t *testing.T) {
	s := newTestService(t, nil)
	s.config.Engine.MaxLines = 2

	_, err := s.ParseLines(context.Background(), "1 cup rice\n2 eggs\n3 tbsp oil")

	assert.ErrorIs(t, err, common.ErrTooManyIngredients)
}

func TestService_ConvertQuantity(t *testing.T) {
	s := newTestService(t, nil)

	q, u, err := s.ConvertQuantity("1 1/2", "cups", "", unit.Metric)
	require.NoError(t, err)
	assert.Equal(t, "354.88", q.Display())
	assert.Equal(t, unit.ML, u.Code)

	q, u, err = s.ConvertQuantity("1", "cup", "tbsp", unit.Metric)
	require.NoError(t, err)
	assert.Equal(t, "16", q.Display())
	assert.Equal(t, unit.TBSP, u.Code)

	_, _, err = s.ConvertQuantity("1", "cup", "g", unit.Metric)
	assert.ErrorIs(t, err, unit.ErrDimensionMismatch)

	_, _, err = s.ConvertQuantity("lots", "cup", "", unit.Metric)
	assert.ErrorIs(t, err, quantity.ErrNotANumber)

	_, _, err = s.ConvertQuantity("2", "pinch", "", unit.Metric)
	assert.ErrorIs(t, err, unit.ErrNotConvertible)
}

func TestService_AnalyzeNutrition_Cached(t *testing.T) {
	a := &countingAnalyzer{}
	s := newTestService(t, a)
	rows := []ingredient.Row{
		{Quantity: "1.5", Unit: "CUP", Item: "onion", Prep: "diced"},
		{Quantity: "2", Unit: "EACH", Item: "eggs"},
		{},
	}

	first, err := s.AnalyzeNutrition(context.Background(), "Frittata", rows)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, []string{"1.5 cup onion, diced", "2 eggs"}, a.lines)

	second, err := s.AnalyzeNutrition(context.Background(), "Frittata", rows)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 250.0, second.Calories)
	assert.Equal(t, int64(1), atomic.LoadInt64(&a.calls))
}

func TestService_AnalyzeNutrition_Errors(t *testing.T) {
	s := newTestService(t, nil)
	_, err := s.AnalyzeNutrition(context.Background(), "", []ingredient.Row{{Item: "rice"}})
	assert.ErrorIs(t, err, common.ErrNutritionDisabled)

	s = newTestService(t, &countingAnalyzer{})
	_, err = s.AnalyzeNutrition(context.Background(), "", []ingredient.Row{{}})
	assert.ErrorIs(t, err, common.ErrInvalidRequest)
}

func TestService_Temperature(t *testing.T) {
	s := newTestService(t, nil)

	assert.Equal(t, "177°C", s.ConvertTemperatureField("350°F", unit.Metric))
	assert.Equal(t, "Bake at 177°C.", s.ConvertTemperatureText("Bake at 350°F.", unit.Metric))
}
