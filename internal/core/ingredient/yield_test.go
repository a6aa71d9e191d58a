package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"recipe-normalizer/internal/core/unit"
)

func percent(v float64) *float64 { return &v }

func TestAggregateYield(t *testing.T) {
	rows := []Row{
		{Quantity: "1", Unit: "L", Item: "stock"},
		{Quantity: "500", Unit: "G", Item: "carrots"},
		{Quantity: "2", Unit: "EACH", Item: "onions"},
		{Item: "salt", Prep: "to taste"},
		{Quantity: "1", Unit: "L", Item: "water", YieldPercent: percent(50)},
	}

	metric := AggregateYield(rows, unit.Metric)
	assert.Equal(t, "1500", metric.Volume.Display())
	assert.Equal(t, "500", metric.Mass.Display())
	assert.Equal(t, "2", metric.Total.Display())
	assert.Equal(t, unit.L, metric.Unit.Code)
	assert.Equal(t, 3, metric.Included)
	assert.Equal(t, 2, metric.Skipped)

	imperial := AggregateYield(rows, unit.Imperial)
	assert.Equal(t, "2.11", imperial.Total.Display())
	assert.Equal(t, unit.QUART, imperial.Unit.Code)
}

func TestAggregateYield_ClampsPercent(t *testing.T) {
	rows := []Row{
		{Quantity: "1", Unit: "L", YieldPercent: percent(150)},
		{Quantity: "1", Unit: "L", YieldPercent: percent(-20)},
	}

	b := AggregateYield(rows, unit.Metric)

	assert.Equal(t, "1000", b.Volume.Display())
	assert.Equal(t, 2, b.Included)
}

func TestAggregateYield_Idempotent(t *testing.T) {
	rows := []Row{{Quantity: "1 1/2", Unit: "CUP"}, {Quantity: "4", Unit: "OZ"}}

	first := AggregateYield(rows, unit.Imperial)
	second := AggregateYield(rows, unit.Imperial)

	assert.True(t, first.Total.Equal(second.Total))
	assert.Equal(t, first.Unit, second.Unit)
}

func TestAggregateYield_Empty(t *testing.T) {
	b := AggregateYield(nil, unit.Metric)

	assert.True(t, b.Total.IsZero())
	assert.Equal(t, unit.ML, b.Unit.Code)
}

func TestSuggestYield(t *testing.T) {
	got, ok := SuggestYield(Row{Item: "carrots", Prep: "peeled"})
	assert.True(t, ok)
	assert.Equal(t, 85.0, got)

	got, ok = SuggestYield(Row{Item: "apples", Prep: "cored and sliced"})
	assert.True(t, ok)
	assert.Equal(t, 80.0, got)

	_, ok = SuggestYield(Row{Item: "flour"})
	assert.False(t, ok)
}
