package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-normalizer/internal/core/unit"
)

func TestConvertRow(t *testing.T) {
	tests := []struct {
		name   string
		row    Row
		target unit.System
		want   Row
	}{
		{"cups to millilitres", Row{Quantity: "1 1/2", Unit: "CUP", Item: "onion"}, unit.Metric, Row{Quantity: "354.88", Unit: "ML", Item: "onion"}},
		{"millilitres back to cups", Row{Quantity: "354.88", Unit: "ML", Item: "onion"}, unit.Imperial, Row{Quantity: "1.5", Unit: "CUP", Item: "onion"}},
		{"pounds to grams", Row{Quantity: "2", Unit: "LBS", Item: "beef"}, unit.Metric, Row{Quantity: "907.18", Unit: "G", Item: "beef"}},
		{"kilograms to pounds", Row{Quantity: "1", Unit: "KG", Item: "rice"}, unit.Imperial, Row{Quantity: "2.2", Unit: "LBS", Item: "rice"}},
		{"already in target system", Row{Quantity: "1 1/2", Unit: "CUP"}, unit.Imperial, Row{Quantity: "1 1/2", Unit: "CUP"}},
		{"count unit untouched", Row{Quantity: "3", Unit: "EACH", Item: "eggs"}, unit.Metric, Row{Quantity: "3", Unit: "EACH", Item: "eggs"}},
		{"unknown unit untouched", Row{Quantity: "2", Unit: "pinch", Item: "salt"}, unit.Metric, Row{Quantity: "2", Unit: "pinch", Item: "salt"}},
		{"unparseable quantity untouched", Row{Quantity: "a few", Unit: "CUP", Item: "nuts"}, unit.Metric, Row{Quantity: "a few", Unit: "CUP", Item: "nuts"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertRow(tt.row, tt.target))
		})
	}
}

func TestConvertRow_DoesNotMutateInput(t *testing.T) {
	yield := 80.0
	row := Row{Quantity: "2", Unit: "CUP", Item: "flour", YieldPercent: &yield}

	out := ConvertRow(row, unit.Metric)

	assert.Equal(t, "2", row.Quantity)
	assert.Equal(t, "CUP", row.Unit)
	assert.Equal(t, "473.18", out.Quantity)
	assert.Equal(t, &yield, out.YieldPercent)
}

func TestParseThenConvert(t *testing.T) {
	row, err := ParseLine("1 1/2 cups chopped onion, diced")
	require.NoError(t, err)

	q, err := row.ParsedQuantity()
	require.NoError(t, err)
	assert.Equal(t, "3/2", q.String())

	metric := ConvertRow(row, unit.Metric)
	assert.Equal(t, Row{Quantity: "354.88", Unit: "ML", Item: "onion", Prep: "diced"}, metric)
}

func TestConvertRowTo(t *testing.T) {
	e := Default()

	got, err := e.ConvertRowTo(Row{Quantity: "1", Unit: "CUP", Item: "milk"}, e.Units().MustLookup(unit.TBSP))
	require.NoError(t, err)
	assert.Equal(t, Row{Quantity: "16", Unit: "TBSP", Item: "milk"}, got)

	_, err = e.ConvertRowTo(Row{Quantity: "1", Unit: "CUP"}, e.Units().MustLookup(unit.G))
	assert.ErrorIs(t, err, unit.ErrDimensionMismatch)

	_, err = e.ConvertRowTo(Row{Quantity: "1", Unit: "pinch"}, e.Units().MustLookup(unit.G))
	assert.ErrorIs(t, err, unit.ErrNotConvertible)
}

func TestNormalizeRow(t *testing.T) {
	e := Default()

	assert.Equal(t, Row{Quantity: "1", Unit: "CUP"}, e.NormalizeRow(Row{Quantity: "48", Unit: "tsp"}))
	assert.Equal(t, Row{Quantity: "2", Unit: "L"}, e.NormalizeRow(Row{Quantity: "2000", Unit: "ml"}))
	assert.Equal(t, Row{Quantity: "3", Unit: "EACH"}, e.NormalizeRow(Row{Quantity: "3", Unit: "EACH"}))
}

func TestConvertRecipe(t *testing.T) {
	r := Recipe{
		Rows:    []Row{{Quantity: "2", Unit: "CUP", Item: "stock"}, {Quantity: "1", Unit: "EACH", Item: "onion"}},
		Yield:   Measure{Quantity: "1", Unit: "QUART"},
		Portion: Portion{Count: "4", Size: "8", Unit: "FLOZ"},
	}

	got := Default().ConvertRecipe(r, unit.Metric)

	assert.Equal(t, "473.18", got.Rows[0].Quantity)
	assert.Equal(t, "ML", got.Rows[0].Unit)
	assert.Equal(t, r.Rows[1], got.Rows[1])
	assert.Equal(t, Measure{Quantity: "946.35", Unit: "ML"}, got.Yield)
	assert.Equal(t, Portion{Count: "4", Size: "236.59", Unit: "ML"}, got.Portion)
	assert.Equal(t, "CUP", r.Rows[0].Unit)
}

func TestRowLine(t *testing.T) {
	units := Default().Units()

	assert.Equal(t, "1.5 cup onion, diced", Row{Quantity: "1.5", Unit: "CUP", Item: "onion", Prep: "diced"}.Line(units))
	assert.Equal(t, "2 eggs", Row{Quantity: "2", Unit: "EACH", Item: "eggs"}.Line(units))
	assert.Equal(t, "salt, to taste", Row{Item: "salt", Prep: "to taste"}.Line(units))
	assert.Equal(t, "2 pinch saffron", Row{Quantity: "2", Unit: "pinch", Item: "saffron"}.Line(units))
}
