package unit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-normalizer/internal/core/quantity"
)

func lookup(code Code) Unit {
	return Default().MustLookup(code)
}

func TestBestUnit_ImperialVolume(t *testing.T) {
	tests := []struct {
		name string
		tsp  int64
		want string
		code Code
	}{
		{"3072 tsp renormalizes to gallons", 3072, "4", GALLON},
		{"240 tsp is quarts not cups", 240, "1.25", QUART},
		{"72 tsp", 72, "1.5", CUP},
		{"6 tsp is a fluid ounce", 6, "1", FLOZ},
		{"9 tsp", 9, "1.5", FLOZ},
		{"4 tsp", 4, "1.33", TBSP},
		{"2 tsp", 2, "2", TSP},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			base := teaspoonML.Mul(quantity.FromInt(tc.tsp))
			q, u := BestUnit(base, Volume, Imperial)
			assert.Equal(t, tc.code, u.Code)
			assert.Equal(t, tc.want, q.Display())
		})
	}
}

func TestBestUnit_SmallQuantityStaysInSmallestUnit(t *testing.T) {
	q, u := BestUnit(teaspoonML.Mul(quantity.New(1, 2)), Volume, Imperial)
	assert.Equal(t, TSP, u.Code)
	assert.Equal(t, "0.5", q.Display())

	q, u = BestUnit(quantity.Quantity{}, Mass, Metric)
	assert.Equal(t, G, u.Code)
	assert.True(t, q.IsZero())
}

func TestBestUnit_Metric(t *testing.T) {
	q, u := BestUnit(quantity.MustParse("354.8823"), Volume, Metric)
	assert.Equal(t, ML, u.Code)
	assert.Equal(t, "354.88", q.Display())

	q, u = BestUnit(quantity.FromInt(2500), Volume, Metric)
	assert.Equal(t, L, u.Code)
	assert.Equal(t, "2.5", q.Display())

	q, u = BestUnit(quantity.MustParse("999.999"), Mass, Metric)
	assert.Equal(t, KG, u.Code)
	assert.Equal(t, "1", q.Display())
}

func TestBestUnit_ImperialMass(t *testing.T) {
	q, u := BestUnit(ounceG.Mul(quantity.FromInt(24)), Mass, Imperial)
	assert.Equal(t, LBS, u.Code)
	assert.Equal(t, "1.5", q.Display())

	q, u = BestUnit(ounceG.Mul(quantity.FromInt(10)), Mass, Imperial)
	assert.Equal(t, OZ, u.Code)
	assert.Equal(t, "10", q.Display())
}

func TestBestUnit_CountPassesThrough(t *testing.T) {
	q, u := BestUnit(quantity.FromInt(3), Count, Metric)
	assert.Equal(t, EACH, u.Code)
	assert.Equal(t, "3", q.Display())
}

func TestBestUnit_Monotonic(t *testing.T) {
	for _, sys := range []System{Imperial, Metric} {
		for _, dim := range []Dimension{Volume, Mass} {
			codes := Ladder(dim, sys)
			for ml := int64(1); ml <= 20000; ml += 7 {
				q, u := BestUnit(quantity.FromInt(ml), dim, sys)

				idx := -1
				for i, c := range codes {
					if c == u.Code {
						idx = i
					}
				}
				require.GreaterOrEqual(t, idx, 0)

				if idx > 0 {
					larger := lookup(codes[idx-1])
					ratio, err := Default().Convert(quantity.FromInt(1), larger, u)
					require.NoError(t, err)
					assert.Less(t, q.Cmp(ratio), 0, "%d %s/%s: %s %s should use %s", ml, dim, sys, q.Display(), u.Code, larger.Code)
				}
				if idx < len(codes)-1 {
					assert.GreaterOrEqual(t, q.Float64(), 1.0, "%d %s/%s: %s %s", ml, dim, sys, q.Display(), u.Code)
				}
			}
		}
	}
}

func TestConvertSystem(t *testing.T) {
	q, u, err := ConvertSystem(quantity.New(3, 2), lookup(CUP), Metric)
	require.NoError(t, err)
	assert.Equal(t, ML, u.Code)
	assert.Equal(t, "354.88", q.Display())

	back, u2, err := ConvertSystem(q, u, Imperial)
	require.NoError(t, err)
	assert.Equal(t, CUP, u2.Code)
	assert.Equal(t, "1.5", back.Display())

	q, u, err = ConvertSystem(quantity.FromInt(5), lookup(LBS), Metric)
	require.NoError(t, err)
	assert.Equal(t, KG, u.Code)
	assert.Equal(t, "2.27", q.Display())

	q, u, err = ConvertSystem(quantity.FromInt(2), lookup(CUP), Imperial)
	require.NoError(t, err)
	assert.Equal(t, CUP, u.Code, "same system is left as is")
	assert.Equal(t, "2", q.Display())

	_, _, err = ConvertSystem(quantity.FromInt(2), Classify("pinch"), Metric)
	assert.True(t, errors.Is(err, ErrNotConvertible))
}

func TestConvertSystem_DoubleToggle(t *testing.T) {
	tbl := Default()
	cases := []struct {
		qty  string
		code Code
	}{
		{"1.5", CUP}, {"1", TSP}, {"2", TBSP}, {"1", FLOZ}, {"1", PINT}, {"3", QUART},
		{"2", GALLON}, {"5", GALLON}, {"10", OZ}, {"2", LBS}, {"0.5", TSP},
	}

	for _, tc := range cases {
		t.Run(tc.qty+" "+string(tc.code), func(t *testing.T) {
			orig := quantity.MustParse(tc.qty)
			from := lookup(tc.code)

			mq, mu, err := tbl.ConvertSystem(orig, from, Metric)
			require.NoError(t, err)
			assert.Equal(t, Metric, mu.System)

			iq, iu, err := tbl.ConvertSystem(mq, mu, Imperial)
			require.NoError(t, err)
			assert.Equal(t, Imperial, iu.System)
			assert.Equal(t, from.Dimension, iu.Dimension)

			back, err := tbl.Convert(iq, iu, from)
			require.NoError(t, err)
			assert.InDelta(t, orig.Float64(), back.Float64(), 0.02)
		})
	}
}

func TestConvert_DimensionMismatch(t *testing.T) {
	_, err := Default().Convert(quantity.FromInt(1), lookup(CUP), lookup(G))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))

	got, err := Default().Convert(quantity.FromInt(2), lookup(L), lookup(ML))
	require.NoError(t, err)
	assert.Equal(t, "2000", got.Display())
}

func TestRenormalize(t *testing.T) {
	q, u, err := Default().Renormalize(quantity.FromInt(3072), lookup(TSP))
	require.NoError(t, err)
	assert.Equal(t, GALLON, u.Code)
	assert.Equal(t, "4", q.Display())

	q, u, err = Default().Renormalize(quantity.FromInt(1500), lookup(G))
	require.NoError(t, err)
	assert.Equal(t, KG, u.Code)
	assert.Equal(t, "1.5", q.Display())
}
