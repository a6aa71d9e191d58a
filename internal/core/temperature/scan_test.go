package temperature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-normalizer/internal/core/unit"
)

func TestConvertText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		target unit.System
		want   string
	}{
		{"degree symbol", "Bake at 350°F for 20 minutes.", unit.Metric, "Bake at 177°C for 20 minutes."},
		{"glued letter", "Preheat to 400F.", unit.Metric, "Preheat to 204C."},
		{"spelled out", "Heat oil to 375 degrees Fahrenheit", unit.Metric, "Heat oil to 191 degrees Celsius"},
		{"compact deg", "Roast at 425 degF", unit.Metric, "Roast at 218 degC"},
		{"uppercase word", "350 FAHRENHEIT", unit.Metric, "177 CELSIUS"},
		{"celsius to fahrenheit", "Bake at 180 °C, then 200°c", unit.Imperial, "Bake at 356 °F, then 392°f"},
		{"several mentions", "Start at 450°F, drop to 350°F.", unit.Metric, "Start at 232°C, drop to 177°C."},
		{"other system untouched", "Bake at 180°C", unit.Metric, "Bake at 180°C"},
		{"cups are not celsius", "Add 2 c flour and bake at 350°F", unit.Metric, "Add 2 c flour and bake at 177°C"},
		{"glued lowercase c is a cup", "add 2c. flour", unit.Imperial, "add 2c. flour"},
		{"glued uppercase C", "Preheat to 200C", unit.Imperial, "Preheat to 392F"},
		{"hyphen range", "Bake at 350-400F", unit.Metric, "Bake at 177-204C"},
		{"range with to", "Bake at 350 to 400 °F.", unit.Metric, "Bake at 177 to 204 °C."},
		{"en dash range with degrees", "Roast at 180°–200°C", unit.Imperial, "Roast at 356°–392°F"},
		{"range without scale untouched", "Bake 20-25 minutes at 350F", unit.Metric, "Bake 20-25 minutes at 177C"},
		{"dash before temperature", "Oven - 350°F", unit.Metric, "Oven - 177°C"},
		{"number inside word", "Use a 9x13 pan", unit.Metric, "Use a 9x13 pan"},
		{"letter continues word", "Add 2 cups", unit.Metric, "Add 2 cups"},
		{"no mentions", "Stir well.", unit.Imperial, "Stir well."},
		{"empty", "", unit.Metric, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertText(tt.text, tt.target))
		})
	}
}

func TestConvertText_RoundTrip(t *testing.T) {
	metric := ConvertText("Bake at 350°F.", unit.Metric)
	assert.Equal(t, "Bake at 177°C.", metric)
	assert.Equal(t, "Bake at 351°F.", ConvertText(metric, unit.Imperial))
}

func TestSegments(t *testing.T) {
	text := "Bake at 350 °F, about 20 min."

	var segs []Segment
	for seg := range Segments(text) {
		segs = append(segs, seg)
	}

	require.Len(t, segs, 3)
	assert.Equal(t, Literal, segs[0].Kind)
	assert.Equal(t, "Bake at ", segs[0].Text)
	assert.Equal(t, Mention, segs[1].Kind)
	assert.Equal(t, "350 °F", segs[1].Text)
	assert.Equal(t, "350", segs[1].Number)
	assert.Equal(t, " ", segs[1].Gap)
	assert.Equal(t, "°", segs[1].Marker)
	assert.Equal(t, Fahrenheit, segs[1].Scale)
	assert.Equal(t, ", about 20 min.", segs[2].Text)

	var joined strings.Builder
	for _, s := range segs {
		joined.WriteString(s.Text)
	}
	assert.Equal(t, text, joined.String())
}

func TestSegments_Range(t *testing.T) {
	var segs []Segment
	for seg := range Segments("350 to 400°F") {
		segs = append(segs, seg)
	}

	require.Len(t, segs, 1)
	assert.Equal(t, Mention, segs[0].Kind)
	assert.Equal(t, "350", segs[0].Low)
	assert.Equal(t, " to ", segs[0].Sep)
	assert.Equal(t, "400", segs[0].Number)
	assert.Equal(t, "°", segs[0].Marker)
	assert.Equal(t, "177 to 204°C", segs[0].Rewrite(Celsius))
}

func TestSegments_StopsEarly(t *testing.T) {
	count := 0
	for range Segments("350F and 400F and 450F") {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
