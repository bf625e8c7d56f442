// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-trends/pkg/types"
)

func TestDerive(t *testing.T) {
	sc, err := Derive(types.OrderedSeries{10, 20, 30}, 2000)
	require.NoError(t, err)
	assert.Equal(t, 38, sc.DomainMax)
	assert.Equal(t, types.ColorBands{LowHigh: 10, MidHigh: 20, MaxValue: 30}, sc.Bands)
	assert.Equal(t, []int{2000, 2001, 2002}, sc.Categories)
}

func TestDeriveNoData(t *testing.T) {
	_, err := Derive(types.OrderedSeries{}, 2000)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Derive(nil, 2000)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestDeriveEdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		series    types.OrderedSeries
		domainMax int
		bands     types.ColorBands
	}{
		{"all zero", types.OrderedSeries{0, 0}, 0, types.ColorBands{LowHigh: 0, MidHigh: 0, MaxValue: 0}},
		{"single one", types.OrderedSeries{1}, 1, types.ColorBands{LowHigh: 0, MidHigh: 1, MaxValue: 1}},
		{"half rounds up", types.OrderedSeries{2}, 3, types.ColorBands{LowHigh: 1, MidHigh: 1, MaxValue: 2}},
		{"max not last", types.OrderedSeries{3, 9, 5}, 11, types.ColorBands{LowHigh: 3, MidHigh: 6, MaxValue: 9}},
		{"large", types.OrderedSeries{123456}, 154320, types.ColorBands{LowHigh: 41152, MidHigh: 82304, MaxValue: 123456}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := Derive(tt.series, 1990)
			require.NoError(t, err)
			assert.Equal(t, tt.domainMax, sc.DomainMax)
			assert.Equal(t, tt.bands, sc.Bands)
			assert.Len(t, sc.Categories, len(tt.series))
			assert.Equal(t, 1990, sc.Categories[0])
		})
	}
}

func TestDeriveCategoriesFollowReceivedCount(t *testing.T) {
	// A partial series covers only the observations received so far.
	sc, err := Derive(types.OrderedSeries{4}, 1980)
	require.NoError(t, err)
	assert.Equal(t, []int{1980}, sc.Categories)

	sc, err = Derive(types.OrderedSeries{4, 8}, 1980)
	require.NoError(t, err)
	assert.Equal(t, []int{1980, 1981}, sc.Categories)
}

func TestClassify(t *testing.T) {
	bands := types.ColorBands{LowHigh: 10, MidHigh: 20, MaxValue: 30}
	tests := []struct {
		value int
		want  Band
	}{
		{0, Low},
		{10, Low},
		{11, Mid},
		{20, Mid},
		{21, High},
		{30, High},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.value, bands), "value %d", tt.value)
	}
	assert.Equal(t, "Bottom 33%", Low.Legend())
	assert.Equal(t, "Middle 33%", Mid.Legend())
	assert.Equal(t, "Top 33%", High.Legend())
}

func TestPaletteColor(t *testing.T) {
	bands := types.ColorBands{LowHigh: 10, MidHigh: 20, MaxValue: 30}
	tests := []struct {
		name  string
		value int
		want  string
	}{
		{"below first stop clamps green", 5, "#008000"},
		{"first stop", 10, "#008000"},
		{"between green and yellow", 15, "#80c000"},
		{"second stop", 20, "#ffff00"},
		{"between yellow and red", 25, "#ff8000"},
		{"max", 30, "#ff0000"},
		{"above max clamps red", 40, "#ff0000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GreenYellowRed.Color(tt.value, bands).Hex())
		})
	}
}

func TestPaletteColorOrangeVariant(t *testing.T) {
	bands := types.ColorBands{LowHigh: 10, MidHigh: 20, MaxValue: 30}
	assert.Equal(t, "#ffa500", GreenOrangeRed.Color(20, bands).Hex())
}

func TestPaletteColorDegenerateBands(t *testing.T) {
	assert.Equal(t, "#008000", GreenYellowRed.Color(0, types.ColorBands{}).Hex())

	bands := Bands(1)
	assert.Equal(t, "#008000", GreenYellowRed.Color(0, bands).Hex())
	assert.Equal(t, "#ff0000", GreenYellowRed.Color(1, bands).Hex())
}

func TestPaletteFor(t *testing.T) {
	p, err := PaletteFor("")
	require.NoError(t, err)
	assert.Equal(t, GreenYellowRed, p)

	p, err = PaletteFor(types.PaletteGreenOrangeRed)
	require.NoError(t, err)
	assert.Equal(t, GreenOrangeRed, p)

	_, err = PaletteFor("blue")
	assert.Error(t, err)
}

func TestLinear(t *testing.T) {
	l := Linear{DomainMax: 40, Extent: 80}
	assert.InDelta(t, 0, l.Scale(0), 1e-9)
	assert.InDelta(t, 40, l.Scale(20), 1e-9)
	assert.InDelta(t, 80, l.Scale(40), 1e-9)

	assert.Zero(t, Linear{Extent: 80}.Scale(5))
}

func TestBars(t *testing.T) {
	series := types.OrderedSeries{10, 20, 30}
	sc, err := Derive(series, 2000)
	require.NoError(t, err)

	bars := Bars(series, sc, GreenYellowRed)
	require.Len(t, bars, 3)
	assert.Equal(t, Bar{Year: 2000, Count: 10, Band: "low", Color: "#008000"}, bars[0])
	assert.Equal(t, Bar{Year: 2001, Count: 20, Band: "mid", Color: "#ffff00"}, bars[1])
	assert.Equal(t, Bar{Year: 2002, Count: 30, Band: "high", Color: "#ff0000"}, bars[2])
}
