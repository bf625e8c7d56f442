// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scale derives chart scales from an ordered count series: the count
// axis upper bound, tercile colour bands, and the year categories.
package scale

import (
	"errors"
	"math"

	"github.com/pdiddy/research-trends/pkg/types"
)

// ErrNoData is returned when scales are requested for an empty series.
var ErrNoData = errors.New("no data")

// Derive computes scales for series, whose first element is startYear.
//
// DomainMax leaves 25% headroom above the largest count. The bands are the
// rounded terciles of that count. Categories has one year per observation
// received so far, not one per requested year.
func Derive(series types.OrderedSeries, startYear int) (types.Scales, error) {
	maxCount, ok := series.Max()
	if !ok {
		return types.Scales{}, ErrNoData
	}

	categories := make([]int, len(series))
	for i := range series {
		categories[i] = startYear + i
	}

	return types.Scales{
		DomainMax:  maxCount + round(float64(maxCount)/4),
		Bands:      Bands(maxCount),
		Categories: categories,
	}, nil
}

// Bands returns the tercile thresholds of maxCount.
func Bands(maxCount int) types.ColorBands {
	m := float64(maxCount)
	return types.ColorBands{
		LowHigh:  round(m / 3),
		MidHigh:  round(m * 2 / 3),
		MaxValue: maxCount,
	}
}

// round matches half-up rounding for the non-negative values used here.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Band is the tercile a count falls in.
type Band int

const (
	Low Band = iota
	Mid
	High
)

func (b Band) String() string {
	switch b {
	case Low:
		return "low"
	case Mid:
		return "mid"
	default:
		return "high"
	}
}

// Legend is the label printed for b under a chart.
func (b Band) Legend() string {
	switch b {
	case Low:
		return "Bottom 33%"
	case Mid:
		return "Middle 33%"
	default:
		return "Top 33%"
	}
}

// Classify returns the band of value.
func Classify(value int, bands types.ColorBands) Band {
	switch {
	case value <= bands.LowHigh:
		return Low
	case value <= bands.MidHigh:
		return Mid
	default:
		return High
	}
}

// Linear maps counts in [0, DomainMax] onto [0, Extent].
type Linear struct {
	DomainMax int
	Extent    float64
}

// Scale returns the extent covered by value. A zero domain maps everything
// to zero.
func (l Linear) Scale(value int) float64 {
	if l.DomainMax <= 0 {
		return 0
	}
	return float64(value) / float64(l.DomainMax) * l.Extent
}

// Bar is one rendered bar: its category, count, band and fill.
type Bar struct {
	Year  int    `json:"year" yaml:"year"`
	Count int    `json:"count" yaml:"count"`
	Band  string `json:"band" yaml:"band"`
	Color string `json:"color" yaml:"color"`
}

// Bars pairs each count with its year category and fill colour.
func Bars(series types.OrderedSeries, sc types.Scales, p Palette) []Bar {
	bars := make([]Bar, 0, len(series))
	for i, v := range series {
		if i >= len(sc.Categories) {
			break
		}
		bars = append(bars, Bar{
			Year:  sc.Categories[i],
			Count: v,
			Band:  Classify(v, sc.Bands).String(),
			Color: p.Color(v, sc.Bands).Hex(),
		})
	}
	return bars
}
