// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-trends pipeline:
// validated query inputs, per-year count observations, the ordered series built
// from them, and the chart scales derived from that series.
package types

// MaxYear is the latest publication year a query may cover.
const MaxYear = 2021

// YearRange is a validated, inclusive range of publication years.
// Start is always strictly less than Finish.
type YearRange struct {
	Start  int `json:"start" yaml:"start"`
	Finish int `json:"finish" yaml:"finish"`
}

// Len returns the number of per-year queries issued for the range.
// The finish year is queried too, so a 2000-2002 range yields 3.
func (r YearRange) Len() int {
	return r.Finish - r.Start + 1
}

// Year returns the absolute year at the given zero-based position.
func (r YearRange) Year(position int) int {
	return r.Start + position
}

// Window returns the single-year query window for position.
func (r YearRange) Window(position int) YearWindow {
	y := r.Year(position)
	return YearWindow{Min: y, Max: y + 1}
}

// YearWindow is a half-open publication-date window [Min, Max) sent as the
// mindate/maxdate pair of a count query.
type YearWindow struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// SearchTerm is a trimmed search term ready for substitution into a query URL.
type SearchTerm string

// String returns the term as a plain string.
func (t SearchTerm) String() string { return string(t) }

// CountObservation is one year's publication count tagged with its position
// in the requested range and the session generation that requested it.
type CountObservation struct {
	Count      int    `json:"count" yaml:"count"`
	Position   int    `json:"position" yaml:"position"`
	Generation uint64 `json:"generation" yaml:"generation"`
}

// OrderedSeries holds counts sorted by observation position. It may be
// shorter than the requested range while queries are still in flight.
type OrderedSeries []int

// Max returns the largest count in the series and false when it is empty.
func (s OrderedSeries) Max() (int, bool) {
	if len(s) == 0 {
		return 0, false
	}
	m := s[0]
	for _, v := range s[1:] {
		if v > m {
			m = v
		}
	}
	return m, true
}

// ColorBands partitions [0, MaxValue] into low, mid and high terciles.
type ColorBands struct {
	LowHigh  int `json:"low_high" yaml:"low_high"`
	MidHigh  int `json:"mid_high" yaml:"mid_high"`
	MaxValue int `json:"max_value" yaml:"max_value"`
}

// Scales is everything a renderer needs to draw the series: the numeric axis
// upper bound, the colour thresholds and the year categories of the
// horizontal axis (one per received observation).
type Scales struct {
	DomainMax  int        `json:"domain_max" yaml:"domain_max"`
	Bands      ColorBands `json:"bands" yaml:"bands"`
	Categories []int      `json:"categories" yaml:"categories"`
}
