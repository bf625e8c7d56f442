// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate reassembles asynchronously arriving count observations
// into a position-ordered series scoped to one search session.
package aggregate

import (
	"sort"
	"sync"

	"github.com/pdiddy/research-trends/pkg/types"
)

// Aggregator owns the observations of the current session. All methods are
// safe for concurrent use; each Receive sorts and publishes under one lock so
// readers only ever see complete series.
type Aggregator struct {
	mu         sync.Mutex
	generation uint64
	obs        []types.CountObservation
	series     types.OrderedSeries
}

// New returns an Aggregator at generation zero with no observations.
func New() *Aggregator {
	return &Aggregator{series: types.OrderedSeries{}}
}

// Reset starts a new session: prior observations are dropped and the
// returned generation becomes the only one Receive accepts.
func (a *Aggregator) Reset() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	a.obs = nil
	a.series = types.OrderedSeries{}
	return a.generation
}

// Generation returns the current session token.
func (a *Aggregator) Generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generation
}

// Receive adds obs to the session and returns the new series. Observations
// from another generation are discarded and reported with ok == false; the
// returned series is then the unchanged current one.
func (a *Aggregator) Receive(obs types.CountObservation) (series types.OrderedSeries, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if obs.Generation != a.generation {
		return clone(a.series), false
	}

	a.obs = append(a.obs, obs)
	a.series = Order(a.obs)
	return clone(a.series), true
}

// Series returns a copy of the current series.
func (a *Aggregator) Series() types.OrderedSeries {
	a.mu.Lock()
	defer a.mu.Unlock()
	return clone(a.series)
}

// Order stable-sorts obs by position and projects the counts. Observations
// sharing a position keep their arrival order. obs is sorted in place.
func Order(obs []types.CountObservation) types.OrderedSeries {
	sort.SliceStable(obs, func(i, j int) bool { return obs[i].Position < obs[j].Position })
	series := make(types.OrderedSeries, len(obs))
	for i, o := range obs {
		series[i] = o.Count
	}
	return series
}

func clone(s types.OrderedSeries) types.OrderedSeries {
	return append(types.OrderedSeries{}, s...)
}
