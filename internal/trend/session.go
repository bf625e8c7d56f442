// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trend runs a publication-trend search end to end: it validates the
// form inputs, schedules the per-year count queries, folds their results into
// the session's ordered series and publishes derived scales after every
// accepted observation.
package trend

import (
	"context"
	"errors"
	"sync"

	"github.com/pdiddy/research-trends/internal/aggregate"
	"github.com/pdiddy/research-trends/internal/scale"
	"github.com/pdiddy/research-trends/internal/schedule"
	"github.com/pdiddy/research-trends/internal/validate"
	"github.com/pdiddy/research-trends/pkg/types"
)

// Update is the state published after each accepted observation.
type Update struct {
	Generation uint64              `json:"generation"`
	Term       types.SearchTerm    `json:"term"`
	Range      types.YearRange     `json:"range"`
	Series     types.OrderedSeries `json:"series"`
	Scales     *types.Scales       `json:"scales"`
	Bars       []scale.Bar         `json:"bars"`
	Received   int                 `json:"received"`
	Expected   int                 `json:"expected"`
}

// Session owns one aggregator and runs at most one live search at a time.
// Submitting again supersedes the previous search: its context is cancelled
// and any of its results that still arrive are discarded by generation.
type Session struct {
	sched   *schedule.Scheduler
	agg     *aggregate.Aggregator
	palette scale.Palette

	// OnUpdate, when set, receives every update in the order the series
	// grew. It runs while the session holds its publish lock, so it must not
	// call back into the session. Updates always carry the generation of
	// the latest submit.
	OnUpdate func(Update)

	// OnSubmit, when set, is called for each accepted submit before its
	// queries start. Same locking rules as OnUpdate.
	OnSubmit func(*Run)

	mu     sync.Mutex
	cancel context.CancelFunc

	publishMu sync.Mutex
}

// NewSession returns a Session that schedules queries with sched and colours
// bars with palette.
func NewSession(sched *schedule.Scheduler, palette scale.Palette) *Session {
	return &Session{
		sched:   sched,
		agg:     aggregate.New(),
		palette: palette,
	}
}

// Submit validates the raw form values and, when they pass, starts a new
// search. A validation failure leaves any running search untouched and is
// returned as a *validate.ValidationError.
//
// The previous search is cancelled and OnSubmit runs before any query of the
// new one is scheduled, under the same lock as OnUpdate, so nothing of the
// superseded search is published after it.
func (s *Session) Submit(ctx context.Context, startYear, finishYear, searchTerm string) (*Run, error) {
	rng, term, err := validate.Inputs(startYear, finishYear, searchTerm)
	if err != nil {
		return nil, err
	}

	s.publishMu.Lock()
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	gen := s.agg.Reset()
	s.mu.Unlock()

	run := &Run{
		generation: gen,
		term:       term,
		rng:        rng,
		palette:    s.palette,
		cancel:     cancel,
		series:     types.OrderedSeries{},
	}
	if s.OnSubmit != nil {
		s.OnSubmit(run)
	}
	s.publishMu.Unlock()

	run.queries = s.sched.Schedule(runCtx, rng, term, gen, func(obs types.CountObservation) {
		s.receive(run, obs)
	})
	return run, nil
}

// Finish waits for run and passes its report to fn unless a later submit
// has superseded it. The check and fn run under the publish lock. It reports
// whether fn was called.
func (s *Session) Finish(run *Run, fn func(Report)) bool {
	rep := run.Wait()

	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	if s.agg.Generation() != run.generation {
		return false
	}
	fn(rep)
	return true
}

// Close cancels the running search, if any.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Generation returns the token of the most recent submit.
func (s *Session) Generation() uint64 {
	return s.agg.Generation()
}

// Series returns the current session's series.
func (s *Session) Series() types.OrderedSeries {
	return s.agg.Series()
}

func (s *Session) receive(run *Run, obs types.CountObservation) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	series, ok := s.agg.Receive(obs)
	if !ok {
		return
	}
	run.setSeries(series)

	if s.OnUpdate != nil {
		s.OnUpdate(run.update(series))
	}
}

// Run is one submitted search.
type Run struct {
	generation uint64
	term       types.SearchTerm
	rng        types.YearRange
	palette    scale.Palette
	cancel     context.CancelFunc
	queries    *schedule.Run

	mu     sync.Mutex
	series types.OrderedSeries
}

// Generation returns the session token of the run.
func (r *Run) Generation() uint64 { return r.generation }

// Range returns the validated year range.
func (r *Run) Range() types.YearRange { return r.rng }

// Term returns the formatted search term.
func (r *Run) Term() types.SearchTerm { return r.term }

func (r *Run) setSeries(series types.OrderedSeries) {
	r.mu.Lock()
	r.series = series
	r.mu.Unlock()
}

func (r *Run) update(series types.OrderedSeries) Update {
	u := Update{
		Generation: r.generation,
		Term:       r.term,
		Range:      r.rng,
		Series:     series,
		Received:   len(series),
		Expected:   r.rng.Len(),
	}
	if sc, err := scale.Derive(series, r.rng.Start); err == nil {
		u.Scales = &sc
		u.Bars = scale.Bars(series, sc, r.palette)
	}
	return u
}

// Wait blocks until every query of the run has finished and returns the
// final report. A superseded run reports what it had accepted before it was
// replaced.
func (r *Run) Wait() Report {
	qerrs := r.queries.Wait()
	r.cancel()

	r.mu.Lock()
	series := append(types.OrderedSeries{}, r.series...)
	r.mu.Unlock()

	u := r.update(series)
	rep := Report{
		Generation: r.generation,
		Term:       r.term,
		Range:      r.rng,
		Series:     series,
		Scales:     u.Scales,
		Bars:       u.Bars,
		Expected:   u.Expected,
		Complete:   len(series) == u.Expected,
	}
	for _, qe := range qerrs {
		rep.Errors = append(rep.Errors, qe.Error())
	}
	return rep
}

// IsValidation reports whether err came from input validation.
func IsValidation(err error) bool {
	var ve *validate.ValidationError
	return errors.As(err, &ve)
}
