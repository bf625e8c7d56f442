// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule fans a year range out into one staggered count query per
// year and delivers each result as a positioned observation.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/pdiddy/research-trends/internal/httputil"
	"github.com/pdiddy/research-trends/pkg/types"
)

// DefaultStagger is the delay between consecutive query start times.
const DefaultStagger = 250 * time.Millisecond

// Counter returns the number of publications matching term in window.
type Counter interface {
	Count(ctx context.Context, term types.SearchTerm, window types.YearWindow) (int, error)
}

// Kind classifies a failed query.
type Kind int

const (
	HTTPFailure Kind = iota + 1
	MalformedResponse
)

func (k Kind) String() string {
	switch k {
	case HTTPFailure:
		return "http_failure"
	case MalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// QueryError reports one failed per-year query. The position it covers stays
// empty for the rest of the session.
type QueryError struct {
	Kind     Kind
	Position int
	Year     int
	Err      error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query for %d (position %d): %s: %v", e.Year, e.Position, e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func classify(err error) Kind {
	if errors.Is(err, httputil.ErrMalformed) {
		return MalformedResponse
	}
	return HTTPFailure
}

// Scheduler issues one query per year of a range.
type Scheduler struct {
	Counter Counter

	// Stagger is the gap between query start times. Zero uses DefaultStagger.
	Stagger time.Duration

	// MaxInFlight caps concurrent requests after their delay has elapsed.
	// Zero means every query runs as soon as its delay elapses.
	MaxInFlight int

	// OnError, when set, is called for each failed query.
	OnError func(*QueryError)

	// After returns a channel that fires once d has elapsed. Nil uses time.After.
	After func(d time.Duration) <-chan time.Time
}

// New returns a Scheduler configured from cfg.
func New(c Counter, cfg types.TrendConfig) *Scheduler {
	return &Scheduler{
		Counter:     c,
		Stagger:     cfg.Stagger,
		MaxInFlight: cfg.MaxInFlight,
	}
}

func (s *Scheduler) stagger() time.Duration {
	if s.Stagger <= 0 {
		return DefaultStagger
	}
	return s.Stagger
}

func (s *Scheduler) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	after := s.After
	if after == nil {
		after = time.After
	}
	select {
	case <-ctx.Done():
		return false
	case <-after(d):
		return true
	}
}

// Run tracks the queries of one Schedule call.
type Run struct {
	g    errgroup.Group
	mu   sync.Mutex
	errs []*QueryError
}

func (r *Run) record(qe *QueryError) {
	r.mu.Lock()
	r.errs = append(r.errs, qe)
	r.mu.Unlock()
}

// Wait blocks until every query has completed, failed, or been abandoned
// through context cancellation. It returns the failures ordered by position.
func (r *Run) Wait() []*QueryError {
	r.g.Wait()
	r.mu.Lock()
	defer r.mu.Unlock()
	errs := append([]*QueryError(nil), r.errs...)
	sort.Slice(errs, func(i, j int) bool { return errs[i].Position < errs[j].Position })
	return errs
}

// Schedule starts rng.Len() queries and returns immediately. Query i covers
// the window [rng.Start+i, rng.Start+i+1) and starts Stagger*i after the
// call. Each success is passed to emit tagged with position i and gen; emit
// may be called from several goroutines at once and in any position order.
//
// A failed query never stops its siblings and is not retried. Cancelling
// ctx abandons pending delays and in-flight requests without reporting them
// as failures.
func (s *Scheduler) Schedule(ctx context.Context, rng types.YearRange, term types.SearchTerm, gen uint64, emit func(types.CountObservation)) *Run {
	r := &Run{}

	var sem *semaphore.Weighted
	if s.MaxInFlight > 0 {
		sem = semaphore.NewWeighted(int64(s.MaxInFlight))
	}

	step := s.stagger()
	for i := 0; i < rng.Len(); i++ {
		delay := step * time.Duration(i)
		r.g.Go(func() error {
			if !s.wait(ctx, delay) {
				queriesTotal.WithLabelValues(outcomeAbandoned).Inc()
				return nil
			}
			if sem != nil {
				if err := sem.Acquire(ctx, 1); err != nil {
					queriesTotal.WithLabelValues(outcomeAbandoned).Inc()
					return nil
				}
				defer sem.Release(1)
			}
			s.query(ctx, r, rng, term, gen, i, emit)
			return nil
		})
	}
	return r
}

func (s *Scheduler) query(ctx context.Context, r *Run, rng types.YearRange, term types.SearchTerm, gen uint64, pos int, emit func(types.CountObservation)) {
	window := rng.Window(pos)

	queriesInFlight.Inc()
	start := time.Now()
	n, err := s.Counter.Count(ctx, term, window)
	queryDuration.Observe(time.Since(start).Seconds())
	queriesInFlight.Dec()

	if err != nil {
		if ctx.Err() != nil {
			queriesTotal.WithLabelValues(outcomeAbandoned).Inc()
			return
		}
		qe := &QueryError{Kind: classify(err), Position: pos, Year: window.Min, Err: err}
		queriesTotal.WithLabelValues(qe.Kind.String()).Inc()
		r.record(qe)
		if s.OnError != nil {
			s.OnError(qe)
		}
		return
	}

	queriesTotal.WithLabelValues(outcomeOK).Inc()
	emit(types.CountObservation{Count: n, Position: pos, Generation: gen})
}
