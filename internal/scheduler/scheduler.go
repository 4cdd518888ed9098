// Package scheduler implements the bounded worker pool and quiescence
// detector that drive the job walk (spec.md §4.F). Grounded on
// original_source/src/scanner/{mod,scan}.rs's channel-based job queue and
// in-flight counter, translated from crossbeam scoped threads to
// goroutines bounded by golang.org/x/sync/semaphore, the same dependency
// _examples/walteh-copyrc/pkg/operation pulls in for its own concurrency
// bounding.
package scheduler

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/devsync/devsync/internal/category"
	"github.com/devsync/devsync/internal/dispatch"
	"github.com/devsync/devsync/internal/errs"
	"github.com/devsync/devsync/internal/handler"
	"github.com/devsync/devsync/internal/job"
	"github.com/devsync/devsync/internal/progress"
)

// Scheduler runs one backup walk: every job gets its own goroutine, but a
// weighted semaphore admits at most `workers` of them at a time, giving the
// "bounded worker pool, unbounded job queue" shape of spec.md §4.F without
// a hand-rolled queue — the semaphore's wait list IS the queue.
type Scheduler struct {
	sem      *semaphore.Weighted
	state    *progress.State
	inFlight atomic.Int64
	stop     atomic.Bool
	wg       sync.WaitGroup
	done     chan struct{}
	doneOnce sync.Once
}

// New builds a scheduler bounded to workers concurrent jobs, reporting to
// state.
func New(workers int, state *progress.State) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{
		sem:   semaphore.NewWeighted(int64(workers)),
		state: state,
		done:  make(chan struct{}),
	}
}

// Stop requests cooperative cancellation: a job already admitted past the
// semaphore runs to completion, but no new job — root or child — is
// admitted afterward (spec.md §4.F's cancellation policy).
func (s *Scheduler) Stop() { s.stop.Store(true) }

// Run submits root and blocks until every job it transitively spawns has
// finished, returning the final counters.
func (s *Scheduler) Run(ctx context.Context, root *job.Directory) progress.Counts {
	s.submit(ctx, root)
	<-s.done
	s.wg.Wait()
	return s.state.Snapshot()
}

// submit records the job as in-flight and spawns its goroutine. The
// semaphore acquire happens inside the goroutine so submit itself never
// blocks the caller — a worker finishing one job and submitting children
// must be free to return immediately.
func (s *Scheduler) submit(ctx context.Context, j *job.Directory) {
	s.inFlight.Add(1)
	s.state.Discovered(j.Source)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if err := s.sem.Acquire(ctx, 1); err != nil {
			// context cancelled while waiting for a slot.
			s.state.Finished(j.Source, progress.OutcomeFailed, err.Error())
			s.settle()
			return
		}
		s.runJob(ctx, j)
		s.sem.Release(1)
		s.settle()
	}()
}

// settle decrements the in-flight counter and signals completion exactly
// once, the moment the count reaches zero — the quiescence condition from
// spec.md's Glossary.
func (s *Scheduler) settle() {
	if s.inFlight.Add(-1) == 0 {
		s.doneOnce.Do(func() { close(s.done) })
	}
}

// runJob classifies j, dispatches to its handler, records progress, and
// submits any returned child jobs. A job is the atomic unit of work: the
// handler's own prepare/process/finish sequence runs entirely within this
// call (spec.md §4.F: "within a job, file copies are sequential").
func (s *Scheduler) runJob(ctx context.Context, j *job.Directory) {
	if s.stop.Load() {
		s.state.Finished(j.Source, progress.OutcomeSkipped, "aborted")
		return
	}

	tag, err := classify(j)
	if err != nil {
		s.state.Finished(j.Source, progress.OutcomeFailed, err.Error())
		return
	}
	s.state.Started(j.Source, tag)

	h := dispatch.Select(tag, j.Options)
	outcome, children := handler.Run(ctx, j, h)

	switch outcome.Status {
	case handler.Done:
		s.state.Finished(j.Source, progress.OutcomeDone, "")
	case handler.Skipped:
		s.state.Finished(j.Source, progress.OutcomeSkipped, outcome.Reason)
	case handler.Failed:
		reason := ""
		if outcome.Err != nil {
			reason = outcome.Err.Error()
		}
		s.state.Finished(j.Source, progress.OutcomeFailed, reason)
	}

	s.submitChildren(ctx, children)
}

// submitChildren submits each child job, or, if a stop has been requested
// since the parent started, records it discovered-then-skipped without ever
// entering the worker pool. Never submitted means Discovered wouldn't
// otherwise fire for it, so both calls happen here together to keep
// discovered == done+skipped+failed at quiescence (spec.md §8) while still
// surfacing the abort in logs and the run summary.
func (s *Scheduler) submitChildren(ctx context.Context, children []*job.Directory) {
	for _, child := range children {
		if s.stop.Load() {
			s.state.Discovered(child.Source)
			s.state.Finished(child.Source, progress.OutcomeSkipped, "aborted")
			continue
		}
		s.submit(ctx, child)
	}
}

// classify resolves j's category: either the Stay tag forced by a
// terminal parent handler, or a fresh recognition probe (spec.md §4.B).
func classify(j *job.Directory) (category.Tag, error) {
	if j.Stay != "" {
		tag, _ := category.ParseTag(j.Stay)
		return tag, nil
	}

	entries, err := os.ReadDir(j.Source)
	if err != nil {
		return category.Plain, errs.New(errs.Classify, j.Source, "reading directory entries", err)
	}
	return category.Recognize(category.NewEntries(entries)), nil
}
