// Package handler implements the per-category backup strategies: the
// uniform prepare/process/finish contract every category satisfies, plus
// the Plain, Build, Special (Yocto/Sysroot), and Subversion handlers.
// Grounded on the Flavour trait in original_source/src/dir/mod.rs, which
// exposes the same three-phase contract (there named subdir_create,
// subdir_rename/dup, and the ignored/empty checks finish folds together).
package handler

import (
	"context"

	"github.com/devsync/devsync/internal/job"
)

// Status is the terminal classification of a handler's work on one job.
type Status int

const (
	Done Status = iota
	Skipped
	Failed
)

func (s Status) String() string {
	switch s {
	case Done:
		return "done"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is returned by every phase of the contract. Reason is set for
// Skipped; Err is set for Failed.
type Outcome struct {
	Status Status
	Reason string
	Err    error
}

func OK() Outcome { return Outcome{Status: Done} }

func Skip(reason string) Outcome { return Outcome{Status: Skipped, Reason: reason} }

func Fail(err error) Outcome { return Outcome{Status: Failed, Err: err} }

// Terminal reports whether the phase pipeline should stop here: a prepare
// phase that skips or fails short-circuits process/finish, per spec.md
// §4.C.
func (o Outcome) Terminal() bool { return o.Status != Done }

// Handler is the contract every category strategy satisfies (spec.md
// §4.C): prepare creates the target directory and may short-circuit to
// Skipped when the category is disabled; process performs the
// category-specific copy/extraction and returns any child jobs to
// schedule; finish performs delete_extraneous reconciliation and any
// other cleanup within the job's own target subtree.
type Handler interface {
	Prepare(ctx context.Context, j *job.Directory) Outcome
	Process(ctx context.Context, j *job.Directory) (Outcome, []*job.Directory)
	Finish(ctx context.Context, j *job.Directory, prev Outcome) Outcome
}

// Run drives the full prepare → process → finish pipeline for a job
// against a handler, honoring early termination from any phase. It is the
// single call site the scheduler uses regardless of which handler was
// selected.
func Run(ctx context.Context, j *job.Directory, h Handler) (Outcome, []*job.Directory) {
	prepared := h.Prepare(ctx, j)
	if prepared.Terminal() {
		return h.Finish(ctx, j, prepared), nil
	}

	processed, children := h.Process(ctx, j)
	if processed.Terminal() {
		return h.Finish(ctx, j, processed), nil
	}

	return h.Finish(ctx, j, processed), children
}
