package handler

import (
	"context"

	"github.com/devsync/devsync/internal/category"
	"github.com/devsync/devsync/internal/errs"
	"github.com/devsync/devsync/internal/fsutil"
	"github.com/devsync/devsync/internal/job"
)

// PlainHandler copies every immediate file and enqueues every immediate
// subdirectory as a re-classified child job. It is the only handler that
// continues category scanning into subdirectories unconditionally (spec.md
// §4.D), and is also the strategy every Build handler falls back to when
// its toggle is enabled.
//
// A PlainHandler value is used for exactly one job: Process stores the
// keep-set Finish needs for delete_extraneous reconciliation.
type PlainHandler struct {
	keep map[string]bool
}

func (h *PlainHandler) Prepare(ctx context.Context, j *job.Directory) Outcome {
	if err := fsutil.EnsureDir(j.Target, preserveAttrsSource(j)); err != nil {
		return Fail(errs.New(errs.Io, j.Target, "creating target directory", err))
	}
	return OK()
}

func (h *PlainHandler) Process(ctx context.Context, j *job.Directory) (Outcome, []*job.Directory) {
	outcome, children, keep := copyAndDescend(j, !category.Plain.Terminal())
	h.keep = keep
	return outcome, children
}

func (h *PlainHandler) Finish(ctx context.Context, j *job.Directory, prev Outcome) Outcome {
	return finishReconcile(j, h.keep, prev)
}

func preserveAttrsSource(j *job.Directory) string {
	if j.Options.PreserveAttrs {
		return j.Source
	}
	return ""
}
