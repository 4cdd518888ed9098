package handler

import (
	"context"

	"github.com/devsync/devsync/internal/category"
	"github.com/devsync/devsync/internal/errs"
	"github.com/devsync/devsync/internal/fsutil"
	"github.com/devsync/devsync/internal/job"
	"github.com/devsync/devsync/internal/syncopts"
)

// BuildHandler implements the near-identical strategy shared by the five
// build-tool categories (spec.md §4.D): skip entirely when the matching
// toggle is off (the default, and the case that saves the most space);
// behave exactly as Plain when it is on. Grounded on the five
// near-identical Flavour impls in original_source/src/dir/{cargo,cmake,
// flutter,meson,ninja}.rs, which differ only in their probe() rule, never
// in subdir_create/dup.
type BuildHandler struct {
	tag    category.Tag
	plain  *PlainHandler
	active bool
}

// NewBuildHandler builds the handler for one build category, resolving
// whether it is active from the matching SyncOptions toggle.
func NewBuildHandler(tag category.Tag, opts *syncopts.SyncOptions) *BuildHandler {
	return &BuildHandler{tag: tag, active: buildEnabled(tag, opts)}
}

func buildEnabled(tag category.Tag, opts *syncopts.SyncOptions) bool {
	switch tag {
	case category.Cargo:
		return opts.CargoSync
	case category.CMake:
		return opts.CMakeSync
	case category.Flutter:
		return opts.FlutterSync
	case category.Meson:
		return opts.MesonSync
	case category.Ninja:
		return opts.NinjaSync
	default:
		return false
	}
}

func (h *BuildHandler) Prepare(ctx context.Context, j *job.Directory) Outcome {
	if !h.active {
		return Skip(h.tag.String() + " build tree, sync disabled")
	}
	h.plain = &PlainHandler{}
	return h.plain.Prepare(ctx, j)
}

func (h *BuildHandler) Process(ctx context.Context, j *job.Directory) (Outcome, []*job.Directory) {
	return h.plain.Process(ctx, j)
}

func (h *BuildHandler) Finish(ctx context.Context, j *job.Directory, prev Outcome) Outcome {
	if h.plain == nil {
		// Skipped: nothing was created this run. Per the adopted reading of
		// the open question on disabled Build categories, delete_extraneous
		// still reaches stale content left by a previous run.
		if j.Options.DeleteExtraneous {
			if err := fsutil.RemoveTree(j.Target); err != nil {
				return Fail(errs.New(errs.Io, j.Target, "removing stale build target", err))
			}
		}
		return prev
	}
	return h.plain.Finish(ctx, j, prev)
}
