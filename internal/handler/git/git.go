package git

import (
	"context"
	"path/filepath"

	"github.com/devsync/devsync/internal/errs"
	"github.com/devsync/devsync/internal/fsutil"
	"github.com/devsync/devsync/internal/handler"
	"github.com/devsync/devsync/internal/job"
	"github.com/devsync/devsync/internal/syncopts"
)

// Handler implements the Git backup strategy (spec.md §4.E): up to four
// conditional target subdirectories (stashes/, untracked/, unstaged/,
// repo/), an unconditional wipe of pre-existing target content regardless
// of delete_extraneous, and no re-classification of children unless
// git_full degrades it to a plain copy.
type Handler struct {
	opts *syncopts.SyncOptions
	full *handler.PlainHandler
}

func New(opts *syncopts.SyncOptions) *Handler { return &Handler{opts: opts} }

func (h *Handler) Prepare(ctx context.Context, j *job.Directory) handler.Outcome {
	if h.opts.GitIgnore {
		return handler.Skip("git repository, sync disabled")
	}

	// Unconditional wipe: partial artifacts from a previous run would be
	// misleading, so delete_extraneous does not govern this handler
	// (spec.md §4.E's deletion-policy override).
	if err := fsutil.RemoveTree(j.Target); err != nil {
		return handler.Fail(errs.New(errs.Io, j.Target, "clearing stale git target", err))
	}
	if err := fsutil.EnsureDir(j.Target, ""); err != nil {
		return handler.Fail(errs.New(errs.Io, j.Target, "creating target directory", err))
	}
	return handler.OK()
}

func (h *Handler) Process(ctx context.Context, j *job.Directory) (handler.Outcome, []*job.Directory) {
	if h.opts.GitFull {
		h.full = &handler.PlainHandler{}
		return h.full.Process(ctx, j)
	}

	if !h.opts.GitIgnoreStashes {
		if err := h.backupStashes(ctx, j); err != nil {
			return handler.Fail(err), nil
		}
	}
	if !h.opts.GitIgnoreUntracked {
		if err := h.backupUntracked(ctx, j); err != nil {
			return handler.Fail(err), nil
		}
	}
	if !h.opts.GitIgnoreUnstaged {
		if err := h.backupUnstaged(ctx, j); err != nil {
			return handler.Fail(err), nil
		}
	}
	if !h.opts.GitIgnoreUnpushed {
		if err := h.backupUnpushed(ctx, j); err != nil {
			return handler.Fail(err), nil
		}
	}

	return handler.OK(), nil
}

func (h *Handler) Finish(ctx context.Context, j *job.Directory, prev handler.Outcome) handler.Outcome {
	if h.full != nil {
		return h.full.Finish(ctx, j, prev)
	}
	// delete_extraneous is explicitly ignored by this handler; the
	// unconditional wipe in Prepare already guarantees no stale content.
	return prev
}

func (h *Handler) backupStashes(ctx context.Context, j *job.Directory) error {
	stashes, err := listStashes(ctx, j.Source)
	if err != nil {
		return errs.New(errs.Vcs, j.Source, "listing stashes", err)
	}
	if len(stashes) == 0 {
		return nil
	}
	target := filepath.Join(j.Target, "stashes")
	if err := fsutil.EnsureDir(target, ""); err != nil {
		return errs.New(errs.Io, target, "creating stashes directory", err)
	}
	if err := writeStashArtifacts(ctx, j.Source, target, stashes); err != nil {
		return errs.New(errs.Vcs, j.Source, "writing stash artifacts", err)
	}
	return nil
}

func (h *Handler) backupUntracked(ctx context.Context, j *job.Directory) error {
	paths, err := listUntracked(ctx, j.Source)
	if err != nil {
		return errs.New(errs.Vcs, j.Source, "listing untracked files", err)
	}
	if len(paths) == 0 {
		return nil
	}
	target := filepath.Join(j.Target, "untracked")
	if err := fsutil.EnsureDir(target, ""); err != nil {
		return errs.New(errs.Io, target, "creating untracked directory", err)
	}
	if err := writeUntracked(j.Source, target, paths, j.Options.IgnoreNames); err != nil {
		return errs.New(errs.Io, j.Source, "backing up untracked files", err)
	}
	return nil
}

func (h *Handler) backupUnstaged(ctx context.Context, j *job.Directory) error {
	paths, err := listUnstagedPaths(ctx, j.Source)
	if err != nil {
		return errs.New(errs.Vcs, j.Source, "listing modified files", err)
	}
	if len(paths) == 0 {
		return nil
	}
	target := filepath.Join(j.Target, "unstaged")
	if err := fsutil.EnsureDir(target, ""); err != nil {
		return errs.New(errs.Io, target, "creating unstaged directory", err)
	}
	if err := writeUnstagedDiffs(ctx, j.Source, target, paths); err != nil {
		return errs.New(errs.Vcs, j.Source, "writing unstaged diffs", err)
	}
	return nil
}

func (h *Handler) backupUnpushed(ctx context.Context, j *job.Directory) error {
	divergent, err := anyBranchDivergent(ctx, j.Source)
	if err != nil {
		return errs.New(errs.Vcs, j.Source, "checking branch divergence", err)
	}
	if !divergent {
		return nil
	}
	target := filepath.Join(j.Target, "repo")
	if err := cloneBare(ctx, j.Source, target); err != nil {
		return errs.New(errs.Vcs, j.Source, "producing bare clone", err)
	}
	return nil
}
