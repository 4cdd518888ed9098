package handler

import (
	"context"
	"path/filepath"

	"github.com/devsync/devsync/internal/category"
	"github.com/devsync/devsync/internal/errs"
	"github.com/devsync/devsync/internal/fsutil"
	"github.com/devsync/devsync/internal/job"
	"github.com/devsync/devsync/internal/syncopts"
)

// yoctoBuildDirNames are the build subtrees carved out behind yocto_build,
// per spec.md §4.D.
var yoctoBuildDirNames = map[string]bool{
	"build":        true,
	"BUILD":        true,
	"cache":        true,
	"sstate-cache": true,
	"buildhistory": true,
}

// YoctoHandler implements the Yocto strategy: skip entirely when
// yocto_ignore; otherwise copy top-level content and recurse, carving the
// downloads/ and build-output subtrees out behind their own toggles, and
// forcing every child to stay Plain (terminal category, spec.md §4.D).
// Grounded on original_source/src/dir/yocto.rs.
type YoctoHandler struct {
	opts *syncopts.SyncOptions
	keep map[string]bool
}

func NewYoctoHandler(opts *syncopts.SyncOptions) *YoctoHandler { return &YoctoHandler{opts: opts} }

func (h *YoctoHandler) Prepare(ctx context.Context, j *job.Directory) Outcome {
	if h.opts.YoctoIgnore {
		return Skip("yocto tree, sync disabled")
	}
	if err := fsutil.EnsureDir(j.Target, preserveAttrsSource(j)); err != nil {
		return Fail(errs.New(errs.Io, j.Target, "creating target directory", err))
	}
	return OK()
}

func (h *YoctoHandler) Process(ctx context.Context, j *job.Directory) (Outcome, []*job.Directory) {
	entries, err := listEntries(j)
	if err != nil {
		return Fail(err), nil
	}

	fileKeep, err := copyPlainFiles(j, entries)
	if err != nil {
		return Fail(err), nil
	}

	var children []*job.Directory
	keep := fileKeep
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if fsutil.MatchesIgnore(name, name, j.Options.IgnoreNames) {
			continue
		}
		if name == "downloads" && !h.opts.YoctoDownloads {
			continue
		}
		if yoctoBuildDirNames[name] && !h.opts.YoctoBuild {
			continue
		}

		stay := ""
		if category.Yocto.Terminal() {
			stay = category.Plain.String()
		}

		keep[name] = true
		children = append(children, j.Child(
			filepath.Join(j.Source, name),
			filepath.Join(j.Target, name),
			stay,
		))
	}

	h.keep = keep
	return OK(), children
}

func (h *YoctoHandler) Finish(ctx context.Context, j *job.Directory, prev Outcome) Outcome {
	return finishReconcile(j, h.keep, prev)
}

// SysrootHandler implements the Sysroot strategy: skipped by default,
// copied plainly (without re-classifying children) when sysroot_sync is
// set. Grounded on original_source/src/dir/sysroot.rs.
type SysrootHandler struct {
	opts *syncopts.SyncOptions
	keep map[string]bool
}

func NewSysrootHandler(opts *syncopts.SyncOptions) *SysrootHandler {
	return &SysrootHandler{opts: opts}
}

func (h *SysrootHandler) Prepare(ctx context.Context, j *job.Directory) Outcome {
	if !h.opts.SysrootSync {
		return Skip("sysroot tree, sync disabled")
	}
	if err := fsutil.EnsureDir(j.Target, preserveAttrsSource(j)); err != nil {
		return Fail(errs.New(errs.Io, j.Target, "creating target directory", err))
	}
	return OK()
}

func (h *SysrootHandler) Process(ctx context.Context, j *job.Directory) (Outcome, []*job.Directory) {
	outcome, children, keep := copyAndDescend(j, !category.Sysroot.Terminal())
	h.keep = keep
	return outcome, children
}

func (h *SysrootHandler) Finish(ctx context.Context, j *job.Directory, prev Outcome) Outcome {
	if h.keep == nil {
		// Skipped: mirror BuildHandler's reconciliation-on-skip reading of
		// the open question on disabled categories.
		if j.Options.DeleteExtraneous {
			if err := fsutil.RemoveTree(j.Target); err != nil {
				return Fail(errs.New(errs.Io, j.Target, "removing stale sysroot target", err))
			}
		}
		return prev
	}
	return finishReconcile(j, h.keep, prev)
}
