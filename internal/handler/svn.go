package handler

import (
	"context"
	"encoding/xml"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/devsync/devsync/internal/errs"
	"github.com/devsync/devsync/internal/fsutil"
	"github.com/devsync/devsync/internal/job"
	"github.com/devsync/devsync/internal/syncopts"
)

// svnStatus is the shape `svn status --xml` emits, enough to recover each
// entry's path and its wc-status item. Grounded on the xml-crate event
// reader in original_source/src/dir/svn.rs; no example repo in the pack
// imports a third-party XML library, and encoding/xml's tag-driven
// unmarshaling is the idiomatic Go fit for a document this shallow.
type svnStatus struct {
	Target struct {
		Entries []struct {
			Path   string `xml:"path,attr"`
			Status struct {
				Item string `xml:"item,attr"`
			} `xml:"wc-status"`
		} `xml:"entry"`
	} `xml:"target"`
}

// SvnHandler implements the Subversion strategy. In default mode it
// populates modified/ and unversioned/ target subtrees from `svn status
// --xml`, symmetrically with how the Git handler populates unstaged/ and
// untracked/ (SPEC_FULL.md §4.D): an empty category is omitted entirely
// rather than left as an empty directory. svn_full degrades to a plain
// recursive copy that re-classifies children.
type SvnHandler struct {
	opts *syncopts.SyncOptions
	keep map[string]bool
	full *PlainHandler
}

func NewSvnHandler(opts *syncopts.SyncOptions) *SvnHandler { return &SvnHandler{opts: opts} }

func (h *SvnHandler) Prepare(ctx context.Context, j *job.Directory) Outcome {
	if h.opts.SvnIgnore {
		return Skip("subversion checkout, sync disabled")
	}
	if err := fsutil.EnsureDir(j.Target, preserveAttrsSource(j)); err != nil {
		return Fail(errs.New(errs.Io, j.Target, "creating target directory", err))
	}
	return OK()
}

func (h *SvnHandler) Process(ctx context.Context, j *job.Directory) (Outcome, []*job.Directory) {
	if h.opts.SvnFull {
		h.full = &PlainHandler{}
		return h.full.Process(ctx, j)
	}

	modified, unversioned, err := svnStatusEntries(ctx, j.Source)
	if err != nil {
		return Fail(errs.New(errs.Vcs, j.Source, "running svn status", err)), nil
	}

	keep := make(map[string]bool)
	if len(modified) > 0 {
		if err := copySvnEntries(j.Source, filepath.Join(j.Target, "modified"), modified); err != nil {
			return Fail(errs.New(errs.Io, j.Source, "backing up modified files", err)), nil
		}
		keep["modified"] = true
	}
	if len(unversioned) > 0 {
		if err := copySvnEntries(j.Source, filepath.Join(j.Target, "unversioned"), unversioned); err != nil {
			return Fail(errs.New(errs.Io, j.Source, "backing up unversioned files", err)), nil
		}
		keep["unversioned"] = true
	}

	h.keep = keep
	return OK(), nil
}

func (h *SvnHandler) Finish(ctx context.Context, j *job.Directory, prev Outcome) Outcome {
	if h.full != nil {
		return h.full.Finish(ctx, j, prev)
	}
	return finishReconcile(j, h.keep, prev)
}

// svnStatusEntries runs `svn status --xml` against root and splits entries
// into modified tracked files and unversioned files/directories.
func svnStatusEntries(ctx context.Context, root string) (modified, unversioned []string, err error) {
	cmd := exec.CommandContext(ctx, "svn", "status", "--xml", root)
	out, err := cmd.Output()
	if err != nil {
		return nil, nil, err
	}

	var status svnStatus
	if err := xml.Unmarshal(out, &status); err != nil {
		return nil, nil, err
	}

	for _, e := range status.Target.Entries {
		switch e.Status.Item {
		case "modified":
			if info, err := os.Stat(e.Path); err == nil && !info.IsDir() {
				modified = append(modified, e.Path)
			}
		case "unversioned":
			unversioned = append(unversioned, e.Path)
		}
	}
	return modified, unversioned, nil
}

// copySvnEntries copies each absolute entry path, file or directory, into
// targetDir preserving its path relative to root.
func copySvnEntries(root, targetDir string, entries []string) error {
	for _, entry := range entries {
		rel, err := filepath.Rel(root, entry)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		dst := filepath.Join(targetDir, rel)

		info, err := os.Stat(entry)
		if err != nil {
			continue
		}
		if info.IsDir() {
			if err := copyTree(entry, dst); err != nil {
				return err
			}
			continue
		}
		if err := fsutil.EnsureDir(filepath.Dir(dst), ""); err != nil {
			return err
		}
		if err := fsutil.CopyFile(entry, dst, false); err != nil {
			return err
		}
	}
	return nil
}

func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fsutil.EnsureDir(target, "")
		}
		if err := fsutil.EnsureDir(filepath.Dir(target), ""); err != nil {
			return err
		}
		return fsutil.CopyFile(path, target, false)
	})
}
