package handler

import (
	"os"
	"path/filepath"

	"github.com/devsync/devsync/internal/category"
	"github.com/devsync/devsync/internal/errs"
	"github.com/devsync/devsync/internal/fsutil"
	"github.com/devsync/devsync/internal/job"
)

// listEntries reads a job's source directory, the single read every
// handler needs for both classification (already done by the caller) and
// copying (spec.md §4.B: "Recognition reads only the immediate directory's
// entry names").
func listEntries(j *job.Directory) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(j.Source)
	if err != nil {
		return nil, errs.New(errs.Classify, j.Source, "reading directory entries", err)
	}
	return entries, nil
}

// copyPlainFiles copies every immediate regular file in j's source
// directory to its target, honoring ignore_names and owned_only. It
// returns the names of the files it copied or found unchanged so callers
// can build a delete_extraneous keep-set; files skipped by ignore_names or
// owned_only are not in it.
func copyPlainFiles(j *job.Directory, entries []os.DirEntry) (keep map[string]bool, err error) {
	keep = make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if fsutil.MatchesIgnore(name, name, j.Options.IgnoreNames) {
			continue
		}

		src := filepath.Join(j.Source, name)
		if j.Options.OwnedOnly {
			owned, err := fsutil.OwnedByCurrentUser(src)
			if err != nil {
				return keep, errs.New(errs.Permission, src, "checking ownership", err)
			}
			if !owned {
				continue
			}
		}

		dst := filepath.Join(j.Target, name)
		if fsutil.Unchanged(src, dst) {
			keep[name] = true
			continue
		}
		if err := fsutil.CopyFile(src, dst, j.Options.PreserveAttrs); err != nil {
			return keep, errs.New(errs.Io, src, "copying file", err)
		}
		keep[name] = true
	}
	return keep, nil
}

// childJobs builds one child DirectoryJob per immediate subdirectory,
// forcing Stay when reclassify is false so the child is handled as Plain
// without re-probing its category (spec.md §4.D's terminality rule for
// Yocto/Sysroot).
func childJobs(j *job.Directory, entries []os.DirEntry, reclassify bool) []*job.Directory {
	var children []*job.Directory
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if fsutil.MatchesIgnore(name, name, j.Options.IgnoreNames) {
			continue
		}
		stay := ""
		if !reclassify {
			stay = category.Plain.String()
		}
		children = append(children, j.Child(
			filepath.Join(j.Source, name),
			filepath.Join(j.Target, name),
			stay,
		))
	}
	return children
}

// dirNames collects every directory entry's name, used to build
// delete_extraneous keep-sets alongside copyPlainFiles's file keep-set.
func dirNames(entries []os.DirEntry) map[string]bool {
	names := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			names[e.Name()] = true
		}
	}
	return names
}

func union(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

// copyAndDescend is the shared core of Plain/Sysroot/Build-enabled
// processing: copy every immediate file, then build one child job per
// immediate subdirectory, optionally forcing those children to stay Plain
// instead of being re-classified.
func copyAndDescend(j *job.Directory, reclassifyChildren bool) (Outcome, []*job.Directory, map[string]bool) {
	entries, err := listEntries(j)
	if err != nil {
		return Fail(err), nil, nil
	}

	fileKeep, err := copyPlainFiles(j, entries)
	if err != nil {
		return Fail(err), nil, nil
	}

	children := childJobs(j, entries, reclassifyChildren)
	keep := union(fileKeep, dirNames(entries))
	return OK(), children, keep
}

// finishReconcile runs the standard finish phase: if delete_extraneous is
// set, remove target entries not in keep; otherwise a no-op. prev is
// passed through unchanged on success.
func finishReconcile(j *job.Directory, keep map[string]bool, prev Outcome) Outcome {
	if !j.Options.DeleteExtraneous {
		return prev
	}
	if err := fsutil.ReconcileExtraneous(j.Target, keep); err != nil {
		return Fail(errs.New(errs.Io, j.Target, "reconciling extraneous entries", err))
	}
	return prev
}
