// Package job defines the unit of scheduler work: a single directory to
// classify and hand to a handler, per spec.md §3's DirectoryJob.
package job

import (
	"github.com/devsync/devsync/internal/syncopts"
)

// Stay, when non-empty, names the category a child job must be classified
// as without re-probing — used by terminal-but-not-fully-terminal handlers
// (Yocto, Sysroot) to force their children to be treated as Plain rather
// than re-recognized, per spec.md §4.D.
type Directory struct {
	// Source is the absolute source path to be synced.
	Source string
	// Target is the absolute target path it mirrors.
	Target string
	// Depth is the distance from the source root, root being 0.
	Depth int
	// Stay forces classification to this category name instead of probing,
	// or is empty to probe normally.
	Stay string
	// Options is the shared, immutable SyncOptions for the whole run.
	Options *syncopts.SyncOptions
}

// New builds a root job for src/dst with no forced category.
func New(src, dst string, opts *syncopts.SyncOptions) *Directory {
	return &Directory{Source: src, Target: dst, Depth: 0, Options: opts}
}

// Child builds a job for a subdirectory, inheriting Options and optionally
// forcing Stay so the child skips re-classification.
func (d *Directory) Child(src, dst, stay string) *Directory {
	return &Directory{
		Source:  src,
		Target:  dst,
		Depth:   d.Depth + 1,
		Stay:    stay,
		Options: d.Options,
	}
}
