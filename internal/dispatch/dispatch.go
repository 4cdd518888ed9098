// Package dispatch maps a recognized category to its handler, the single
// point where every concrete handler implementation is wired together.
// Grounded on the Register/Get factory map in
// _examples/walteh-copyrc/pkg/provider/provider.go, adapted from a
// name-keyed registry to a category.Tag-keyed one since devsync's handler
// set is the fixed, closed set from spec.md §4.B rather than a plugin
// surface.
package dispatch

import (
	"github.com/devsync/devsync/internal/category"
	"github.com/devsync/devsync/internal/handler"
	"github.com/devsync/devsync/internal/handler/git"
	"github.com/devsync/devsync/internal/syncopts"
)

// Select returns the handler for tag, constructed fresh for one job.
func Select(tag category.Tag, opts *syncopts.SyncOptions) handler.Handler {
	switch tag {
	case category.Yocto:
		return handler.NewYoctoHandler(opts)
	case category.Sysroot:
		return handler.NewSysrootHandler(opts)
	case category.Cargo, category.CMake, category.Flutter, category.Meson, category.Ninja:
		return handler.NewBuildHandler(tag, opts)
	case category.Svn:
		return handler.NewSvnHandler(opts)
	case category.Git:
		return git.New(opts)
	default:
		return &handler.PlainHandler{}
	}
}
