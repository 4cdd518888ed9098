package handler

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devsync/devsync/internal/category"
	"github.com/devsync/devsync/internal/job"
	"github.com/devsync/devsync/internal/syncopts"
)

func TestBuildHandlerSkipsByDefault(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "target")
	writeFile(t, filepath.Join(source, "CMakeCache.txt"), "x")

	opts := syncopts.Default()
	j := job.New(source, target, opts)
	h := NewBuildHandler(category.CMake, opts)

	outcome := h.Prepare(context.Background(), j)
	require.Equal(t, Skipped, outcome.Status)
	require.NoDirExists(t, target)
}

func TestBuildHandlerCopiesWhenEnabled(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "target")
	writeFile(t, filepath.Join(source, "CMakeCache.txt"), "x")

	opts := syncopts.Default()
	opts.CMakeSync = true
	j := job.New(source, target, opts)
	h := NewBuildHandler(category.CMake, opts)

	require.Equal(t, Done, h.Prepare(context.Background(), j).Status)
	outcome, _ := h.Process(context.Background(), j)
	require.Equal(t, Done, outcome.Status)
	require.FileExists(t, filepath.Join(target, "CMakeCache.txt"))
}

func TestBuildHandlerSkipRemovesStaleTargetWhenDeleteExtraneous(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "target")
	writeFile(t, filepath.Join(target, "stale.txt"), "stale")

	opts := syncopts.Default()
	opts.DeleteExtraneous = true
	j := job.New(source, target, opts)
	h := NewBuildHandler(category.Ninja, opts)

	outcome := h.Prepare(context.Background(), j)
	require.Equal(t, Skipped, outcome.Status)
	outcome = h.Finish(context.Background(), j, outcome)
	require.Equal(t, Skipped, outcome.Status)
	require.NoDirExists(t, target)
}
