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

func TestYoctoHandlerSkipsDownloadsAndBuildByDefault(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "target")
	writeFile(t, filepath.Join(source, "bitbake", "x"), "x")
	writeFile(t, filepath.Join(source, "scripts", "x"), "x")
	writeFile(t, filepath.Join(source, "meta-foo", "x"), "x")
	writeFile(t, filepath.Join(source, "downloads", "pkg.tar.gz"), "x")
	writeFile(t, filepath.Join(source, "build", "out.o"), "x")
	writeFile(t, filepath.Join(source, "recipe", "meson-info", "info.json"), "x")

	opts := syncopts.Default()
	j := job.New(source, target, opts)
	h := NewYoctoHandler(opts)

	require.Equal(t, Done, h.Prepare(context.Background(), j).Status)
	outcome, children := h.Process(context.Background(), j)
	require.Equal(t, Done, outcome.Status)

	require.NoDirExists(t, filepath.Join(target, "downloads"))
	require.NoDirExists(t, filepath.Join(target, "build"))

	var sawRecipe bool
	for _, c := range children {
		if c.Source == filepath.Join(source, "recipe") {
			sawRecipe = true
			require.Equal(t, category.Plain.String(), c.Stay, "yocto children must not be re-classified")
		}
	}
	require.True(t, sawRecipe)
}

func TestYoctoHandlerIncludesDownloadsAndBuildWhenEnabled(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "target")
	writeFile(t, filepath.Join(source, "bitbake", "x"), "x")
	writeFile(t, filepath.Join(source, "scripts", "x"), "x")
	writeFile(t, filepath.Join(source, "meta-foo", "x"), "x")
	writeFile(t, filepath.Join(source, "downloads", "pkg.tar.gz"), "x")
	writeFile(t, filepath.Join(source, "sstate-cache", "out.o"), "x")

	opts := syncopts.Default()
	opts.YoctoDownloads = true
	opts.YoctoBuild = true
	j := job.New(source, target, opts)
	h := NewYoctoHandler(opts)

	require.Equal(t, Done, h.Prepare(context.Background(), j).Status)
	outcome, children := h.Process(context.Background(), j)
	require.Equal(t, Done, outcome.Status)
	require.Len(t, children, 5)
}

func TestYoctoHandlerIgnoreSkipsEntireTree(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "target")

	opts := syncopts.Default()
	opts.YoctoIgnore = true
	j := job.New(source, target, opts)
	h := NewYoctoHandler(opts)

	outcome := h.Prepare(context.Background(), j)
	require.Equal(t, Skipped, outcome.Status)
	require.NoDirExists(t, target)
}

func TestSysrootHandlerSkippedByDefault(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "target")

	opts := syncopts.Default()
	j := job.New(source, target, opts)
	h := NewSysrootHandler(opts)

	outcome := h.Prepare(context.Background(), j)
	require.Equal(t, Skipped, outcome.Status)
}

func TestSysrootHandlerChildrenNotReclassifiedWhenEnabled(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "target")
	writeFile(t, filepath.Join(source, "dev", "x"), "x")
	writeFile(t, filepath.Join(source, "usr", "x"), "x")
	writeFile(t, filepath.Join(source, "var", "x"), "x")
	writeFile(t, filepath.Join(source, "bin", "x"), "x")

	opts := syncopts.Default()
	opts.SysrootSync = true
	j := job.New(source, target, opts)
	h := NewSysrootHandler(opts)

	require.Equal(t, Done, h.Prepare(context.Background(), j).Status)
	outcome, children := h.Process(context.Background(), j)
	require.Equal(t, Done, outcome.Status)
	for _, c := range children {
		require.Equal(t, category.Plain.String(), c.Stay)
	}
}
