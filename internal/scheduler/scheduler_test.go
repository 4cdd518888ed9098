package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devsync/devsync/internal/job"
	"github.com/devsync/devsync/internal/progress"
	"github.com/devsync/devsync/internal/syncopts"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func runScheduler(t *testing.T, src, dst string, opts *syncopts.SyncOptions) progress.Counts {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s := New(opts.Jobs, progress.New())
	return s.Run(ctx, job.New(src, dst, opts))
}

func TestSchedulerWalksPlainTreeAndCopiesFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "a.txt"), "a")
	writeFile(t, filepath.Join(src, "sub", "b.txt"), "b")

	opts := syncopts.Default()
	opts.Jobs = 2

	counts := runScheduler(t, src, dst, opts)

	if counts.Failed != 0 {
		t.Fatalf("expected no failures, got %d", counts.Failed)
	}
	if counts.Done != counts.Discovered {
		t.Fatalf("expected all %d discovered jobs to finish done, got %d done", counts.Discovered, counts.Done)
	}
	if _, err := os.Stat(filepath.Join(dst, "a.txt")); err != nil {
		t.Fatalf("a.txt not copied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "sub", "b.txt")); err != nil {
		t.Fatalf("sub/b.txt not copied: %v", err)
	}
}

func TestSchedulerDeleteExtraneousRemovesStaleTargetEntries(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "keep.txt"), "keep")
	writeFile(t, filepath.Join(dst, "stale.txt"), "stale")

	opts := syncopts.Default()
	opts.DeleteExtraneous = true

	runScheduler(t, src, dst, opts)

	if _, err := os.Stat(filepath.Join(dst, "stale.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected stale.txt to be removed, err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "keep.txt")); err != nil {
		t.Fatalf("keep.txt missing: %v", err)
	}
}

func TestSchedulerSingleWorkerStillDrainsNestedChildren(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "one", "two", "three.txt"), "deep")

	opts := syncopts.Default()
	opts.Jobs = 1

	counts := runScheduler(t, src, dst, opts)

	if counts.Failed != 0 {
		t.Fatalf("expected no failures, got %d", counts.Failed)
	}
	if _, err := os.Stat(filepath.Join(dst, "one", "two", "three.txt")); err != nil {
		t.Fatalf("deep file not copied: %v", err)
	}
}

func TestSchedulerStopSkipsUnstartedJobs(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "one", "a.txt"), "a")
	writeFile(t, filepath.Join(src, "two", "b.txt"), "b")

	opts := syncopts.Default()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s := New(opts.Jobs, progress.New())
	s.Stop()
	counts := s.Run(ctx, job.New(src, dst, opts))

	if counts.Skipped != counts.Discovered {
		t.Fatalf("expected every job skipped after Stop, got %d/%d skipped", counts.Skipped, counts.Discovered)
	}
}

// TestSubmitChildrenAbortKeepsQuiescenceInvariant exercises the mid-run
// abort path directly: children handed to submitChildren after Stop has
// already been requested must still be counted as discovered, not just
// skipped, or discovered == done+skipped+failed breaks at quiescence
// (spec.md §8).
func TestSubmitChildrenAbortKeepsQuiescenceInvariant(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	opts := syncopts.Default()

	state := progress.New()
	s := New(opts.Jobs, state)
	s.Stop()

	children := []*job.Directory{
		job.New(filepath.Join(src, "one"), filepath.Join(dst, "one"), opts),
		job.New(filepath.Join(src, "two"), filepath.Join(dst, "two"), opts),
	}
	s.submitChildren(context.Background(), children)
	s.wg.Wait()

	counts := state.Snapshot()
	if counts.Discovered != len(children) {
		t.Fatalf("expected %d discovered, got %d", len(children), counts.Discovered)
	}
	if counts.Discovered != counts.Done+counts.Skipped+counts.Failed {
		t.Fatalf("quiescence invariant violated: %+v", counts)
	}
}
