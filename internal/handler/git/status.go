package git

import (
	"context"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"

	"github.com/devsync/devsync/internal/fsutil"
)

// listUntracked returns every untracked, non-ignored file's path relative
// to dir, honoring the repo's own .gitignore (spec.md §4.E.2).
func listUntracked(ctx context.Context, dir string) ([]string, error) {
	lines, err := runLines(ctx, dir, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, errors.Errorf("listing untracked files: %w", err)
	}
	return lines, nil
}

// writeUntracked copies every untracked file into targetDir, applying the
// caller's own ignore_names on top of the repo's .gitignore and preserving
// relative paths.
func writeUntracked(dir, targetDir string, relPaths []string, ignoreNames []string) error {
	for _, rel := range relPaths {
		if fsutil.MatchesIgnore(filepath.Base(rel), rel, ignoreNames) {
			continue
		}
		src := filepath.Join(dir, rel)
		dst := filepath.Join(targetDir, rel)
		if err := fsutil.EnsureDir(filepath.Dir(dst), ""); err != nil {
			return err
		}
		if err := fsutil.CopyFile(src, dst, false); err != nil {
			return errors.Errorf("copying untracked file %s: %w", src, err)
		}
	}
	return nil
}

// listUnstagedPaths returns tracked files with worktree or index
// modifications relative to HEAD (spec.md §4.E.3 covers both staged and
// unstaged changes in the same diff stream).
func listUnstagedPaths(ctx context.Context, dir string) ([]string, error) {
	lines, err := runLines(ctx, dir, "diff", "--name-only", "HEAD")
	if err != nil {
		return nil, errors.Errorf("listing modified files: %w", err)
	}
	return lines, nil
}

// writeUnstagedDiffs writes one unified diff per modified path, including
// deletions and renames in the same stream per spec.md §4.E.3.
func writeUnstagedDiffs(ctx context.Context, dir, targetDir string, relPaths []string) error {
	for _, rel := range relPaths {
		diff, err := run(ctx, dir, "diff", "HEAD", "--", rel)
		if err != nil {
			return errors.Errorf("diffing %s: %w", rel, err)
		}
		dst := filepath.Join(targetDir, rel+".diff")
		if err := fsutil.EnsureDir(filepath.Dir(dst), ""); err != nil {
			return err
		}
		if err := os.WriteFile(dst, []byte(diff+"\n"), 0o644); err != nil {
			return errors.Errorf("writing %s: %w", dst, err)
		}
	}
	return nil
}
