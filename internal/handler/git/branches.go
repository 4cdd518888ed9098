package git

import (
	"context"

	"gitlab.com/tozd/go/errors"
)

// listBranches returns every local branch's short name.
func listBranches(ctx context.Context, dir string) ([]string, error) {
	lines, err := runLines(ctx, dir, "for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, errors.Errorf("listing branches: %w", err)
	}
	return lines, nil
}

// isDivergent reports whether branch is divergent per spec.md §4.E.4: it
// has no configured upstream, or its tip is not an ancestor of the
// upstream's tip (i.e. it carries commits the upstream does not have).
func isDivergent(ctx context.Context, dir, branch string) bool {
	upstream, err := run(ctx, dir, "rev-parse", "--abbrev-ref", branch+"@{upstream}")
	if err != nil || upstream == "" {
		return true
	}
	return !succeeds(ctx, dir, "merge-base", "--is-ancestor", branch, upstream)
}

// anyBranchDivergent reports whether at least one local branch diverges,
// the trigger for producing a bare clone (spec.md §4.E.4).
func anyBranchDivergent(ctx context.Context, dir string) (bool, error) {
	branches, err := listBranches(ctx, dir)
	if err != nil {
		return false, err
	}
	for _, b := range branches {
		if isDivergent(ctx, dir, b) {
			return true, nil
		}
	}
	return false, nil
}
