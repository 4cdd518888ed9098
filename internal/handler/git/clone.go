package git

import (
	"context"
	"os/exec"

	"gitlab.com/tozd/go/errors"
)

// cloneBare produces a full bare clone of src into dst so all local
// history (including unpushed commits on divergent branches) is
// preserved, per spec.md §4.E.4.
func cloneBare(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, "git", "clone", "--bare", src, dst)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Errorf("git clone --bare %s %s: %w: %s", src, dst, err, string(out))
	}
	return nil
}
