// Package git implements the Git backup strategy: stash extraction,
// untracked/unstaged snapshots, and bare-clone-on-divergence. Grounded on
// original_source/src/dir/git.rs for semantics and on the os/exec
// shell-client idiom in
// _examples/schaermu-quadsyncd/internal/git/git.go (ShellClient.EnsureCheckout)
// and _examples/bianoble-agent-sync/internal/source/git.go for the
// exec.CommandContext("git", "-C", dir, ...) + CombinedOutput wiring — no
// cgo git binding is used, per the library-binding note this spec carries
// forward from the original's design notes.
package git

import (
	"context"
	"os/exec"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// run executes `git -C dir <args...>` and returns trimmed stdout+stderr.
func run(ctx context.Context, dir string, args ...string) (string, error) {
	full := append([]string{"-C", dir}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", errors.Errorf("git %s: %w: %s", strings.Join(args, " "), err, string(out))
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// runLines runs a git command and splits its output into non-empty lines.
func runLines(ctx context.Context, dir string, args ...string) ([]string, error) {
	out, err := run(ctx, dir, args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// succeeds runs a git command and reports only whether it exited zero,
// swallowing its output — used for the merge-base --is-ancestor probes
// where the exit code itself is the answer.
func succeeds(ctx context.Context, dir string, args ...string) bool {
	full := append([]string{"-C", dir}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	return cmd.Run() == nil
}
