package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devsync/devsync/internal/handler"
	"github.com/devsync/devsync/internal/job"
	"github.com/devsync/devsync/internal/syncopts"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func runGitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@test.com")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func initRepoWithUpstream(t *testing.T) (local, upstream string) {
	t.Helper()
	upstream = t.TempDir()
	runGitCmd(t, upstream, "init", "--bare", "-b", "main")

	local = t.TempDir()
	runGitCmd(t, local, "init", "-b", "main")
	require.NoError(t, os.WriteFile(filepath.Join(local, "tracked.txt"), []byte("hello\n"), 0o644))
	runGitCmd(t, local, "add", ".")
	runGitCmd(t, local, "commit", "-m", "initial")
	runGitCmd(t, local, "remote", "add", "origin", upstream)
	runGitCmd(t, local, "push", "origin", "main")
	runGitCmd(t, local, "branch", "--set-upstream-to=origin/main", "main")
	return local, upstream
}

func TestGitHandlerCleanRepoProducesNoArtifacts(t *testing.T) {
	requireGit(t)
	source, _ := initRepoWithUpstream(t)
	target := filepath.Join(t.TempDir(), "target")

	opts := syncopts.Default()
	j := job.New(source, target, opts)
	h := New(opts)

	outcome := h.Prepare(context.Background(), j)
	require.Equal(t, handler.Done, outcome.Status)

	outcome, children := h.Process(context.Background(), j)
	require.Equal(t, handler.Done, outcome.Status)
	require.Nil(t, children)

	outcome = h.Finish(context.Background(), j, outcome)
	require.Equal(t, handler.Done, outcome.Status)

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	require.Empty(t, entries, "clean repo with upstream should produce no artifacts")
}

func TestGitHandlerUnpushedBranchProducesBareClone(t *testing.T) {
	requireGit(t)
	source, _ := initRepoWithUpstream(t)
	runGitCmd(t, source, "checkout", "-b", "feature")
	require.NoError(t, os.WriteFile(filepath.Join(source, "feature.txt"), []byte("wip\n"), 0o644))
	runGitCmd(t, source, "add", ".")
	runGitCmd(t, source, "commit", "-m", "feature work")

	target := filepath.Join(t.TempDir(), "target")
	opts := syncopts.Default()
	j := job.New(source, target, opts)
	h := New(opts)

	require.Equal(t, handler.Done, h.Prepare(context.Background(), j).Status)
	outcome, _ := h.Process(context.Background(), j)
	require.Equal(t, handler.Done, outcome.Status)

	require.DirExists(t, filepath.Join(target, "repo"))
}

func TestGitHandlerUntrackedAndUnstaged(t *testing.T) {
	requireGit(t)
	source, _ := initRepoWithUpstream(t)
	require.NoError(t, os.WriteFile(filepath.Join(source, "tracked.txt"), []byte("changed\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(source, "new.txt"), []byte("new\n"), 0o644))

	target := filepath.Join(t.TempDir(), "target")
	opts := syncopts.Default()
	j := job.New(source, target, opts)
	h := New(opts)

	require.Equal(t, handler.Done, h.Prepare(context.Background(), j).Status)
	outcome, _ := h.Process(context.Background(), j)
	require.Equal(t, handler.Done, outcome.Status)

	require.FileExists(t, filepath.Join(target, "untracked", "new.txt"))
	require.FileExists(t, filepath.Join(target, "unstaged", "tracked.txt.diff"))
}

func TestGitHandlerIgnoreSkips(t *testing.T) {
	source, _ := initRepoWithUpstream(t)
	target := filepath.Join(t.TempDir(), "target")

	opts := syncopts.Default()
	opts.GitIgnore = true
	j := job.New(source, target, opts)
	h := New(opts)

	outcome := h.Prepare(context.Background(), j)
	require.Equal(t, handler.Skipped, outcome.Status)
}

func TestGitHandlerUnconditionalWipeIgnoresDeleteExtraneousFlag(t *testing.T) {
	requireGit(t)
	source, _ := initRepoWithUpstream(t)
	target := filepath.Join(t.TempDir(), "target")
	require.NoError(t, os.MkdirAll(target, 0o755))
	stale := filepath.Join(target, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	opts := syncopts.Default()
	opts.DeleteExtraneous = false // wipe must happen regardless
	j := job.New(source, target, opts)
	h := New(opts)

	require.Equal(t, handler.Done, h.Prepare(context.Background(), j).Status)
	require.NoFileExists(t, stale)
}
