package syncopts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadProjectFileMissingIsNotError(t *testing.T) {
	dir := t.TempDir()
	o := Default()
	existed, err := LoadProjectFile(dir, o)
	require.NoError(t, err)
	require.False(t, existed)
}

func TestLoadProjectFileAppliesBlocks(t *testing.T) {
	dir := t.TempDir()
	hcl := `
delete_extraneous = true
jobs              = 6
ignore_names      = [".cache", "node_modules"]

yocto {
  ignore    = true
  downloads = false
}

git {
  ignore_unpushed = true
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(hcl), 0o644))

	o := Default()
	existed, err := LoadProjectFile(dir, o)
	require.NoError(t, err)
	require.True(t, existed)

	require.True(t, o.DeleteExtraneous)
	require.Equal(t, 6, o.Jobs)
	require.Equal(t, []string{".cache", "node_modules"}, o.IgnoreNames)
	require.True(t, o.YoctoIgnore)
	require.False(t, o.YoctoDownloads)
	require.True(t, o.GitIgnoreUnpushed)
	require.False(t, o.GitIgnore)
}
