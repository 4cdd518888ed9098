package syncopts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestResolvePrecedenceCliOverSessionOverProject(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(source, ProjectFileName), []byte(`
jobs = 2
delete_extraneous = true
`), 0o644))

	sessionOpts := Default()
	sessionOpts.Jobs = 5
	sessionOpts.PreserveAttrs = true
	require.NoError(t, WriteSession(target, sessionOpts))

	cli := Default()
	cli.Jobs = 9
	flagsSet := map[string]bool{"jobs": true}

	effective, err := Resolve(zerolog.Nop(), source, target, cli, flagsSet)
	require.NoError(t, err)

	require.Equal(t, 9, effective.Jobs, "cli flag must win over session and project file")
	require.True(t, effective.PreserveAttrs, "session value should win when cli did not set it")
	require.True(t, effective.DeleteExtraneous, "project file value should apply when neither cli nor session set it")
	require.Equal(t, source, effective.Source)
	require.Equal(t, target, effective.Target)
}
