package syncopts

import "github.com/rs/zerolog"

// Resolve builds the effective options for a run: built-in defaults, then
// the project defaults file at source root, then the session file at
// target root, then cliOverrides (SPEC_FULL.md §3: "CLI flags > session
// file > project defaults > built-in defaults"). Only the fields of cli
// whose session-file key (e.g. "jobs", "delete_extraneous") is true in
// flagsSet are applied, so zero-value flags (e.g. --jobs=0, which is invalid
// anyway) don't mask a lower layer's non-zero setting.
func Resolve(log zerolog.Logger, source, target string, cli *SyncOptions, flagsSet map[string]bool) (*SyncOptions, error) {
	effective := Default()

	if _, err := LoadProjectFile(source, effective); err != nil {
		return nil, err
	}
	if _, err := LoadSession(log, target, effective); err != nil {
		return nil, err
	}

	applyFlags(effective, cli, flagsSet)
	effective.Source = source
	effective.Target = target
	return effective, nil
}

// applyFlags copies every flag the user actually set on the CLI from cli
// onto effective, leaving unset flags at whatever the lower layers decided.
func applyFlags(effective, cli *SyncOptions, flagsSet map[string]bool) {
	if flagsSet["ignore_names"] {
		effective.IgnoreNames = cli.IgnoreNames
	}
	if flagsSet["jobs"] {
		effective.Jobs = cli.Jobs
	}
	if flagsSet["ui"] {
		effective.UI = cli.UI
	}
	if flagsSet["debug"] {
		effective.Debug = cli.Debug
	}

	for key, getter := range boolSessionKeys {
		if flagsSet[key] {
			*getter(effective) = *getter(cli)
		}
	}
}
