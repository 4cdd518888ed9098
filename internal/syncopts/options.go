// Package syncopts holds SyncOptions (spec.md §3) and the three layers that
// produce it: CLI flags, the .devsync.session file, and the optional
// .devsync.hcl project defaults file. Precedence is CLI > session >
// project defaults > built-in defaults (SPEC_FULL.md §3).
package syncopts

// DefaultJobs is the default worker pool size, per spec.md §3.
const DefaultJobs = 10

// SessionFileName is the session file written/read at the target root.
const SessionFileName = ".devsync.session"

// LogFileName is the log file written at the target root.
const LogFileName = ".devsync.log"

// SummaryFileName is the run summary written at the target root.
const SummaryFileName = ".devsync.summary.yaml"

// ProjectFileName is the optional project defaults file at the source root.
const ProjectFileName = ".devsync.hcl"

// SyncOptions is the fixed, recognized configuration set from spec.md §3.
// It is immutable once a run starts.
type SyncOptions struct {
	Source  string
	Target  string

	DeleteExtraneous bool
	PreserveAttrs    bool
	OwnedOnly        bool
	IgnoreNames      []string
	Jobs             int

	YoctoIgnore    bool
	YoctoDownloads bool
	YoctoBuild     bool

	SysrootSync bool

	CargoSync   bool
	CMakeSync   bool
	FlutterSync bool
	MesonSync   bool
	NinjaSync   bool

	SvnIgnore bool
	SvnFull   bool

	GitIgnore          bool
	GitFull            bool
	GitIgnoreStashes   bool
	GitIgnoreUnstaged  bool
	GitIgnoreUntracked bool
	GitIgnoreUnpushed  bool

	UI    bool
	Debug bool
}

// Default returns the built-in defaults, per spec.md §3 (jobs defaults to
// DefaultJobs; every *_sync/*_ignore toggle defaults to its spec-mandated
// off/on state).
func Default() *SyncOptions {
	return &SyncOptions{
		Jobs: DefaultJobs,
	}
}

// Clone returns a deep-enough copy for tests/merging (IgnoreNames is
// re-sliced so callers cannot alias the original).
func (o *SyncOptions) Clone() *SyncOptions {
	c := *o
	c.IgnoreNames = append([]string(nil), o.IgnoreNames...)
	return &c
}
