// Package orchestrator ties every other component together for one run:
// it validates the source/target roots, resolves the layered SyncOptions,
// seeds the root job, drives the scheduler to quiescence, and writes the
// session file and run summary. Grounded on main()'s top-level flow in
// original_source/src/main.rs (root canonicalization, session file
// read-before-parse, stats thread) and Scanner::run in
// original_source/src/scanner/mod.rs.
package orchestrator

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/devsync/devsync/internal/errs"
	"github.com/devsync/devsync/internal/job"
	"github.com/devsync/devsync/internal/progress"
	"github.com/devsync/devsync/internal/scheduler"
	"github.com/devsync/devsync/internal/summary"
	"github.com/devsync/devsync/internal/syncopts"
)

// ExitStatus mirrors spec.md §6's exit code table.
type ExitStatus int

const (
	ExitSuccess    ExitStatus = 0
	ExitFailures   ExitStatus = 1
	ExitValidation ExitStatus = 2
	ExitAborted    ExitStatus = 3
)

// Result is what Run reports back to the CLI layer.
type Result struct {
	Status  ExitStatus
	Counts  progress.Counts
	Options *syncopts.SyncOptions
}

// Run validates source/target, opens the run's log file, resolves the
// effective options, and drives one full backup walk to completion. console
// is where the log sink's colored per-job lines go (normally os.Stdout);
// extraSinks are additional progress.Sink values layered on top of the
// log sink (the UI sink, when enabled).
func Run(ctx context.Context, cli *syncopts.SyncOptions, flagsSet map[string]bool, console io.Writer, extraSinks ...progress.Sink) (Result, error) {
	source, target, err := validateRoots(cli.Source, cli.Target)
	if err != nil {
		return Result{Status: ExitValidation}, err
	}

	logFile, log, err := openRunLog(target, cli.Debug)
	if err != nil {
		return Result{Status: ExitValidation}, err
	}
	defer logFile.Close()

	opts, err := syncopts.Resolve(log, source, target, cli, flagsSet)
	if err != nil {
		return Result{Status: ExitValidation}, errs.New(errs.Config, target, "resolving options", err)
	}

	collector := summary.NewCollector()
	sinks := append([]progress.Sink{progress.NewLogSink(log, console)}, extraSinks...)
	state := progress.New(append(sinks, collector)...)

	s := scheduler.New(opts.Jobs, state)

	watchCtx, stopWatching := context.WithCancel(ctx)
	defer stopWatching()
	go func() {
		<-watchCtx.Done()
		if ctx.Err() != nil {
			s.Stop()
		}
	}()

	counts := s.Run(ctx, job.New(opts.Source, opts.Target, opts))
	if !state.Complete() {
		log.Warn().
			Int("discovered", counts.Discovered).
			Int("done", counts.Done).
			Int("skipped", counts.Skipped).
			Int("failed", counts.Failed).
			Msg("quiescence reached with an inconsistent job count")
	}

	if err := syncopts.WriteSession(opts.Target, opts); err != nil {
		log.Warn().Err(err).Msg("failed to write session file")
	}
	if err := summary.Write(opts.Target, collector.Build(counts)); err != nil {
		log.Warn().Err(err).Msg("failed to write run summary")
	}

	return Result{Status: statusFor(ctx, counts), Counts: counts, Options: opts}, nil
}

// openRunLog creates target/.devsync.log fresh for this run (truncating any
// file left by a previous one) and builds the zerolog logger that writes to
// it. The file writer is always present; a colored console writer joins it
// in debug mode, following pkg/log/log.go's dual zerolog+console pattern
// (SPEC_FULL.md §6).
func openRunLog(target string, debug bool) (*os.File, zerolog.Logger, error) {
	path := filepath.Join(target, syncopts.LogFileName)
	f, err := os.Create(path)
	if err != nil {
		return nil, zerolog.Logger{}, errs.New(errs.Io, path, "creating log file", err)
	}

	var w io.Writer = f
	if debug {
		w = zerolog.MultiLevelWriter(f, zerolog.NewConsoleWriter())
	}

	level := zerolog.InfoLevel
	if envLevel, ok := os.LookupEnv("DEVSYNC_LOG"); ok {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}
	if debug {
		level = zerolog.DebugLevel
	}

	return f, zerolog.New(w).With().Timestamp().Logger().Level(level), nil
}

// validateRoots canonicalizes source and target, requiring source to exist
// and be readable and creating target if it does not yet exist (spec.md §6
// scenario 6: an unreadable source root is a validation failure, not a
// runtime Io failure).
func validateRoots(source, target string) (string, string, error) {
	absSource, err := filepath.Abs(source)
	if err != nil {
		return "", "", errs.New(errs.Config, source, "resolving source path", err)
	}
	info, err := os.Stat(absSource)
	if err != nil {
		return "", "", errs.New(errs.Config, absSource, "source root unreadable", err)
	}
	if !info.IsDir() {
		return "", "", errs.New(errs.Config, absSource, "source root is not a directory", nil)
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", "", errs.New(errs.Config, target, "resolving target path", err)
	}
	if err := os.MkdirAll(absTarget, 0o755); err != nil {
		return "", "", errs.New(errs.Config, absTarget, "creating target root", err)
	}

	return absSource, absTarget, nil
}

// statusFor picks the exit code per spec.md §6: abort wins over failures,
// any failed job wins over a clean (possibly skip-laden) run.
func statusFor(ctx context.Context, counts progress.Counts) ExitStatus {
	if ctx.Err() != nil {
		return ExitAborted
	}
	if counts.Failed > 0 {
		return ExitFailures
	}
	return ExitSuccess
}
