package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/devsync/devsync/internal/orchestrator"
	"github.com/devsync/devsync/internal/progress"
	"github.com/devsync/devsync/internal/syncopts"
)

// cli mirrors syncopts.SyncOptions, one field per flag, built up by cobra
// before being handed to orchestrator.Run. Grounded on
// _examples/walteh-copyrc/cmd/copyrc/root.go's addRootFlags, generalized
// from that tool's single config-file flag to every SyncOptions toggle,
// following the single-command (no subcommands) cobra tree in
// _examples/bianoble-agent-sync/cmd/agent-sync/cmd/root.go.
var cli = syncopts.Default()

var ignoreNamesCSV string

var ui bool

// flagKeys maps each cobra long flag name to the key syncopts.Resolve
// expects in flagsSet, so "what did the user actually pass on the command
// line" survives the name-mangling between flag and session-file syntax.
var flagKeys = map[string]string{
	"delete-extraneous":    "delete_extraneous",
	"preserve-attrs":       "preserve_attrs",
	"owned-only":           "owned_only",
	"ignore-names":         "ignore_names",
	"jobs":                 "jobs",
	"yocto-ignore":         "yocto_ignore",
	"yocto-downloads":      "yocto_downloads",
	"yocto-build":          "yocto_build",
	"sysroot-sync":         "sysroot_sync",
	"cargo-sync":           "cargo_sync",
	"cmake-sync":           "cmake_sync",
	"flutter-sync":         "flutter_sync",
	"meson-sync":           "meson_sync",
	"ninja-sync":           "ninja_sync",
	"svn-ignore":           "svn_ignore",
	"svn-full":             "svn_full",
	"git-ignore":           "git_ignore",
	"git-full":             "git_full",
	"git-ignore-stashes":   "git_ignore_stashes",
	"git-ignore-unstaged":  "git_ignore_unstaged",
	"git-ignore-untracked": "git_ignore_untracked",
	"git-ignore-unpushed":  "git_ignore_unpushed",
	"ui":                   "ui",
	"debug":                "debug",
}

var rootCmd = &cobra.Command{
	Use:   "devsync -s <source> -t <target>",
	Short: "Back up a developer working directory by category",
	Long: `devsync walks a source tree, classifies each directory (Yocto, Sysroot,
a build-system cache, Subversion, Git, or plain files), and applies a
category-specific backup strategy into a mirrored target tree.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSync,
}

func init() {
	flags := rootCmd.Flags()

	flags.StringVarP(&cli.Source, "source", "s", "", "source directory to back up (required)")
	flags.StringVarP(&cli.Target, "target", "t", "", "target directory to mirror into (required)")

	flags.BoolVarP(&cli.DeleteExtraneous, "delete-extraneous", "d", false, "delete target content with no corresponding source")
	flags.BoolVarP(&cli.PreserveAttrs, "preserve-attrs", "a", false, "preserve timestamps and permissions on copy (archive mode)")
	flags.BoolVar(&cli.OwnedOnly, "owned-only", false, "only copy files owned by the current user")
	flags.StringVar(&ignoreNamesCSV, "ignore-names", "", "comma-separated list of file/directory names or glob patterns to skip")
	flags.IntVarP(&cli.Jobs, "jobs", "j", syncopts.DefaultJobs, "number of worker goroutines")

	flags.BoolVar(&cli.YoctoIgnore, "yocto-ignore", false, "skip Yocto build trees entirely")
	flags.BoolVar(&cli.YoctoDownloads, "yocto-downloads", false, "include a Yocto tree's downloads/ cache")
	flags.BoolVar(&cli.YoctoBuild, "yocto-build", false, "include a Yocto tree's build/sstate-cache/buildhistory directories")

	flags.BoolVar(&cli.SysrootSync, "sysroot-sync", false, "sync sysroot trees instead of skipping them")

	flags.BoolVar(&cli.CargoSync, "cargo-sync", false, "sync Cargo build caches instead of skipping them")
	flags.BoolVar(&cli.CMakeSync, "cmake-sync", false, "sync CMake build trees instead of skipping them")
	flags.BoolVar(&cli.FlutterSync, "flutter-sync", false, "sync Flutter build caches instead of skipping them")
	flags.BoolVar(&cli.MesonSync, "meson-sync", false, "sync Meson build trees instead of skipping them")
	flags.BoolVar(&cli.NinjaSync, "ninja-sync", false, "sync Ninja build trees instead of skipping them")

	flags.BoolVar(&cli.SvnIgnore, "svn-ignore", false, "skip Subversion working copies entirely")
	flags.BoolVar(&cli.SvnFull, "svn-full", false, "copy a Subversion working copy in full instead of a status-only snapshot")

	flags.BoolVar(&cli.GitIgnore, "git-ignore", false, "skip Git repositories entirely")
	flags.BoolVar(&cli.GitFull, "git-full", false, "copy a Git worktree in full instead of a snapshot of its loose state")
	flags.BoolVar(&cli.GitIgnoreStashes, "git-ignore-stashes", false, "omit stash backups from a Git snapshot")
	flags.BoolVar(&cli.GitIgnoreUnstaged, "git-ignore-unstaged", false, "omit unstaged diffs from a Git snapshot")
	flags.BoolVar(&cli.GitIgnoreUntracked, "git-ignore-untracked", false, "omit untracked files from a Git snapshot")
	flags.BoolVar(&cli.GitIgnoreUnpushed, "git-ignore-unpushed", false, "omit bare clones of unpushed/divergent branches from a Git snapshot")

	flags.BoolVar(&ui, "ui", false, "render a live terminal progress view instead of plain log lines")
	flags.BoolVar(&cli.Debug, "debug", false, "enable debug-level logging")

	_ = rootCmd.MarkFlagRequired("source")
	_ = rootCmd.MarkFlagRequired("target")
}

func runSync(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("ignore-names") {
		if ignoreNamesCSV == "" {
			cli.IgnoreNames = nil
		} else {
			cli.IgnoreNames = strings.Split(ignoreNamesCSV, ",")
		}
	}
	cli.UI = ui

	flagsSet := make(map[string]bool, len(flagKeys))
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			flagsSet[key] = true
		}
	})

	var sinks []progress.Sink
	if ui && isTerminal(os.Stdout) {
		sinks = append(sinks, progress.NewUISink())
	}

	result, err := orchestrator.Run(context.Background(), cli, flagsSet, os.Stdout, sinks...)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("devsync: "+err.Error()))
		os.Exit(int(result.Status))
	}

	printSummaryLine(os.Stdout, result)
	os.Exit(int(result.Status))
	return nil
}

func printSummaryLine(w io.Writer, result orchestrator.Result) {
	c := result.Counts
	line := fmt.Sprintf("discovered=%d done=%d skipped=%d failed=%d", c.Discovered, c.Done, c.Skipped, c.Failed)
	if c.Failed > 0 {
		fmt.Fprintln(w, color.New(color.FgRed).Sprint(line))
		return
	}
	fmt.Fprintln(w, color.New(color.FgGreen).Sprint(line))
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
