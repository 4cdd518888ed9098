package syncopts

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// boolSessionKeys maps SyncOptions' boolean fields to the key names used in
// .devsync.session, per spec.md §6 ("key=value, one option per line, list
// values comma-separated; unknown keys are ignored with a warning").
var boolSessionKeys = map[string]func(*SyncOptions) *bool{
	"delete_extraneous":    func(o *SyncOptions) *bool { return &o.DeleteExtraneous },
	"preserve_attrs":       func(o *SyncOptions) *bool { return &o.PreserveAttrs },
	"owned_only":           func(o *SyncOptions) *bool { return &o.OwnedOnly },
	"yocto_ignore":         func(o *SyncOptions) *bool { return &o.YoctoIgnore },
	"yocto_downloads":      func(o *SyncOptions) *bool { return &o.YoctoDownloads },
	"yocto_build":          func(o *SyncOptions) *bool { return &o.YoctoBuild },
	"sysroot_sync":         func(o *SyncOptions) *bool { return &o.SysrootSync },
	"cargo_sync":           func(o *SyncOptions) *bool { return &o.CargoSync },
	"cmake_sync":           func(o *SyncOptions) *bool { return &o.CMakeSync },
	"flutter_sync":         func(o *SyncOptions) *bool { return &o.FlutterSync },
	"meson_sync":           func(o *SyncOptions) *bool { return &o.MesonSync },
	"ninja_sync":           func(o *SyncOptions) *bool { return &o.NinjaSync },
	"svn_ignore":           func(o *SyncOptions) *bool { return &o.SvnIgnore },
	"svn_full":             func(o *SyncOptions) *bool { return &o.SvnFull },
	"git_ignore":           func(o *SyncOptions) *bool { return &o.GitIgnore },
	"git_full":             func(o *SyncOptions) *bool { return &o.GitFull },
	"git_ignore_stashes":   func(o *SyncOptions) *bool { return &o.GitIgnoreStashes },
	"git_ignore_unstaged":  func(o *SyncOptions) *bool { return &o.GitIgnoreUnstaged },
	"git_ignore_untracked": func(o *SyncOptions) *bool { return &o.GitIgnoreUntracked },
	"git_ignore_unpushed":  func(o *SyncOptions) *bool { return &o.GitIgnoreUnpushed },
}

// orderedBoolKeys fixes the write order so round-trips are diff-stable.
var orderedBoolKeys = []string{
	"delete_extraneous", "preserve_attrs", "owned_only",
	"yocto_ignore", "yocto_downloads", "yocto_build",
	"sysroot_sync",
	"cargo_sync", "cmake_sync", "flutter_sync", "meson_sync", "ninja_sync",
	"svn_ignore", "svn_full",
	"git_ignore", "git_full", "git_ignore_stashes", "git_ignore_unstaged",
	"git_ignore_untracked", "git_ignore_unpushed",
}

// WriteSession writes the effective options to dir/.devsync.session in the
// key=value grammar of spec.md §6. Every boolean option is written, whether
// or not it differs from its default, so a loaded session sets all of them.
func WriteSession(dir string, o *SyncOptions) error {
	path := filepath.Join(dir, SessionFileName)
	var b strings.Builder

	fmt.Fprintf(&b, "source=%s\n", o.Source)
	fmt.Fprintf(&b, "target=%s\n", o.Target)
	fmt.Fprintf(&b, "jobs=%d\n", o.Jobs)
	if len(o.IgnoreNames) > 0 {
		fmt.Fprintf(&b, "ignore_names=%s\n", strings.Join(o.IgnoreNames, ","))
	}
	for _, k := range orderedBoolKeys {
		fmt.Fprintf(&b, "%s=%t\n", k, *boolSessionKeys[k](o))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.Errorf("writing session file %s: %w", path, err)
	}
	return nil
}

// LoadSession reads dir/.devsync.session into base, applying each known key
// as an override and logging a warning for unrecognized keys (spec.md §6).
// It reports whether the file existed at all.
func LoadSession(ctx zerolog.Logger, dir string, base *SyncOptions) (bool, error) {
	path := filepath.Join(dir, SessionFileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Errorf("opening session file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			ctx.Warn().Str("line", line).Msg("malformed session line, ignored")
			continue
		}
		applySessionKey(ctx, base, key, value)
	}
	if err := scanner.Err(); err != nil {
		return true, errors.Errorf("reading session file %s: %w", path, err)
	}
	return true, nil
}

func applySessionKey(ctx zerolog.Logger, o *SyncOptions, key, value string) {
	switch key {
	case "source":
		o.Source = value
		return
	case "target":
		o.Target = value
		return
	case "jobs":
		n, err := strconv.Atoi(value)
		if err != nil {
			ctx.Warn().Str("key", key).Str("value", value).Msg("invalid jobs value in session file, ignored")
			return
		}
		o.Jobs = n
		return
	case "ignore_names":
		if value == "" {
			o.IgnoreNames = nil
		} else {
			o.IgnoreNames = strings.Split(value, ",")
		}
		return
	}

	if getter, ok := boolSessionKeys[key]; ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			ctx.Warn().Str("key", key).Str("value", value).Msg("invalid boolean in session file, ignored")
			return
		}
		*getter(o) = b
		return
	}

	ctx.Warn().Str("key", key).Msg("unknown session file key, ignored")
}
