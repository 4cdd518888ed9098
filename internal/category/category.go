// Package category implements the fixed, ordered category registry
// described in spec.md §4.B: a tagged variant with one recognition
// predicate per category, Special before Build before Repo before Plain,
// Plain's predicate always matching. Grounded on the Category enum and
// per-flavour probe() rules in original_source/src/dir/mod.rs and
// original_source/src/dir/{yocto,sysroot,cargo,cmake,flutter,meson,ninja,
// git,svn}.rs.
package category

import (
	"os"
	"strings"
)

// Tag names a category. The numeric order matches spec.md §3's
// Special/Build/Repo/Plain grouping and doubles as the registry's
// recognition order.
type Tag int

const (
	Yocto Tag = iota
	Sysroot
	Cargo
	CMake
	Flutter
	Meson
	Ninja
	Svn
	Git
	Plain
)

func (t Tag) String() string {
	switch t {
	case Yocto:
		return "Yocto"
	case Sysroot:
		return "Sysroot"
	case Cargo:
		return "Cargo"
	case CMake:
		return "CMake"
	case Flutter:
		return "Flutter"
	case Meson:
		return "Meson"
	case Ninja:
		return "Ninja"
	case Svn:
		return "Subversion"
	case Git:
		return "Git"
	default:
		return "Plain"
	}
}

// ParseTag reverses String(), used to resolve a DirectoryJob's forced Stay
// value back into a Tag without re-probing the directory.
func ParseTag(name string) (Tag, bool) {
	for _, t := range []Tag{Yocto, Sysroot, Cargo, CMake, Flutter, Meson, Ninja, Svn, Git, Plain} {
		if t.String() == name {
			return t, true
		}
	}
	return Plain, false
}

// Group is the coarse classification used by spec.md's testable property
// "no ancestor classified as Yocto, Sysroot, or Git-non-full exists".
type Group int

const (
	GroupSpecial Group = iota
	GroupBuild
	GroupRepo
	GroupPlain
)

// Group returns the coarse grouping for a tag.
func (t Tag) Group() Group {
	switch t {
	case Yocto, Sysroot:
		return GroupSpecial
	case Cargo, CMake, Flutter, Meson, Ninja:
		return GroupBuild
	case Svn, Git:
		return GroupRepo
	default:
		return GroupPlain
	}
}

func (g Group) String() string {
	switch g {
	case GroupSpecial:
		return "Special"
	case GroupBuild:
		return "Build"
	case GroupRepo:
		return "Repo"
	default:
		return "Plain"
	}
}

// Terminal reports whether a category's handler does not re-classify its
// children by default (spec.md §4.D/§4.E). Svn reports false, but the
// Subversion handler does not consult it: it re-classifies children only
// under svn_full, and its default mode schedules no child jobs. Git is
// terminal unless running in full mode, which the Git handler checks
// itself since it depends on options.
func (t Tag) Terminal() bool {
	switch t {
	case Yocto, Sysroot, Git:
		return true
	default:
		return false
	}
}

// Entries is the minimal directory listing classify() needs: spec.md §4.B
// requires recognition to read only immediate entry names, never recurse
// or read file contents.
type Entries struct {
	Names   map[string]bool
	Entries []os.DirEntry
}

// NewEntries builds an Entries view from a raw directory listing.
func NewEntries(list []os.DirEntry) Entries {
	names := make(map[string]bool, len(list))
	for _, e := range list {
		names[e.Name()] = true
	}
	return Entries{Names: names, Entries: list}
}

func (e Entries) hasPrefix(prefix string) bool {
	for name := range e.Names {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (e Entries) hasSuffix(suffix string) bool {
	for name := range e.Names {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// recognizers is the fixed, ordered list from spec.md §4.B. The first
// matching predicate wins; Plain always matches and is listed last.
var recognizers = []struct {
	tag     Tag
	matches func(Entries) bool
}{
	{Yocto, func(e Entries) bool {
		return e.Names["bitbake"] && e.Names["scripts"] && e.hasPrefix("meta")
	}},
	{Sysroot, func(e Entries) bool {
		return e.Names["dev"] && e.Names["usr"] && e.Names["var"] && e.Names["bin"]
	}},
	{Cargo, func(e Entries) bool { return e.Names["CACHEDIR.TAG"] }},
	{CMake, func(e Entries) bool { return e.Names["CMakeCache.txt"] }},
	{Flutter, func(e Entries) bool { return e.hasSuffix(".cache.dill.track.dill") }},
	{Meson, func(e Entries) bool {
		return e.Names["meson-info"] && e.Names["meson-logs"] && e.Names["meson-private"]
	}},
	{Ninja, func(e Entries) bool { return e.Names["build.ninja"] }},
	{Svn, func(e Entries) bool { return e.Names[".svn"] }},
	{Git, func(e Entries) bool { return e.Names[".git"] }},
	{Plain, func(Entries) bool { return true }},
}

// Recognize returns the first matching tag for the given directory entries,
// per spec.md §4.B's priority order. It always returns a tag: Plain's
// predicate is unconditionally true.
func Recognize(e Entries) Tag {
	for _, r := range recognizers {
		if r.matches(e) {
			return r.tag
		}
	}
	return Plain
}
