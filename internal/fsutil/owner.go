//go:build unix

package fsutil

import (
	"os"
	"syscall"
)

// OwnedByCurrentUser reports whether path is owned by the invoking user,
// backing the owned_only option (spec.md §3, §4.A). Grounded on
// original_source/src/utils/mod.rs's test_file_owned_unix, which reads the
// same single field off the OS's stat result; Go's syscall.Stat_t exposes it
// directly so no third-party crate equivalent to Rust's `users` is needed.
func OwnedByCurrentUser(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return true, nil
	}
	return int(sys.Uid) == os.Getuid(), nil
}
