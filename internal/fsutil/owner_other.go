//go:build !unix

package fsutil

import "errors"

// OwnedByCurrentUser is unsupported outside unix, matching
// original_source/src/utils/mod.rs's cfg_match fallback (`unimplemented!`).
func OwnedByCurrentUser(path string) (bool, error) {
	return false, errors.New("owned_only is only supported on unix")
}
