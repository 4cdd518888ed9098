package fsutil

import (
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// ReconcileExtraneous removes entries under targetDir whose name is not in
// keep, used by a handler's finish phase when delete_extraneous is set
// (spec.md §4.C). targetDir not existing is not an error — there is
// nothing to reconcile.
func ReconcileExtraneous(targetDir string, keep map[string]bool) error {
	entries, err := os.ReadDir(targetDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Errorf("reading %s for reconciliation: %w", targetDir, err)
	}

	for _, e := range entries {
		if keep[e.Name()] {
			continue
		}
		if err := RemoveTree(filepath.Join(targetDir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
