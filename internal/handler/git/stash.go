package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// stash is one entry in a snapshot-at-start enumeration of `git stash
// list`, per spec.md §4.E's "snapshot taken atomically at handler start;
// stashes created concurrently are not chased" — the handler lists once and
// never re-queries.
type stash struct {
	ref     string // e.g. stash@{0}
	oid     string
	parent  string
	message string
}

// listStashes enumerates every stash ref in dir, oldest last (git's own
// order), with enough metadata to write a .meta file per spec.md §4.E.1.
func listStashes(ctx context.Context, dir string) ([]stash, error) {
	lines, err := runLines(ctx, dir, "stash", "list", "--format=%gd%x09%H%x09%P%x09%gs")
	if err != nil {
		return nil, errors.Errorf("listing stashes: %w", err)
	}

	stashes := make([]stash, 0, len(lines))
	for _, line := range lines {
		parts := strings.SplitN(line, "\t", 4)
		if len(parts) != 4 {
			continue
		}
		parent := strings.Fields(parts[2])
		parentOid := ""
		if len(parent) > 0 {
			parentOid = parent[0]
		}
		stashes = append(stashes, stash{
			ref:     parts[0],
			oid:     parts[1],
			parent:  parentOid,
			message: parts[3],
		})
	}
	return stashes, nil
}

// writeStashArtifacts writes {n}.patch and {n}.meta for every listed stash
// into targetDir, numbering from 0 in listing order.
func writeStashArtifacts(ctx context.Context, dir, targetDir string, stashes []stash) error {
	for n, st := range stashes {
		patch, err := run(ctx, dir, "stash", "show", "-p", st.ref)
		if err != nil {
			return errors.Errorf("rendering patch for %s: %w", st.ref, err)
		}
		patchPath := filepath.Join(targetDir, fmt.Sprintf("%d.patch", n))
		if err := os.WriteFile(patchPath, []byte(patch+"\n"), 0o644); err != nil {
			return errors.Errorf("writing %s: %w", patchPath, err)
		}

		meta := fmt.Sprintf("name=%s\nref=%s\nparent=%s\nmessage=%s\n", st.ref, st.oid, st.parent, st.message)
		metaPath := filepath.Join(targetDir, fmt.Sprintf("%d.meta", n))
		if err := os.WriteFile(metaPath, []byte(meta), 0o644); err != nil {
			return errors.Errorf("writing %s: %w", metaPath, err)
		}
	}
	return nil
}
