package share

import "github.com/marque-dev/marque/internal/bookmark"

// Merge combines remote sections into local as a union: for each remote
// section with a locally known id, remote records whose path is not
// already present locally are appended; unknown remote sections are
// adopted whole. There is no conflict detection and no field-level
// reconciliation: when a path exists on both sides, the local record's
// fields win silently.
//
// Merge is idempotent under path-within-section equality:
// Merge(Merge(local, remote), remote) equals Merge(local, remote).
func Merge(local, remote []bookmark.Section) []bookmark.Section {
	out := bookmark.CloneSections(local)

	byID := make(map[string]int, len(out))
	for i := range out {
		byID[out[i].ID] = i
	}

	for _, remoteSec := range remote {
		idx, known := byID[remoteSec.ID]
		if !known {
			adopted := remoteSec.Clone()
			byID[adopted.ID] = len(out)
			out = append(out, adopted)
			continue
		}

		localSec := &out[idx]
		present := make(map[string]bool, len(localSec.Directories))
		for i := range localSec.Directories {
			present[localSec.Directories[i].Path] = true
		}

		for i := range remoteSec.Directories {
			rec := &remoteSec.Directories[i]
			if present[rec.Path] {
				continue
			}
			present[rec.Path] = true
			localSec.Directories = append(localSec.Directories, *rec.Clone())
		}
	}

	return out
}
