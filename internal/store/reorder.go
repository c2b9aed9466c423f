package store

import "github.com/marque-dev/marque/internal/bookmark"

// ReorderRecord moves the directly-added record at sourcePath to sit
// immediately before (or after) the record at targetPath within the
// default section. It is a no-op when either path is absent, when the
// source is not directly-added, or when source and target are the same
// record. Returns whether the order changed.
func (s *Store) ReorderRecord(sourcePath, targetPath string, insertBefore bool) (bool, error) {
	if sourcePath == targetPath {
		return false, nil
	}

	sec := s.findSection(bookmark.DefaultSectionID)
	if sec == nil {
		return false, nil
	}

	srcIdx := -1
	dstIdx := -1
	for i := range sec.Directories {
		if srcIdx < 0 && sec.Directories[i].Path == sourcePath {
			srcIdx = i
		}
		if dstIdx < 0 && sec.Directories[i].Path == targetPath {
			dstIdx = i
		}
	}

	if srcIdx < 0 || dstIdx < 0 {
		return false, nil
	}
	if !sec.Directories[srcIdx].DirectlyAdded {
		return false, nil
	}

	moved := sec.Directories[srcIdx]
	rest := append([]bookmark.Record{}, sec.Directories[:srcIdx]...)
	rest = append(rest, sec.Directories[srcIdx+1:]...)

	// Locate the target again after removing the source.
	insertAt := -1
	for i := range rest {
		if rest[i].Path == targetPath {
			insertAt = i
			break
		}
	}
	if insertAt < 0 {
		return false, nil
	}
	if !insertBefore {
		insertAt++
	}

	out := append([]bookmark.Record{}, rest[:insertAt]...)
	out = append(out, moved)
	out = append(out, rest[insertAt:]...)
	sec.Directories = out

	return true, s.persist()
}
