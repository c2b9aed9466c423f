package store

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/marque-dev/marque/internal/bookmark"
)

// Entry is one top-level tree entry: a record together with the section
// it belongs to.
type Entry struct {
	SectionID   string          `json:"sectionId"`
	SectionName string          `json:"sectionName"`
	Record      bookmark.Record `json:"record"`
}

// ChildEntry is one immediate filesystem child of a bookmarked directory.
type ChildEntry struct {
	Name string        `json:"name"`
	Path string        `json:"path"`
	Kind bookmark.Kind `json:"kind"`
}

// TopLevel returns all bookmarked entries ordered by section, then by
// record insertion order within each section.
func (s *Store) TopLevel() []Entry {
	var entries []Entry
	for i := range s.sections {
		sec := &s.sections[i]
		for j := range sec.Directories {
			entries = append(entries, Entry{
				SectionID:   sec.ID,
				SectionName: sec.Name,
				Record:      *sec.Directories[j].Clone(),
			})
		}
	}
	return entries
}

// Children lists the immediate filesystem children of a directory record:
// directories and files both, no recursion, sorted case-insensitively.
// A file record has no children. A read failure surfaces as an error;
// callers degrade to an empty list.
func (s *Store) Children(rec *bookmark.Record) ([]ChildEntry, error) {
	if rec.Kind != bookmark.KindDirectory {
		return []ChildEntry{}, nil
	}

	dirEntries, err := os.ReadDir(rec.Path)
	if err != nil {
		return nil, err
	}

	children := make([]ChildEntry, 0, len(dirEntries))
	for _, e := range dirEntries {
		kind := bookmark.KindFile
		if e.IsDir() {
			kind = bookmark.KindDirectory
		}
		children = append(children, ChildEntry{
			Name: e.Name(),
			Path: filepath.Join(rec.Path, e.Name()),
			Kind: kind,
		})
	}

	sort.SliceStable(children, func(a, b int) bool {
		return strings.ToLower(children[a].Name) < strings.ToLower(children[b].Name)
	})

	return children, nil
}
