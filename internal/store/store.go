// Package store owns the bookmark sections and their lifecycle: hydrate
// once from the persisted-state slot, mutate through explicit operations,
// and re-serialize the whole store after every mutation.
package store

import (
	"database/sql"
	"encoding/json"
	"os"
	"strings"

	"github.com/marque-dev/marque/internal/bookmark"
	"github.com/marque-dev/marque/internal/config"
	"github.com/marque-dev/marque/internal/errors"
	"github.com/marque-dev/marque/internal/state"
)

// Store is the aggregate root over all sections. It exclusively owns the
// Section and Record instances; rendering layers hold transient copies and
// relay mutations back through these operations.
type Store struct {
	db       *sql.DB
	key      string
	cfg      *config.Config
	identity string

	sections []bookmark.Section
}

// persistedState is the shape written to the state slot.
type persistedState struct {
	Sections []bookmark.Section `json:"sections"`
}

// Open hydrates a store from the state slot identified by key.
// A missing slot, an unreadable slot, or a malformed blob all yield an
// empty store rather than an error; hydration trusts whatever shape it
// can decode.
func Open(db *sql.DB, key, identity string, cfg *config.Config) *Store {
	s := &Store{
		db:       db,
		key:      key,
		cfg:      cfg,
		identity: identity,
	}

	blob, ok, err := state.Get(db, key)
	if err != nil || !ok {
		s.sections = []bookmark.Section{*bookmark.DefaultSection()}
		return s
	}

	var ps persistedState
	if err := json.Unmarshal(blob, &ps); err == nil && ps.Sections != nil {
		s.sections = ps.Sections
	} else {
		// Legacy shape: a bare array of directly-added records.
		var flat []bookmark.Record
		if err := json.Unmarshal(blob, &flat); err == nil {
			def := bookmark.DefaultSection()
			def.Directories = flat
			s.sections = []bookmark.Section{*def}
		} else {
			s.sections = []bookmark.Section{*bookmark.DefaultSection()}
		}
	}

	s.ensureDefaultSection()
	return s
}

// Identity returns the contributor identity this store stamps on mutations.
func (s *Store) Identity() string {
	return s.identity
}

// Sections returns the owned section slice in display order. Callers must
// treat it as read-only; mutations go through store operations.
func (s *Store) Sections() []bookmark.Section {
	return s.sections
}

// ReplaceSections swaps the entire section set and persists. Used by the
// sync flow for replace and merge outcomes.
func (s *Store) ReplaceSections(sections []bookmark.Section) error {
	s.sections = bookmark.CloneSections(sections)
	s.ensureDefaultSection()
	return s.persist()
}

// AddDirectory bookmarks a path into the section identified by sectionID,
// or the default section when sectionID is empty. The path is stat'ed to
// determine its kind. Duplicate paths within a section are permitted.
func (s *Store) AddDirectory(path, sectionID string) (*bookmark.Record, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewNotFound(path)
	}

	kind := bookmark.KindFile
	if info.IsDir() {
		kind = bookmark.KindDirectory
	}

	direct := sectionID == ""
	if direct {
		sectionID = bookmark.DefaultSectionID
	}

	sec := s.findSection(sectionID)
	if sec == nil {
		return nil, errors.NewNotFound("section " + sectionID)
	}

	rec := bookmark.NewRecord(path, kind, s.identity)
	rec.DirectlyAdded = direct
	rec.RecordActivity("bookmarked", s.identity, path)

	sec.Directories = append(sec.Directories, *rec)
	if err := s.persist(); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// RemoveDirectory removes the first record matching path in the given
// section (default section when sectionID is empty). Returns whether a
// removal occurred; a missing path is a silent no-op.
func (s *Store) RemoveDirectory(path, sectionID string) (bool, error) {
	if sectionID == "" {
		sectionID = bookmark.DefaultSectionID
	}
	sec := s.findSection(sectionID)
	if sec == nil {
		return false, nil
	}

	for i := range sec.Directories {
		if sec.Directories[i].Path == path {
			sec.Directories = append(sec.Directories[:i], sec.Directories[i+1:]...)
			return true, s.persist()
		}
	}
	return false, nil
}

// RemoveAllDirectories clears every section back to empty, then persists.
func (s *Store) RemoveAllDirectories() error {
	for i := range s.sections {
		s.sections[i].Directories = []bookmark.Record{}
	}
	return s.persist()
}

// AddSection creates a section with a freshly generated unique id.
func (s *Store) AddSection(name string) (*bookmark.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationFailed("section name must not be empty")
	}

	sec := bookmark.NewSection(name)
	// ULIDs are unique in practice; the loop guards the invariant anyway.
	for s.findSection(sec.ID) != nil {
		sec = bookmark.NewSection(name)
	}

	s.sections = append(s.sections, *sec)
	if err := s.persist(); err != nil {
		return nil, err
	}
	out := sec.Clone()
	return &out, nil
}

// RemoveSection deletes a section and all its records. No orphan
// migration. Returns whether a section was removed.
func (s *Store) RemoveSection(sectionID string) (bool, error) {
	for i := range s.sections {
		if s.sections[i].ID == sectionID {
			s.sections = append(s.sections[:i], s.sections[i+1:]...)
			s.ensureDefaultSection()
			return true, s.persist()
		}
	}
	return false, nil
}

// RenameSection updates a section's display label.
func (s *Store) RenameSection(sectionID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.NewValidationFailed("section name must not be empty")
	}
	sec := s.findSection(sectionID)
	if sec == nil {
		return errors.NewNotFound("section " + sectionID)
	}
	sec.Name = name
	return s.persist()
}

// Record returns a copy of the first record matching path across all
// sections.
func (s *Store) Record(path string) (*bookmark.Record, error) {
	rec := s.findRecord(path)
	if rec == nil {
		return nil, errors.NewNotFound(path)
	}
	return rec.Clone(), nil
}

// findSection returns the live section with the given id, or nil.
func (s *Store) findSection(id string) *bookmark.Section {
	for i := range s.sections {
		if s.sections[i].ID == id {
			return &s.sections[i]
		}
	}
	return nil
}

// findRecord returns the first live record matching path across sections.
func (s *Store) findRecord(path string) *bookmark.Record {
	for i := range s.sections {
		for j := range s.sections[i].Directories {
			if s.sections[i].Directories[j].Path == path {
				return &s.sections[i].Directories[j]
			}
		}
	}
	return nil
}

// ensureDefaultSection keeps the invariant that a default section exists
// when no user-defined sections are present.
func (s *Store) ensureDefaultSection() {
	if len(s.sections) == 0 {
		s.sections = []bookmark.Section{*bookmark.DefaultSection()}
	}
}

// persist re-serializes the whole store back to the state slot.
func (s *Store) persist() error {
	blob, err := json.Marshal(persistedState{Sections: s.sections})
	if err != nil {
		return errors.NewInternal(err)
	}
	if err := state.Put(s.db, s.key, blob); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
