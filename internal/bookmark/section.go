package bookmark

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultSectionID identifies the section that always exists when no
// user-defined sections are present. Directly-added records live here.
const DefaultSectionID = "default"

// DefaultSectionName is the display label of the default section.
const DefaultSectionName = "Bookmarks"

// Section is a named, ordered group of bookmark records. Record order is
// insertion order and is meaningful for display.
type Section struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Directories []Record `json:"directories"`
}

// NewSection creates a section with a freshly generated unique id.
func NewSection(name string) *Section {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return &Section{
		ID:          ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String(),
		Name:        name,
		Directories: []Record{},
	}
}

// DefaultSection creates the always-present default section.
func DefaultSection() *Section {
	return &Section{
		ID:          DefaultSectionID,
		Name:        DefaultSectionName,
		Directories: []Record{},
	}
}

// HasPath reports whether a record with the given path exists in the
// section.
func (s *Section) HasPath(path string) bool {
	for i := range s.Directories {
		if s.Directories[i].Path == path {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the section.
func (s *Section) Clone() Section {
	out := Section{ID: s.ID, Name: s.Name, Directories: make([]Record, len(s.Directories))}
	for i := range s.Directories {
		out.Directories[i] = *s.Directories[i].Clone()
	}
	return out
}

// CloneSections deep-copies a slice of sections.
func CloneSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	for i := range sections {
		out[i] = sections[i].Clone()
	}
	return out
}
