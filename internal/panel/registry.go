// Package panel is an explicit registry of open collaboration panels,
// keyed by the record path they display. It replaces hidden process-wide
// panel state with a lifecycle the app context owns.
package panel

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Panel is one open collaboration view over a record.
type Panel struct {
	ID         string    `json:"id"`
	RecordPath string    `json:"recordPath"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Registry owns panel lifecycle: create, reveal, dispose.
type Registry struct {
	mu     sync.Mutex
	byPath map[string]*Panel
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byPath: make(map[string]*Panel)}
}

// Create returns the panel for recordPath, creating it if absent. The
// second return value reports whether an existing panel was revealed
// instead of created.
func (r *Registry) Create(recordPath string) (*Panel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.byPath[recordPath]; ok {
		return p, true
	}

	entropy := ulid.Monotonic(rand.Reader, 0)
	p := &Panel{
		ID:         ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String(),
		RecordPath: recordPath,
		CreatedAt:  time.Now().UTC(),
	}
	r.byPath[recordPath] = p
	return p, false
}

// Reveal reports whether a panel exists for recordPath.
func (r *Registry) Reveal(recordPath string) (*Panel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byPath[recordPath]
	return p, ok
}

// Dispose removes the panel for recordPath. Missing panels are a no-op.
func (r *Registry) Dispose(recordPath string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byPath[recordPath]; !ok {
		return false
	}
	delete(r.byPath, recordPath)
	return true
}

// Len returns the number of open panels.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byPath)
}
