package bookmark

import (
	"time"
)

// Kind marks a bookmarked path as a file or a directory.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Priority of a bookmarked path.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ValidPriority reports whether p is a known priority value.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Status of a bookmarked path in the team workflow.
type Status string

const (
	StatusActive    Status = "active"
	StatusInReview  Status = "in-review"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// ValidStatus reports whether s is a known status value.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInReview, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// GitSnapshot is the last-known source-control state of a record.
// It is fully replaced on refresh, never merged field by field.
type GitSnapshot struct {
	Branch       string    `json:"branch"`
	Commit       string    `json:"commit"`
	HasConflicts bool      `json:"hasConflicts"`
	RefreshedAt  time.Time `json:"refreshedAt"`
}

// PullRequestInfo is a linked code-host review, keyed by number.
type PullRequestInfo struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	State  string `json:"state"`
	Author string `json:"author,omitempty"`
}

// Record is one bookmarked filesystem path with collaborative metadata.
// Path is the natural key within a section; the same path may appear in
// multiple sections.
type Record struct {
	Path      string    `json:"path"`
	Kind      Kind      `json:"kind"`
	Tags      []string  `json:"tags"`
	AddedBy   string    `json:"addedBy"`
	DateAdded time.Time `json:"dateAdded"`

	Priority Priority `json:"priority"`
	Status   Status   `json:"status"`

	Comments      []Comment         `json:"comments,omitempty"`
	Watchers      []string          `json:"watchers,omitempty"`
	GitSnapshot   *GitSnapshot      `json:"gitSnapshot,omitempty"`
	LinkedReviews []PullRequestInfo `json:"linkedReviews,omitempty"`
	Activity      []ActivityEntry   `json:"activity,omitempty"`

	// DirectlyAdded marks records added outside any named section.
	// Only these are eligible for drag-drop reordering.
	DirectlyAdded bool `json:"directlyAdded,omitempty"`
}

// NewRecord creates a Record with default priority/status and the
// creation timestamp set once.
func NewRecord(path string, kind Kind, addedBy string) *Record {
	return &Record{
		Path:      path,
		Kind:      kind,
		Tags:      []string{},
		AddedBy:   addedBy,
		DateAdded: time.Now().UTC(),
		Priority:  PriorityMedium,
		Status:    StatusActive,
	}
}

// AddTag appends a tag, preserving insertion order. Duplicate tags are
// kept out; comparison is exact.
func (r *Record) AddTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return false
		}
	}
	r.Tags = append(r.Tags, tag)
	return true
}

// RemoveTag removes a tag. Returns whether a removal occurred.
func (r *Record) RemoveTag(tag string) bool {
	for i, t := range r.Tags {
		if t == tag {
			r.Tags = append(r.Tags[:i], r.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// AddWatcher adds a user to the watcher set. Idempotent.
func (r *Record) AddWatcher(user string) bool {
	for _, w := range r.Watchers {
		if w == user {
			return false
		}
	}
	r.Watchers = append(r.Watchers, user)
	return true
}

// RemoveWatcher removes a user from the watcher set. Idempotent.
func (r *Record) RemoveWatcher(user string) bool {
	for i, w := range r.Watchers {
		if w == user {
			r.Watchers = append(r.Watchers[:i], r.Watchers[i+1:]...)
			return true
		}
	}
	return false
}

// SetSnapshot replaces the git snapshot wholesale.
func (r *Record) SetSnapshot(snap *GitSnapshot) {
	r.GitSnapshot = snap
}

// LinkReview appends a pull request, de-duplicated by number. An existing
// entry with the same number is refreshed in place.
func (r *Record) LinkReview(pr PullRequestInfo) bool {
	for i, existing := range r.LinkedReviews {
		if existing.Number == pr.Number {
			r.LinkedReviews[i] = pr
			return false
		}
	}
	r.LinkedReviews = append(r.LinkedReviews, pr)
	return true
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	c.Tags = append([]string{}, r.Tags...)
	c.Watchers = append([]string(nil), r.Watchers...)
	c.LinkedReviews = append([]PullRequestInfo(nil), r.LinkedReviews...)
	c.Activity = append([]ActivityEntry(nil), r.Activity...)
	c.Comments = make([]Comment, len(r.Comments))
	for i, cm := range r.Comments {
		c.Comments[i] = cm.Clone()
	}
	if r.GitSnapshot != nil {
		snap := *r.GitSnapshot
		c.GitSnapshot = &snap
	}
	return &c
}
