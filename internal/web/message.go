package web

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/marque-dev/marque/internal/errors"
)

// Kind enumerates the closed set of collaboration panel messages.
type Kind string

const (
	KindAddComment     Kind = "addComment"
	KindResolveComment Kind = "resolveComment"
	KindAddReaction    Kind = "addReaction"
	KindUpdateStatus   Kind = "updateStatus"
	KindUpdatePriority Kind = "updatePriority"
	KindAddWatcher     Kind = "addWatcher"
	KindRemoveWatcher  Kind = "removeWatcher"
	KindShowGitDiff    Kind = "showGitDiff"
	KindCreatePR       Kind = "createPR"
	KindRefreshGitInfo Kind = "refreshGitInfo"
	KindExportComments Kind = "exportComments"
)

var knownKinds = map[Kind]bool{
	KindAddComment:     true,
	KindResolveComment: true,
	KindAddReaction:    true,
	KindUpdateStatus:   true,
	KindUpdatePriority: true,
	KindAddWatcher:     true,
	KindRemoveWatcher:  true,
	KindShowGitDiff:    true,
	KindCreatePR:       true,
	KindRefreshGitInfo: true,
	KindExportComments: true,
}

// Message is one panel request. The kind selects which payload fields are
// meaningful; everything is validated here before reaching the store.
type Message struct {
	Kind Kind   `json:"kind"`
	Path string `json:"path"`

	// addComment
	Content     string `json:"content,omitempty"`
	CommentType string `json:"commentType,omitempty"`
	ParentID    string `json:"parentId,omitempty"`

	// resolveComment / addReaction
	CommentID string `json:"commentId,omitempty"`
	Emoji     string `json:"emoji,omitempty"`

	// updateStatus / updatePriority
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`

	// addWatcher / removeWatcher
	User string `json:"user,omitempty"`

	// createPR
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	Head  string `json:"head,omitempty"`
	Base  string `json:"base,omitempty"`
}

// ParseMessage decodes and validates a panel message from a request body.
func ParseMessage(body io.Reader) (*Message, error) {
	var msg Message
	if err := json.NewDecoder(body).Decode(&msg); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid message JSON: %v", err))
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Validate enforces the closed kind set and per-kind required fields.
func (m *Message) Validate() error {
	if !knownKinds[m.Kind] {
		return errors.NewInvalidRequest(fmt.Sprintf("unknown message kind %q", m.Kind))
	}
	if m.Path == "" {
		return errors.NewInvalidRequest("message path is required")
	}

	switch m.Kind {
	case KindAddComment:
		if m.Content == "" {
			return errors.NewValidationFailed("comment content must not be empty")
		}
	case KindResolveComment:
		if m.CommentID == "" {
			return errors.NewInvalidRequest("commentId is required")
		}
	case KindAddReaction:
		if m.CommentID == "" || m.Emoji == "" {
			return errors.NewInvalidRequest("commentId and emoji are required")
		}
	case KindUpdateStatus:
		if m.Status == "" {
			return errors.NewInvalidRequest("status is required")
		}
	case KindUpdatePriority:
		if m.Priority == "" {
			return errors.NewInvalidRequest("priority is required")
		}
	case KindCreatePR:
		if m.Title == "" || m.Head == "" || m.Base == "" {
			return errors.NewInvalidRequest("title, head, and base are required")
		}
	}

	return nil
}
