package bookmark

import (
	"crypto/rand"
	"regexp"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
)

// CommentType classifies a comment.
type CommentType string

const (
	CommentGeneral    CommentType = "general"
	CommentCodeReview CommentType = "code-review"
	CommentSuggestion CommentType = "suggestion"
	CommentQuestion   CommentType = "question"
)

// ValidCommentType reports whether t is a known comment type.
func ValidCommentType(t CommentType) bool {
	switch t {
	case CommentGeneral, CommentCodeReview, CommentSuggestion, CommentQuestion:
		return true
	}
	return false
}

// Comment is one entry in a record's append-only comment sequence.
// Only the Resolved flag flips after creation.
type Comment struct {
	ID        string      `json:"id"`
	Author    string      `json:"author"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	Type      CommentType `json:"type"`
	Resolved  bool        `json:"resolved"`

	// ParentID references another comment in the same record for threaded
	// replies. An id that matches nothing is tolerated; the comment simply
	// never appears in a thread.
	ParentID string `json:"parentId,omitempty"`

	// Reactions maps emoji to the set of user ids who reacted.
	Reactions map[string][]string `json:"reactions,omitempty"`

	// Mentions holds user identifiers extracted from @name tokens.
	Mentions []string `json:"mentions,omitempty"`
}

// mentionPattern matches @name tokens in comment content.
var mentionPattern = regexp.MustCompile(`@([a-zA-Z0-9_.-]+)`)

// NewComment creates a comment with a fresh id and extracted mentions.
func NewComment(author, content string, ctype CommentType, parentID string) Comment {
	return Comment{
		ID:        NewCommentID(),
		Author:    author,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Type:      ctype,
		ParentID:  parentID,
		Mentions:  ExtractMentions(content),
	}
}

// NewCommentID generates a ULID for a comment.
func NewCommentID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ExtractMentions returns the unique user identifiers mentioned in content,
// in order of first appearance.
func ExtractMentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	mentions := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			mentions = append(mentions, m[1])
		}
	}
	return mentions
}

// AddReaction records a user's emoji reaction. Idempotent per (emoji, user).
func (c *Comment) AddReaction(emoji, user string) bool {
	if c.Reactions == nil {
		c.Reactions = make(map[string][]string)
	}
	for _, u := range c.Reactions[emoji] {
		if u == user {
			return false
		}
	}
	c.Reactions[emoji] = append(c.Reactions[emoji], user)
	return true
}

// Clone returns a deep copy of the comment.
func (c Comment) Clone() Comment {
	out := c
	out.Mentions = append([]string(nil), c.Mentions...)
	if c.Reactions != nil {
		out.Reactions = make(map[string][]string, len(c.Reactions))
		for emoji, users := range c.Reactions {
			out.Reactions[emoji] = append([]string(nil), users...)
		}
	}
	return out
}

// Thread is a root comment with its direct replies, sorted by timestamp
// ascending.
type Thread struct {
	Root    Comment   `json:"root"`
	Replies []Comment `json:"replies"`
}

// CommentThreads assembles comments into threads. Roots are comments
// without a ParentID; replies attach to the root their ParentID names.
// Replies whose parent id matches nothing are dropped (orphan tolerance).
func CommentThreads(comments []Comment) []Thread {
	byID := make(map[string]int, len(comments))
	var threads []Thread
	for _, c := range comments {
		if c.ParentID != "" {
			continue
		}
		byID[c.ID] = len(threads)
		threads = append(threads, Thread{Root: c, Replies: []Comment{}})
	}

	for _, c := range comments {
		if c.ParentID == "" {
			continue
		}
		idx, ok := byID[c.ParentID]
		if !ok {
			continue
		}
		threads[idx].Replies = append(threads[idx].Replies, c)
	}

	for i := range threads {
		replies := threads[i].Replies
		sort.SliceStable(replies, func(a, b int) bool {
			return replies[a].Timestamp.Before(replies[b].Timestamp)
		})
	}

	return threads
}
