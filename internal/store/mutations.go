package store

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/marque-dev/marque/internal/bookmark"
	"github.com/marque-dev/marque/internal/errors"
)

// withRecord locates the first record matching path, applies fn, and
// persists. fn returning an error aborts without persisting.
func (s *Store) withRecord(path string, fn func(*bookmark.Record) error) error {
	rec := s.findRecord(path)
	if rec == nil {
		return errors.NewNotFound(path)
	}
	if err := fn(rec); err != nil {
		return err
	}
	return s.persist()
}

// AddComment appends a comment to the record at path. Content is validated
// before any mutation; empty and over-length comments are rejected with
// the specific reason.
func (s *Store) AddComment(path, content string, ctype bookmark.CommentType, parentID string) (*bookmark.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.NewValidationFailed("comment content must not be empty")
	}
	if max := s.cfg.CommentMaxChars; max > 0 && utf8.RuneCountInString(content) > max {
		return nil, errors.NewValidationFailed(fmt.Sprintf("comment exceeds %d characters", max))
	}
	if ctype == "" {
		ctype = bookmark.CommentGeneral
	}
	if !bookmark.ValidCommentType(ctype) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown comment type %q", ctype))
	}

	comment := bookmark.NewComment(s.identity, content, ctype, parentID)
	err := s.withRecord(path, func(rec *bookmark.Record) error {
		rec.Comments = append(rec.Comments, comment)
		rec.RecordActivity("commented", s.identity, string(ctype))
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := comment.Clone()
	return &out, nil
}

// ResolveComment flips a comment's resolved flag to true.
func (s *Store) ResolveComment(path, commentID string) error {
	return s.withRecord(path, func(rec *bookmark.Record) error {
		for i := range rec.Comments {
			if rec.Comments[i].ID == commentID {
				rec.Comments[i].Resolved = true
				rec.RecordActivity("resolved comment", s.identity, commentID)
				return nil
			}
		}
		return errors.NewNotFound("comment " + commentID)
	})
}

// AddReaction records an emoji reaction on a comment. Idempotent per
// (emoji, user).
func (s *Store) AddReaction(path, commentID, emoji string) error {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return errors.NewValidationFailed("reaction emoji must not be empty")
	}
	return s.withRecord(path, func(rec *bookmark.Record) error {
		for i := range rec.Comments {
			if rec.Comments[i].ID == commentID {
				if rec.Comments[i].AddReaction(emoji, s.identity) {
					rec.RecordActivity("reacted", s.identity, emoji)
				}
				return nil
			}
		}
		return errors.NewNotFound("comment " + commentID)
	})
}

// Threads returns the comment threads of the record at path.
func (s *Store) Threads(path string) ([]bookmark.Thread, error) {
	rec := s.findRecord(path)
	if rec == nil {
		return nil, errors.NewNotFound(path)
	}
	return bookmark.CommentThreads(rec.Comments), nil
}

// UpdateStatus sets a record's workflow status.
func (s *Store) UpdateStatus(path string, status bookmark.Status) error {
	if !bookmark.ValidStatus(status) {
		return errors.NewInvalidRequest(fmt.Sprintf("unknown status %q", status))
	}
	return s.withRecord(path, func(rec *bookmark.Record) error {
		prev := rec.Status
		rec.Status = status
		rec.RecordActivity("status changed", s.identity, fmt.Sprintf("%s -> %s", prev, status))
		return nil
	})
}

// UpdatePriority sets a record's priority.
func (s *Store) UpdatePriority(path string, priority bookmark.Priority) error {
	if !bookmark.ValidPriority(priority) {
		return errors.NewInvalidRequest(fmt.Sprintf("unknown priority %q", priority))
	}
	return s.withRecord(path, func(rec *bookmark.Record) error {
		prev := rec.Priority
		rec.Priority = priority
		rec.RecordActivity("priority changed", s.identity, fmt.Sprintf("%s -> %s", prev, priority))
		return nil
	})
}

// AddTag adds a tag to the record at path.
func (s *Store) AddTag(path, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return errors.NewValidationFailed("tag must not be empty")
	}
	return s.withRecord(path, func(rec *bookmark.Record) error {
		if rec.AddTag(tag) {
			rec.RecordActivity("tagged", s.identity, tag)
		}
		return nil
	})
}

// RemoveTag removes a tag from the record at path.
func (s *Store) RemoveTag(path, tag string) error {
	return s.withRecord(path, func(rec *bookmark.Record) error {
		if rec.RemoveTag(tag) {
			rec.RecordActivity("untagged", s.identity, tag)
		}
		return nil
	})
}

// AddWatcher adds user to the record's watcher set (the caller's identity
// when user is empty). Idempotent.
func (s *Store) AddWatcher(path, user string) error {
	if user == "" {
		user = s.identity
	}
	return s.withRecord(path, func(rec *bookmark.Record) error {
		if rec.AddWatcher(user) {
			rec.RecordActivity("watcher added", s.identity, user)
		}
		return nil
	})
}

// RemoveWatcher removes user from the record's watcher set. Idempotent.
func (s *Store) RemoveWatcher(path, user string) error {
	if user == "" {
		user = s.identity
	}
	return s.withRecord(path, func(rec *bookmark.Record) error {
		if rec.RemoveWatcher(user) {
			rec.RecordActivity("watcher removed", s.identity, user)
		}
		return nil
	})
}

// RefreshGitSnapshot replaces the record's git snapshot wholesale.
func (s *Store) RefreshGitSnapshot(path string, snap *bookmark.GitSnapshot) error {
	return s.withRecord(path, func(rec *bookmark.Record) error {
		rec.SetSnapshot(snap)
		rec.RecordActivity("git refreshed", s.identity, "")
		return nil
	})
}

// LinkReview attaches a pull request to the record, de-duplicated by
// number.
func (s *Store) LinkReview(path string, pr bookmark.PullRequestInfo) error {
	return s.withRecord(path, func(rec *bookmark.Record) error {
		if rec.LinkReview(pr) {
			rec.RecordActivity("review linked", s.identity, fmt.Sprintf("#%d", pr.Number))
		}
		return nil
	})
}

// ActivityOf returns the record's activity log, newest first.
func (s *Store) ActivityOf(path string) ([]bookmark.ActivityEntry, error) {
	rec := s.findRecord(path)
	if rec == nil {
		return nil, errors.NewNotFound(path)
	}
	return append([]bookmark.ActivityEntry(nil), rec.Activity...), nil
}
