package web

import (
	"strings"
	"testing"

	"github.com/marque-dev/marque/internal/errors"
)

func TestParseMessage_InvalidJSON(t *testing.T) {
	_, err := ParseMessage(strings.NewReader("{nope"))
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestParseMessage_Valid(t *testing.T) {
	msg, err := ParseMessage(strings.NewReader(`{"kind":"addComment","path":"/x","content":"hi"}`))
	if err != nil {
		t.Fatalf("ParseMessage failed: %v", err)
	}
	if msg.Kind != KindAddComment || msg.Path != "/x" || msg.Content != "hi" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestValidate_UnknownKindRejected(t *testing.T) {
	msg := &Message{Kind: "dropTables", Path: "/x"}
	if err := msg.Validate(); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST for an unknown kind", err)
	}
}

func TestValidate_PathRequired(t *testing.T) {
	msg := &Message{Kind: KindRefreshGitInfo}
	if err := msg.Validate(); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST for a missing path", err)
	}
}

func TestValidate_PerKindRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		code errors.ErrorCode
	}{
		{"addComment needs content", Message{Kind: KindAddComment, Path: "/x"}, errors.ErrValidationFailed},
		{"resolveComment needs commentId", Message{Kind: KindResolveComment, Path: "/x"}, errors.ErrInvalidRequest},
		{"addReaction needs emoji", Message{Kind: KindAddReaction, Path: "/x", CommentID: "c1"}, errors.ErrInvalidRequest},
		{"updateStatus needs status", Message{Kind: KindUpdateStatus, Path: "/x"}, errors.ErrInvalidRequest},
		{"updatePriority needs priority", Message{Kind: KindUpdatePriority, Path: "/x"}, errors.ErrInvalidRequest},
		{"createPR needs title head base", Message{Kind: KindCreatePR, Path: "/x", Title: "t"}, errors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.msg.Validate(); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestValidate_EveryKnownKindAccepted(t *testing.T) {
	valid := []Message{
		{Kind: KindAddComment, Path: "/x", Content: "hi"},
		{Kind: KindResolveComment, Path: "/x", CommentID: "c1"},
		{Kind: KindAddReaction, Path: "/x", CommentID: "c1", Emoji: "👍"},
		{Kind: KindUpdateStatus, Path: "/x", Status: "active"},
		{Kind: KindUpdatePriority, Path: "/x", Priority: "high"},
		{Kind: KindAddWatcher, Path: "/x"},
		{Kind: KindRemoveWatcher, Path: "/x"},
		{Kind: KindShowGitDiff, Path: "/x"},
		{Kind: KindCreatePR, Path: "/x", Title: "t", Head: "h", Base: "b"},
		{Kind: KindRefreshGitInfo, Path: "/x"},
		{Kind: KindExportComments, Path: "/x"},
	}
	if len(valid) != len(knownKinds) {
		t.Fatalf("test covers %d kinds, registry has %d", len(valid), len(knownKinds))
	}

	for _, msg := range valid {
		if err := msg.Validate(); err != nil {
			t.Errorf("Validate(%s) = %v, want nil", msg.Kind, err)
		}
	}
}
