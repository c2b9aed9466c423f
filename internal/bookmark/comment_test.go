package bookmark

import (
	"testing"
	"time"
)

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"none", "no mentions here", nil},
		{"single", "ping @alice about this", []string{"alice"}},
		{"multiple", "@alice and @bob.smith please review", []string{"alice", "bob.smith"}},
		{"dedup keeps first occurrence", "@alice then @bob then @alice again", []string{"alice", "bob"}},
		{"punctuation boundary", "see @carol-w, thanks", []string{"carol-w"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMentions(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("ExtractMentions(%q) = %v, want %v", tt.content, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("mention[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNewComment(t *testing.T) {
	c := NewComment("alice", "ask @bob", CommentQuestion, "parent-1")

	if len(c.ID) != 26 {
		t.Errorf("ID length = %d, want 26 (ULID)", len(c.ID))
	}
	if c.Type != CommentQuestion {
		t.Errorf("Type = %q, want %q", c.Type, CommentQuestion)
	}
	if c.ParentID != "parent-1" {
		t.Errorf("ParentID = %q, want %q", c.ParentID, "parent-1")
	}
	if len(c.Mentions) != 1 || c.Mentions[0] != "bob" {
		t.Errorf("Mentions = %v, want [bob]", c.Mentions)
	}
	if c.Resolved {
		t.Error("new comment should not be resolved")
	}
}

func TestComment_AddReaction_Idempotent(t *testing.T) {
	c := NewComment("alice", "hello", CommentGeneral, "")

	if !c.AddReaction("👍", "bob") {
		t.Error("first reaction should return true")
	}
	if c.AddReaction("👍", "bob") {
		t.Error("repeat reaction by same user should return false")
	}
	if !c.AddReaction("👍", "carol") {
		t.Error("same emoji by another user should return true")
	}
	if !c.AddReaction("🎉", "bob") {
		t.Error("different emoji by same user should return true")
	}

	if len(c.Reactions["👍"]) != 2 {
		t.Errorf("👍 reactions = %d, want 2", len(c.Reactions["👍"]))
	}
}

func TestValidCommentType(t *testing.T) {
	for _, ct := range []CommentType{CommentGeneral, CommentCodeReview, CommentSuggestion, CommentQuestion} {
		if !ValidCommentType(ct) {
			t.Errorf("ValidCommentType(%q) = false, want true", ct)
		}
	}
	if ValidCommentType("rant") {
		t.Error("ValidCommentType(rant) = true, want false")
	}
}

func TestCommentThreads_GroupsRepliesUnderRoots(t *testing.T) {
	root1 := NewComment("alice", "first topic", CommentGeneral, "")
	root2 := NewComment("bob", "second topic", CommentGeneral, "")
	reply := NewComment("carol", "re: first", CommentGeneral, root1.ID)

	threads := CommentThreads([]Comment{root1, reply, root2})

	if len(threads) != 2 {
		t.Fatalf("threads = %d, want 2", len(threads))
	}
	if threads[0].Root.ID != root1.ID {
		t.Errorf("first thread root = %q, want %q", threads[0].Root.ID, root1.ID)
	}
	if len(threads[0].Replies) != 1 || threads[0].Replies[0].ID != reply.ID {
		t.Errorf("first thread replies = %v, want the reply attached", threads[0].Replies)
	}
	if len(threads[1].Replies) != 0 {
		t.Errorf("second thread replies = %d, want 0", len(threads[1].Replies))
	}
}

func TestCommentThreads_RepliesSortedByTimestamp(t *testing.T) {
	root := NewComment("alice", "topic", CommentGeneral, "")
	later := NewComment("bob", "later reply", CommentGeneral, root.ID)
	later.Timestamp = time.Now().UTC().Add(time.Hour)
	earlier := NewComment("carol", "earlier reply", CommentGeneral, root.ID)
	earlier.Timestamp = time.Now().UTC().Add(-time.Hour)

	// Deliberately out of order in the flat sequence.
	threads := CommentThreads([]Comment{root, later, earlier})

	if len(threads) != 1 {
		t.Fatalf("threads = %d, want 1", len(threads))
	}
	replies := threads[0].Replies
	if len(replies) != 2 {
		t.Fatalf("replies = %d, want 2", len(replies))
	}
	if replies[0].Content != "earlier reply" {
		t.Errorf("replies[0] = %q, want timestamp-ascending order", replies[0].Content)
	}
}

func TestCommentThreads_OrphanRepliesDropped(t *testing.T) {
	root := NewComment("alice", "topic", CommentGeneral, "")
	orphan := NewComment("bob", "reply to nothing", CommentGeneral, "no-such-id")

	threads := CommentThreads([]Comment{root, orphan})

	if len(threads) != 1 {
		t.Fatalf("threads = %d, want 1", len(threads))
	}
	if len(threads[0].Replies) != 0 {
		t.Errorf("replies = %d, want orphan dropped", len(threads[0].Replies))
	}
}

func TestComment_Clone_Deep(t *testing.T) {
	c := NewComment("alice", "hi @bob", CommentGeneral, "")
	c.AddReaction("👍", "bob")

	clone := c.Clone()
	clone.Reactions["👍"][0] = "eve"
	clone.Mentions[0] = "eve"

	if c.Reactions["👍"][0] != "bob" {
		t.Error("mutating clone reactions should not affect original")
	}
	if c.Mentions[0] != "bob" {
		t.Error("mutating clone mentions should not affect original")
	}
}
