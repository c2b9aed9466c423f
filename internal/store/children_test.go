package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marque-dev/marque/internal/bookmark"
)

func TestTopLevel_SectionThenInsertionOrder(t *testing.T) {
	st, _ := testStore(t)
	dir := t.TempDir()
	a := touch(t, dir, "a.md")
	b := touch(t, dir, "b.md")

	sec, _ := st.AddSection("team")
	st.AddDirectory(b, sec.ID)
	st.AddDirectory(a, "")

	entries := st.TopLevel()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	// Default section comes first in section order.
	if entries[0].SectionID != bookmark.DefaultSectionID || entries[0].Record.Path != a {
		t.Errorf("entries[0] = %+v, want default-section record first", entries[0])
	}
	if entries[1].SectionID != sec.ID {
		t.Errorf("entries[1].SectionID = %q, want %q", entries[1].SectionID, sec.ID)
	}
}

func TestChildren_FileHasNone(t *testing.T) {
	st, _ := testStore(t)

	rec := bookmark.NewRecord("/anywhere", bookmark.KindFile, "alice")
	children, err := st.Children(rec)
	if err != nil {
		t.Fatalf("Children failed: %v", err)
	}
	if len(children) != 0 {
		t.Errorf("children = %d, want 0 for a file record", len(children))
	}
}

func TestChildren_SortedCaseInsensitive(t *testing.T) {
	st, _ := testStore(t)
	dir := t.TempDir()
	touch(t, dir, "Zebra.md")
	touch(t, dir, "apple.md")
	if err := os.Mkdir(filepath.Join(dir, "Middle"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	rec := bookmark.NewRecord(dir, bookmark.KindDirectory, "alice")
	children, err := st.Children(rec)
	if err != nil {
		t.Fatalf("Children failed: %v", err)
	}

	want := []string{"apple.md", "Middle", "Zebra.md"}
	if len(children) != len(want) {
		t.Fatalf("children = %d, want %d", len(children), len(want))
	}
	for i := range want {
		if children[i].Name != want[i] {
			t.Errorf("children[%d] = %q, want %q", i, children[i].Name, want[i])
		}
	}
	if children[1].Kind != bookmark.KindDirectory {
		t.Errorf("Middle kind = %q, want directory", children[1].Kind)
	}
}

func TestChildren_UnreadableDirectory(t *testing.T) {
	st, _ := testStore(t)

	rec := bookmark.NewRecord(filepath.Join(t.TempDir(), "gone"), bookmark.KindDirectory, "alice")
	if _, err := st.Children(rec); err == nil {
		t.Error("reading a missing directory should surface an error")
	}
}
