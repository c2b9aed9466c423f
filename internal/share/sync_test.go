package share

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marque-dev/marque/internal/bookmark"
	"github.com/marque-dev/marque/internal/errors"
)

// fakeStore implements StoreAccess in memory.
type fakeStore struct {
	sections []bookmark.Section
}

func (f *fakeStore) Sections() []bookmark.Section { return f.sections }
func (f *fakeStore) Identity() string             { return "alice" }
func (f *fakeStore) ReplaceSections(s []bookmark.Section) error {
	f.sections = bookmark.CloneSections(s)
	return nil
}

func storeWith(root string, names ...string) *fakeStore {
	sec := bookmark.DefaultSection()
	for _, n := range names {
		sec.Directories = append(sec.Directories, *bookmark.NewRecord(filepath.Join(root, n), bookmark.KindDirectory, "alice"))
	}
	return &fakeStore{sections: []bookmark.Section{*sec}}
}

func TestPlan_NoRemote(t *testing.T) {
	root := t.TempDir()

	plan, err := Plan(root)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.RemoteExists {
		t.Error("RemoteExists = true, want false for a missing file")
	}
	if plan.Remote != nil {
		t.Error("Remote should be nil when the file is missing")
	}
}

func TestApply_Create_WritesRemote(t *testing.T) {
	root := t.TempDir()
	st := storeWith(root, "pkg")

	result, err := Apply(root, st, ActionCreate)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if result.Outcome != OutcomeCreated {
		t.Errorf("Outcome = %q, want %q", result.Outcome, OutcomeCreated)
	}

	remote, exists, err := ReadRemote(root)
	if err != nil || !exists {
		t.Fatalf("ReadRemote after create: exists=%v err=%v", exists, err)
	}
	if remote.Version != ConfigVersion {
		t.Errorf("Version = %q, want %q", remote.Version, ConfigVersion)
	}
	if remote.UpdatedBy != "alice" {
		t.Errorf("UpdatedBy = %q, want %q", remote.UpdatedBy, "alice")
	}
	if remote.Sections[0].Directories[0].Path != "pkg" {
		t.Errorf("remote path = %q, want workspace-relative", remote.Sections[0].Directories[0].Path)
	}
}

func TestApply_Push_Overwrites(t *testing.T) {
	root := t.TempDir()

	first := storeWith(root, "old")
	if _, err := Apply(root, first, ActionCreate); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	second := storeWith(root, "new")
	result, err := Apply(root, second, ActionPush)
	if err != nil {
		t.Fatalf("push failed: %v", err)
	}
	if result.Outcome != OutcomePushed {
		t.Errorf("Outcome = %q, want %q", result.Outcome, OutcomePushed)
	}

	remote, _, _ := ReadRemote(root)
	if remote.Sections[0].Directories[0].Path != "new" {
		t.Errorf("remote path = %q, want the pushed state", remote.Sections[0].Directories[0].Path)
	}
}

func TestApply_Merge_UnionsRemoteIntoLocal(t *testing.T) {
	root := t.TempDir()

	remoteSide := storeWith(root, "shared", "remote-only")
	if _, err := Apply(root, remoteSide, ActionCreate); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	local := storeWith(root, "shared", "local-only")
	result, err := Apply(root, local, ActionMerge)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if result.Outcome != OutcomeMerged {
		t.Errorf("Outcome = %q, want %q", result.Outcome, OutcomeMerged)
	}

	paths := make(map[string]bool)
	for _, rec := range local.sections[0].Directories {
		paths[rec.Path] = true
	}
	for _, want := range []string{"shared", "local-only", "remote-only"} {
		if !paths[filepath.Join(root, want)] {
			t.Errorf("merged store missing %q; have %v", want, paths)
		}
	}
	if len(local.sections[0].Directories) != 3 {
		t.Errorf("records = %d, want 3 (union, no duplicates)", len(local.sections[0].Directories))
	}
}

func TestApply_Replace_DiscardsLocal(t *testing.T) {
	root := t.TempDir()

	remoteSide := storeWith(root, "remote-only")
	if _, err := Apply(root, remoteSide, ActionCreate); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	local := storeWith(root, "local-only")
	result, err := Apply(root, local, ActionReplace)
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if result.Outcome != OutcomeReplaced {
		t.Errorf("Outcome = %q, want %q", result.Outcome, OutcomeReplaced)
	}

	if len(local.sections[0].Directories) != 1 {
		t.Fatalf("records = %d, want 1", len(local.sections[0].Directories))
	}
	if local.sections[0].Directories[0].Path != filepath.Join(root, "remote-only") {
		t.Errorf("path = %q, want the remote record only", local.sections[0].Directories[0].Path)
	}
}

func TestApply_Cancel_TouchesNothing(t *testing.T) {
	root := t.TempDir()
	st := storeWith(root, "x")

	result, err := Apply(root, st, ActionCancel)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if result.Outcome != OutcomeCancelled {
		t.Errorf("Outcome = %q, want %q", result.Outcome, OutcomeCancelled)
	}

	if _, exists, _ := ReadRemote(root); exists {
		t.Error("cancel must not write the remote file")
	}
	if len(st.sections[0].Directories) != 1 {
		t.Error("cancel must not touch the store")
	}
}

func TestApply_MergeWithoutRemote(t *testing.T) {
	root := t.TempDir()
	st := storeWith(root, "x")

	_, err := Apply(root, st, ActionMerge)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND when no remote exists", err)
	}
}

func TestApply_UnknownAction(t *testing.T) {
	root := t.TempDir()
	st := storeWith(root)

	_, err := Apply(root, st, Action("explode"))
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestApply_MergeCarriesVersionWarning(t *testing.T) {
	root := t.TempDir()
	st := storeWith(root, "x")
	if _, err := Apply(root, st, ActionCreate); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Rewrite the remote with a different major version.
	remote, _, _ := ReadRemote(root)
	remote.Version = "9.0.0"
	if err := WriteRemote(root, remote); err != nil {
		t.Fatalf("WriteRemote failed: %v", err)
	}

	result, err := Apply(root, st, ActionMerge)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if result.Warning == "" {
		t.Error("major-version mismatch should warn but not block")
	}
}

func TestReadRemote_InvalidJSON(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, FileName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{nope"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, _, err := ReadRemote(root)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST for malformed JSON", err)
	}
}
