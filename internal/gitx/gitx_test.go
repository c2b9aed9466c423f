package gitx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initRepo creates a repository with one committed file and returns its
// root and the path of the committed file.
func initRepo(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()

	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("PlainInit failed: %v", err)
	}

	file := filepath.Join(root, "README.md")
	if err := os.WriteFile(file, []byte("# hello\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree failed: %v", err)
	}
	if _, err := wt.Add("README.md"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	sig := &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()}
	if _, err := wt.Commit("initial commit", &git.CommitOptions{Author: sig}); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	return root, file
}

func TestOpen_NotARepository(t *testing.T) {
	if a := Open(t.TempDir()); a != nil {
		t.Error("Open outside a repository should return nil")
	}
}

func TestOpen_DetectsDotGitFromSubdir(t *testing.T) {
	root, _ := initRepo(t)
	sub := filepath.Join(root, "pkg", "deep")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	a := Open(sub)
	if a == nil {
		t.Fatal("Open should find the enclosing repository")
	}
	if a.Root() != root {
		t.Errorf("Root = %q, want %q", a.Root(), root)
	}
}

func TestSnapshot(t *testing.T) {
	root, _ := initRepo(t)
	a := Open(root)
	if a == nil {
		t.Fatal("Open failed")
	}

	snap := a.Snapshot()
	if snap == nil {
		t.Fatal("Snapshot = nil, want snapshot")
	}
	if snap.Branch == "" {
		t.Error("Branch should be set")
	}
	if len(snap.Commit) != 7 {
		t.Errorf("Commit = %q, want 7-char short hash", snap.Commit)
	}
	if snap.HasConflicts {
		t.Error("fresh repository should have no conflicts")
	}
	if snap.RefreshedAt.IsZero() {
		t.Error("RefreshedAt should be set")
	}
}

func TestCurrentBranch(t *testing.T) {
	root, _ := initRepo(t)
	a := Open(root)

	branch, ok := a.CurrentBranch()
	if !ok {
		t.Fatal("ok = false, want a branch on a fresh repository")
	}
	if branch != "master" && branch != "main" {
		t.Errorf("branch = %q, want the init default", branch)
	}
}

func TestFileHistory(t *testing.T) {
	root, file := initRepo(t)
	a := Open(root)

	history := a.FileHistory(file, 10)
	if len(history) != 1 {
		t.Fatalf("history = %d, want 1", len(history))
	}
	if history[0].Message != "initial commit" {
		t.Errorf("Message = %q, want first line of commit message", history[0].Message)
	}
	if history[0].Author != "tester" {
		t.Errorf("Author = %q, want %q", history[0].Author, "tester")
	}
	if len(history[0].Hash) != 7 {
		t.Errorf("Hash = %q, want short hash", history[0].Hash)
	}
}

func TestFileHistory_RespectsLimit(t *testing.T) {
	root, file := initRepo(t)

	repo, _ := git.PlainOpen(root)
	wt, _ := repo.Worktree()
	sig := &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()}
	for i := 0; i < 3; i++ {
		os.WriteFile(file, []byte("change\n"), 0644)
		wt.Add("README.md")
		wt.Commit("update", &git.CommitOptions{Author: sig})
	}

	a := Open(root)
	if got := len(a.FileHistory(file, 2)); got != 2 {
		t.Errorf("history = %d, want limit of 2 honored", got)
	}
}

func TestDiff_UncommittedChange(t *testing.T) {
	root, file := initRepo(t)
	a := Open(root)

	if err := os.WriteFile(file, []byte("# changed\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	diff, ok := a.Diff(file)
	if !ok {
		t.Fatal("ok = false, want status")
	}
	if diff == "" {
		t.Error("diff should mention the modified file")
	}

	// Scoped to an untouched path, the summary is empty.
	other := filepath.Join(root, "other")
	os.MkdirAll(other, 0755)
	scoped, ok := a.Diff(other)
	if !ok {
		t.Fatal("ok = false for scoped diff")
	}
	if scoped != "" {
		t.Errorf("scoped diff = %q, want empty", scoped)
	}
}

func TestStageAndCommit(t *testing.T) {
	root, _ := initRepo(t)
	a := Open(root)

	next := filepath.Join(root, "next.txt")
	if err := os.WriteFile(next, []byte("data\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if res := a.Stage(next); !res.Success {
		t.Fatalf("Stage failed: %s", res.Message)
	}
	res := a.Commit("add next")
	if !res.Success {
		t.Fatalf("Commit failed: %s", res.Message)
	}
	if len(res.Message) != 7 {
		t.Errorf("Commit message = %q, want short hash", res.Message)
	}
}

// addBareOrigin registers a local bare repository as the origin remote.
func addBareOrigin(t *testing.T, root string) {
	t.Helper()

	bare := t.TempDir()
	if _, err := git.PlainInit(bare, true); err != nil {
		t.Fatalf("PlainInit bare failed: %v", err)
	}

	repo, err := git.PlainOpen(root)
	if err != nil {
		t.Fatalf("PlainOpen failed: %v", err)
	}
	if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{bare},
	}); err != nil {
		t.Fatalf("CreateRemote failed: %v", err)
	}
}

func TestPushAndPull(t *testing.T) {
	root, _ := initRepo(t)
	addBareOrigin(t, root)
	a := Open(root)

	if res := a.Push(); !res.Success {
		t.Fatalf("Push failed: %s", res.Message)
	}

	// Pushing again is a no-op, reported as success.
	if res := a.Push(); !res.Success || res.Message != "already up to date" {
		t.Errorf("second Push = %+v, want up-to-date success", res)
	}

	if res := a.Pull(); !res.Success || res.Message != "already up to date" {
		t.Errorf("Pull = %+v, want up-to-date success", res)
	}
}

func TestPush_NoRemote(t *testing.T) {
	root, _ := initRepo(t)
	a := Open(root)

	if res := a.Push(); res.Success {
		t.Error("Push without an origin should fail")
	}
}

func TestFallbackIdentity_NeverEmpty(t *testing.T) {
	if FallbackIdentity() == "" {
		t.Error("FallbackIdentity should never be empty")
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("subject\n\nbody"); got != "subject" {
		t.Errorf("firstLine = %q, want %q", got, "subject")
	}
	if got := firstLine("no newline"); got != "no newline" {
		t.Errorf("firstLine = %q, want %q", got, "no newline")
	}
}
