package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.CommentMaxChars != 4000 {
		t.Errorf("CommentMaxChars = %d, want 4000", cfg.CommentMaxChars)
	}
}

func TestLoad_MissingFile_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CommentMaxChars != 4000 {
		t.Errorf("CommentMaxChars = %d, want default", cfg.CommentMaxChars)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"comment_max_chars": 100, "author": "alice"}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CommentMaxChars != 100 {
		t.Errorf("CommentMaxChars = %d, want 100", cfg.CommentMaxChars)
	}
	if cfg.Author != "alice" {
		t.Errorf("Author = %q, want %q", cfg.Author, "alice")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{nope`)

	if _, err := Load(dir); err == nil {
		t.Error("invalid JSON should fail loudly")
	}
}

func TestLoadWithRepo_WorkspaceWins(t *testing.T) {
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `{"author": "global-alice", "summary_command": "summarize"}`)

	repoRoot := t.TempDir()
	marqueDir := filepath.Join(repoRoot, ".marque")
	if err := os.MkdirAll(marqueDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeConfig(t, marqueDir, `{"author": "repo-bob"}`)

	// Start from a nested directory; the walk finds the repo config.
	nested := filepath.Join(repoRoot, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg, err := LoadWithRepo(globalDir, nested)
	if err != nil {
		t.Fatalf("LoadWithRepo failed: %v", err)
	}
	if cfg.Author != "repo-bob" {
		t.Errorf("Author = %q, want workspace override", cfg.Author)
	}
	if cfg.SummaryCommand != "summarize" {
		t.Errorf("SummaryCommand = %q, want global value preserved", cfg.SummaryCommand)
	}
	if cfg.CommentMaxChars != 4000 {
		t.Errorf("CommentMaxChars = %d, want default preserved", cfg.CommentMaxChars)
	}
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	if got := FindRepoConfig(t.TempDir()); got != "" {
		t.Errorf("FindRepoConfig = %q, want empty", got)
	}
}

func TestMerge_DisabledToolsDeduped(t *testing.T) {
	base := &Config{DisabledTools: []string{"bookmark_sync", " bookmark_add "}}
	overlay := &Config{DisabledTools: []string{"bookmark_sync", "section_remove"}}

	out := Merge(base, overlay)
	want := []string{"bookmark_sync", "bookmark_add", "section_remove"}
	if len(out.DisabledTools) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", out.DisabledTools, want)
	}
	for i := range want {
		if out.DisabledTools[i] != want[i] {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, out.DisabledTools[i], want[i])
		}
	}
}
