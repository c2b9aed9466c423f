// Package gitx wraps go-git behind the narrow capability interface the
// core consumes. Failures become result objects or absent values; nothing
// here raises a fatal error into the store.
package gitx

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/marque-dev/marque/internal/bookmark"
)

// Result reports the outcome of a state-changing VCS call.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CommitInfo is one entry of a file's history.
type CommitInfo struct {
	Hash    string    `json:"hash"`
	Author  string    `json:"author"`
	Message string    `json:"message"`
	When    time.Time `json:"when"`
}

// Adapter wraps a go-git repository rooted at the worktree.
type Adapter struct {
	repo *git.Repository
	root string
}

// Open opens the repository containing path, walking upward to find the
// .git directory. Returns nil when path is not inside a repository; the
// caller treats nil as "feature unavailable".
func Open(path string) *Adapter {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil
	}

	return &Adapter{repo: repo, root: wt.Filesystem.Root()}
}

// Root returns the worktree root.
func (a *Adapter) Root() string {
	return a.root
}

// CurrentBranch returns the short name of HEAD. ok is false on a
// detached or unborn HEAD.
func (a *Adapter) CurrentBranch() (string, bool) {
	head, err := a.repo.Head()
	if err != nil {
		return "", false
	}
	if !head.Name().IsBranch() {
		return head.Hash().String()[:7], false
	}
	return head.Name().Short(), true
}

// Snapshot captures the current branch, commit, and conflict state.
// Returns nil when HEAD cannot be resolved.
func (a *Adapter) Snapshot() *bookmark.GitSnapshot {
	head, err := a.repo.Head()
	if err != nil {
		return nil
	}

	branch := head.Name().Short()
	if !head.Name().IsBranch() {
		branch = "(detached)"
	}

	snap := &bookmark.GitSnapshot{
		Branch:      branch,
		Commit:      head.Hash().String()[:7],
		RefreshedAt: time.Now().UTC(),
	}

	if status, err := a.status(); err == nil {
		for _, fs := range status {
			if fs.Staging == git.UpdatedButUnmerged || fs.Worktree == git.UpdatedButUnmerged {
				snap.HasConflicts = true
				break
			}
		}
	}

	return snap
}

// FileHistory returns up to limit commits touching path, newest first.
// An unresolvable path or an empty repository yields an empty slice.
func (a *Adapter) FileHistory(path string, limit int) []CommitInfo {
	rel, err := a.relPath(path)
	if err != nil {
		return nil
	}

	iter, err := a.repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return nil
	}
	defer iter.Close()

	var history []CommitInfo
	_ = iter.ForEach(func(c *object.Commit) error {
		if limit > 0 && len(history) >= limit {
			return fmt.Errorf("done")
		}
		history = append(history, CommitInfo{
			Hash:    c.Hash.String()[:7],
			Author:  c.Author.Name,
			Message: firstLine(c.Message),
			When:    c.Author.When,
		})
		return nil
	})

	return history
}

// Diff returns a name-status summary of uncommitted changes under path
// (or the whole worktree when path is empty). ok is false when status
// cannot be computed.
func (a *Adapter) Diff(path string) (string, bool) {
	status, err := a.status()
	if err != nil {
		return "", false
	}

	prefix := ""
	if path != "" {
		rel, err := a.relPath(path)
		if err != nil {
			return "", false
		}
		if rel != "." {
			prefix = filepath.ToSlash(rel)
		}
	}

	out := ""
	for file, fs := range status {
		if prefix != "" && file != prefix && !hasPathPrefix(file, prefix) {
			continue
		}
		if fs.Staging == git.Unmodified && fs.Worktree == git.Unmodified {
			continue
		}
		out += fmt.Sprintf("%c%c %s\n", statusRune(fs.Staging), statusRune(fs.Worktree), file)
	}

	return out, true
}

// Stage adds paths to the index.
func (a *Adapter) Stage(paths ...string) Result {
	wt, err := a.repo.Worktree()
	if err != nil {
		return Result{Message: err.Error()}
	}

	for _, p := range paths {
		rel, err := a.relPath(p)
		if err != nil {
			return Result{Message: err.Error()}
		}
		if _, err := wt.Add(filepath.ToSlash(rel)); err != nil {
			return Result{Message: fmt.Sprintf("stage %s: %v", rel, err)}
		}
	}

	return Result{Success: true, Message: fmt.Sprintf("staged %d paths", len(paths))}
}

// Commit records staged changes with the configured identity.
func (a *Adapter) Commit(message string) Result {
	wt, err := a.repo.Worktree()
	if err != nil {
		return Result{Message: err.Error()}
	}

	name, email := a.userConfig()
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: name, Email: email, When: time.Now()},
	})
	if err != nil {
		return Result{Message: err.Error()}
	}

	return Result{Success: true, Message: hash.String()[:7]}
}

// Push sends local refs to the origin remote. An up-to-date remote is a
// success, not a failure.
func (a *Adapter) Push() Result {
	err := a.repo.Push(&git.PushOptions{RemoteName: "origin"})
	if err == git.NoErrAlreadyUpToDate {
		return Result{Success: true, Message: "already up to date"}
	}
	if err != nil {
		return Result{Message: err.Error()}
	}
	return Result{Success: true, Message: "pushed"}
}

// Pull fetches and integrates changes from the origin remote into the
// worktree. An up-to-date worktree is a success.
func (a *Adapter) Pull() Result {
	wt, err := a.repo.Worktree()
	if err != nil {
		return Result{Message: err.Error()}
	}

	err = wt.Pull(&git.PullOptions{RemoteName: "origin"})
	if err == git.NoErrAlreadyUpToDate {
		return Result{Success: true, Message: "already up to date"}
	}
	if err != nil {
		return Result{Message: err.Error()}
	}
	return Result{Success: true, Message: "pulled"}
}

// OriginURL returns the first URL of the origin remote. ok is false when
// the repository has no origin.
func (a *Adapter) OriginURL() (string, bool) {
	remote, err := a.repo.Remote("origin")
	if err != nil {
		return "", false
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", false
	}
	return urls[0], true
}

// CurrentUserIdentity derives the contributor identity from git config,
// falling back to the machine hostname.
func (a *Adapter) CurrentUserIdentity() string {
	name, _ := a.userConfig()
	if name != "" {
		return name
	}
	return FallbackIdentity()
}

// FallbackIdentity is the contributor identity used when no repository
// or git identity is available.
func FallbackIdentity() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (a *Adapter) userConfig() (name, email string) {
	cfg, err := a.repo.ConfigScoped(gitconfig.SystemScope)
	if err != nil || cfg == nil {
		return "", ""
	}
	return cfg.User.Name, cfg.User.Email
}

func (a *Adapter) status() (git.Status, error) {
	wt, err := a.repo.Worktree()
	if err != nil {
		return nil, err
	}
	return wt.Status()
}

func (a *Adapter) relPath(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path), nil
	}
	rel, err := filepath.Rel(a.root, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func hasPathPrefix(file, prefix string) bool {
	return len(file) > len(prefix) && file[:len(prefix)] == prefix && file[len(prefix)] == '/'
}

func statusRune(code git.StatusCode) rune {
	if code == git.Unmodified {
		return ' '
	}
	return rune(code)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
