package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/marque-dev/marque/internal/bookmark"
	"github.com/marque-dev/marque/internal/codehost"
	"github.com/marque-dev/marque/internal/errors"
	"github.com/marque-dev/marque/internal/gitx"
	"github.com/marque-dev/marque/internal/logger"
	"github.com/marque-dev/marque/internal/panel"
	"github.com/marque-dev/marque/internal/store"
	"github.com/marque-dev/marque/internal/summary"
)

// Handlers contains HTTP route handlers for the collaboration panel.
type Handlers struct {
	store    *store.Store
	panels   *panel.Registry
	git      *gitx.Adapter       // nil when not inside a repository
	host     *codehost.Client    // nil when the code host is not configured
	repo     *codehost.RepoInfo  // nil when the remote is unknown
	summarer *summary.Chain
	renderer *Renderer
	log      logger.Logger
}

// HandleSections handles GET /sections: the sections overview.
func (h *Handlers) HandleSections(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, "sections", SectionsPageData{
		PageData: PageData{
			Title:   "Bookmarks",
			Version: h.renderer.version,
			Nav:     "sections",
		},
		Sections: h.store.Sections(),
	})
}

// HandleRecord handles GET /records?path=, the collaboration panel for
// one record. Opening it registers (or reveals) the record's panel.
func (h *Handlers) HandleRecord(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("path query parameter is required"))
		return
	}

	rec, err := h.store.Record(path)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	p, _ := h.panels.Create(path)

	threads, err := h.store.Threads(path)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// Children degrade to empty when the path no longer reads.
	children, err := h.store.Children(rec)
	if err != nil {
		children = []store.ChildEntry{}
	}

	data := RecordPageData{
		PageData: PageData{
			Title:   rec.Path,
			Version: h.renderer.version,
			Nav:     "sections",
		},
		Record:   *rec,
		Threads:  renderThreads(threads),
		Children: children,
		PanelID:  p.ID,
	}

	// Git context is optional; omit the section when unavailable.
	if h.git != nil {
		data.GitOK = true
		data.History = h.git.FileHistory(path, 10)
		if diff, ok := h.git.Diff(path); ok {
			data.Diff = diff
		}
	}

	h.renderer.renderPage(w, "record", data)
}

// HandleMessage handles POST /records/message: the closed collaboration
// message protocol. Mutating kinds re-render the full record view.
func (h *Handlers) HandleMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := ParseMessage(r.Body)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	switch msg.Kind {
	case KindAddComment:
		_, err = h.store.AddComment(msg.Path, msg.Content, bookmark.CommentType(msg.CommentType), msg.ParentID)
	case KindResolveComment:
		err = h.store.ResolveComment(msg.Path, msg.CommentID)
	case KindAddReaction:
		err = h.store.AddReaction(msg.Path, msg.CommentID, msg.Emoji)
	case KindUpdateStatus:
		err = h.store.UpdateStatus(msg.Path, bookmark.Status(msg.Status))
	case KindUpdatePriority:
		err = h.store.UpdatePriority(msg.Path, bookmark.Priority(msg.Priority))
	case KindAddWatcher:
		err = h.store.AddWatcher(msg.Path, msg.User)
	case KindRemoveWatcher:
		err = h.store.RemoveWatcher(msg.Path, msg.User)
	case KindRefreshGitInfo:
		h.handleRefreshGit(w, r, msg)
		return
	case KindShowGitDiff:
		h.handleShowDiff(w, msg)
		return
	case KindCreatePR:
		h.handleCreatePR(w, r, msg)
		return
	case KindExportComments:
		h.handleExportComments(w, r, msg)
		return
	}

	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.rerender(w, r, msg.Path)
}

// handleRefreshGit replaces the record's git snapshot wholesale.
func (h *Handlers) handleRefreshGit(w http.ResponseWriter, r *http.Request, msg *Message) {
	if h.git == nil {
		renderJSON(w, http.StatusOK, gitx.Result{Message: "not inside a git repository"})
		return
	}

	snap := h.git.Snapshot()
	if snap == nil {
		renderJSON(w, http.StatusOK, gitx.Result{Message: "could not resolve HEAD"})
		return
	}

	if err := h.store.RefreshGitSnapshot(msg.Path, snap); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.rerender(w, r, msg.Path)
}

// handleShowDiff returns the current name-status diff for the record.
func (h *Handlers) handleShowDiff(w http.ResponseWriter, msg *Message) {
	if h.git == nil {
		renderJSON(w, http.StatusOK, gitx.Result{Message: "not inside a git repository"})
		return
	}

	diff, ok := h.git.Diff(msg.Path)
	if !ok {
		renderJSON(w, http.StatusOK, gitx.Result{Message: "diff unavailable"})
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"success": true, "diff": diff})
}

// handleCreatePR opens a pull request on the code host and links it to
// the record. Failures degrade to a result message.
func (h *Handlers) handleCreatePR(w http.ResponseWriter, r *http.Request, msg *Message) {
	if h.host == nil || h.repo == nil {
		renderJSON(w, http.StatusOK, gitx.Result{Message: "code host not configured"})
		return
	}

	pr := h.host.CreatePullRequest(r.Context(), h.repo.Owner, h.repo.Name, msg.Title, msg.Body, msg.Head, msg.Base)
	if pr == nil {
		renderJSON(w, http.StatusOK, gitx.Result{Message: "pull request creation failed"})
		return
	}

	if err := h.store.LinkReview(msg.Path, *pr); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.rerender(w, r, msg.Path)
}

// handleExportComments streams the record's comments as a markdown
// document.
func (h *Handlers) handleExportComments(w http.ResponseWriter, r *http.Request, msg *Message) {
	threads, err := h.store.Threads(msg.Path)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Comments for %s\n\n", msg.Path)
	for _, t := range threads {
		writeCommentMarkdown(&b, t.Root, 0)
		for _, reply := range t.Replies {
			writeCommentMarkdown(&b, reply, 1)
		}
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="comments.md"`)
	_, _ = w.Write([]byte(b.String()))
}

func writeCommentMarkdown(b *strings.Builder, c bookmark.Comment, depth int) {
	indent := strings.Repeat("  ", depth)
	status := ""
	if c.Resolved {
		status = " (resolved)"
	}
	fmt.Fprintf(b, "%s- **%s** [%s]%s %s\n", indent, c.Author, c.Type, status, formatTime(c.Timestamp))
	for _, line := range strings.Split(c.Content, "\n") {
		fmt.Fprintf(b, "%s  %s\n", indent, line)
	}
	fmt.Fprintln(b)
}

// HandleSummary handles GET /records/summary?path=, the AI summary
// capability. An explicit "unavailable" result is a normal answer.
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("path query parameter is required"))
		return
	}

	rec, err := h.store.Record(path)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	content := summarizableContent(rec)
	out, err := h.summarer.Summarize(r.Context(), content)
	if err != nil {
		renderJSON(w, http.StatusOK, map[string]any{"available": false})
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"available": true, "summary": out})
}

// HandleDispose handles POST /panels/dispose: closes a record's panel.
func (h *Handlers) HandleDispose(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	disposed := h.panels.Dispose(path)
	renderJSON(w, http.StatusOK, map[string]any{"disposed": disposed})
}

// rerender answers a mutating message with a full record re-render:
// JSON clients get the updated record, browsers get a redirect back to
// the panel.
func (h *Handlers) rerender(w http.ResponseWriter, r *http.Request, path string) {
	if acceptsJSON(r) {
		rec, err := h.store.Record(path)
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		renderJSON(w, http.StatusOK, rec)
		return
	}
	http.Redirect(w, r, "/records?path="+url.QueryEscape(path), http.StatusSeeOther)
}

// summarizableContent flattens a record into text for the summary chain.
func summarizableContent(rec *bookmark.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\nstatus: %s, priority: %s\n", rec.Path, rec.Status, rec.Priority)
	if len(rec.Tags) > 0 {
		fmt.Fprintf(&b, "tags: %s\n", strings.Join(rec.Tags, ", "))
	}
	for _, c := range rec.Comments {
		fmt.Fprintf(&b, "\n%s: %s\n", c.Author, c.Content)
	}
	return b.String()
}
