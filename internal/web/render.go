package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/yuin/goldmark"

	"github.com/marque-dev/marque/internal/bookmark"
	"github.com/marque-dev/marque/internal/errors"
	"github.com/marque-dev/marque/internal/gitx"
	"github.com/marque-dev/marque/internal/logger"
	"github.com/marque-dev/marque/internal/store"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "sections"
}

// SectionsPageData is the template data for the sections overview.
type SectionsPageData struct {
	PageData
	Sections []bookmark.Section
}

// renderedComment pairs a comment with its markdown-rendered body.
type renderedComment struct {
	Comment bookmark.Comment
	HTML    template.HTML
}

// renderedThread is a thread with rendered bodies.
type renderedThread struct {
	Root    renderedComment
	Replies []renderedComment
}

// RecordPageData is the template data for the record panel.
type RecordPageData struct {
	PageData
	Record   bookmark.Record
	Threads  []renderedThread
	Children []store.ChildEntry
	History  []gitx.CommitInfo
	Diff     string
	PanelID  string
	GitOK    bool
	Summary  string
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	log       logger.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string, log logger.Logger) *Renderer {
	funcMap := template.FuncMap{
		"formatTime": formatTime,
	}

	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"sections": "sections.html",
		"record":   "record.html",
		"error":    "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		log:       log,
	}
}

// renderPage renders a named page template with HTTP 200.
func (r *Renderer) renderPage(w http.ResponseWriter, name string, data any) {
	r.renderPageStatus(w, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given status.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.log.Error("template not found", logger.String("name", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.log.Error("template execution error", logger.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error with content negotiation: JSON for API
// clients, a full error page otherwise. Nothing here is fatal.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var mErr *errors.MarqueError
	if !stderrors.As(err, &mErr) {
		mErr = errors.NewInternal(err)
	}

	if acceptsJSON(req) {
		renderJSON(w, mErr.Status, map[string]any{
			"error": map[string]any{
				"code":    string(mErr.Code),
				"message": mErr.Message,
				"status":  mErr.Status,
			},
		})
		return
	}

	r.renderPageStatus(w, mErr.Status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", mErr.Status),
			Version: r.version,
		},
		StatusCode: mErr.Status,
		Message:    mErr.Message,
	})
}

func acceptsJSON(req *http.Request) bool {
	accept := req.Header.Get("Accept")
	return accept == "application/json" || req.Header.Get("Content-Type") == "application/json"
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// renderThreads attaches rendered markdown to every comment in the
// given threads.
func renderThreads(threads []bookmark.Thread) []renderedThread {
	out := make([]renderedThread, 0, len(threads))
	for _, t := range threads {
		rt := renderedThread{
			Root: renderedComment{Comment: t.Root, HTML: renderMarkdown(t.Root.Content)},
		}
		for _, reply := range t.Replies {
			rt.Replies = append(rt.Replies, renderedComment{Comment: reply, HTML: renderMarkdown(reply.Content)})
		}
		out = append(out, rt)
	}
	return out
}

// formatTime formats a timestamp as "2006-01-02 15:04" UTC.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
