package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/marque-dev/marque/internal/bookmark"
	"github.com/marque-dev/marque/internal/errors"
	"github.com/marque-dev/marque/internal/share"
	"github.com/marque-dev/marque/internal/store"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	st   *store.Store
	root string
}

// NewHandlers creates a new Handlers instance. root is the workspace root
// used for the shared-config sync flow.
func NewHandlers(st *store.Store, root string) *Handlers {
	return &Handlers{st: st, root: root}
}

// Request types for each tool

// AddRequest represents the arguments for bookmark_add.
type AddRequest struct {
	Path      string `json:"path"`
	SectionID string `json:"section_id,omitempty"`
}

// RemoveRequest represents the arguments for bookmark_remove.
type RemoveRequest struct {
	Path      string `json:"path"`
	SectionID string `json:"section_id,omitempty"`
}

// CommentRequest represents the arguments for bookmark_comment.
type CommentRequest struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Type     string `json:"type,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
}

// StatusRequest represents the arguments for bookmark_status.
type StatusRequest struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

// PriorityRequest represents the arguments for bookmark_priority.
type PriorityRequest struct {
	Path     string `json:"path"`
	Priority string `json:"priority"`
}

// TagRequest represents the arguments for bookmark_tag.
type TagRequest struct {
	Path   string `json:"path"`
	Tag    string `json:"tag"`
	Remove bool   `json:"remove,omitempty"`
}

// ActivityRequest represents the arguments for bookmark_activity.
type ActivityRequest struct {
	Path string `json:"path"`
}

// SyncRequest represents the arguments for bookmark_sync.
type SyncRequest struct {
	Action string `json:"action"`
}

// ImportRequest represents the arguments for bookmark_import.
type ImportRequest struct {
	Merge bool `json:"merge,omitempty"`
}

// SectionAddRequest represents the arguments for section_add.
type SectionAddRequest struct {
	Name string `json:"name"`
}

// SectionRemoveRequest represents the arguments for section_remove.
type SectionRemoveRequest struct {
	SectionID string `json:"section_id"`
}

// Handler implementations

// HandleList handles the bookmark_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type sectionOut struct {
		ID      string            `json:"id"`
		Name    string            `json:"name"`
		Records []bookmark.Record `json:"records"`
	}

	sections := h.st.Sections()
	out := make([]sectionOut, 0, len(sections))
	for _, sec := range sections {
		out = append(out, sectionOut{
			ID:      sec.ID,
			Name:    sec.Name,
			Records: sec.Clone().Directories,
		})
	}
	return successResult(map[string]any{"sections": out})
}

// HandleAdd handles the bookmark_add tool call.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	rec, err := h.st.AddDirectory(input.Path, input.SectionID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"record": rec})
}

// HandleRemove handles the bookmark_remove tool call.
func (h *Handlers) HandleRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RemoveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	removed, err := h.st.RemoveDirectory(input.Path, input.SectionID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"removed": removed})
}

// HandleComment handles the bookmark_comment tool call.
func (h *Handlers) HandleComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CommentRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	ctype := bookmark.CommentType(input.Type)
	if input.Type != "" && !bookmark.ValidCommentType(ctype) {
		return errorResult(errors.NewValidationFailed("unknown comment type: " + input.Type)), nil
	}

	comment, err := h.st.AddComment(input.Path, input.Content, ctype, input.ParentID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"comment": comment})
}

// HandleStatus handles the bookmark_status tool call.
func (h *Handlers) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StatusRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := h.st.UpdateStatus(input.Path, bookmark.Status(input.Status)); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"path": input.Path, "status": input.Status})
}

// HandlePriority handles the bookmark_priority tool call.
func (h *Handlers) HandlePriority(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PriorityRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := h.st.UpdatePriority(input.Path, bookmark.Priority(input.Priority)); err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"path": input.Path, "priority": input.Priority})
}

// HandleTag handles the bookmark_tag tool call.
func (h *Handlers) HandleTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TagRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if input.Remove {
		err = h.st.RemoveTag(input.Path, input.Tag)
	} else {
		err = h.st.AddTag(input.Path, input.Tag)
	}
	if err != nil {
		return errorResult(err), nil
	}

	rec, err := h.st.Record(input.Path)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"path": input.Path, "tags": rec.Tags})
}

// HandleActivity handles the bookmark_activity tool call.
func (h *Handlers) HandleActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ActivityRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	entries, err := h.st.ActivityOf(input.Path)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"path": input.Path, "activity": entries})
}

// HandleSync handles the bookmark_sync tool call.
func (h *Handlers) HandleSync(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SyncRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := share.Apply(h.root, h.st, share.Action(input.Action))
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleExport handles the bookmark_export tool call. It writes the
// current sections to the workspace shared config file in portable form.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := share.ToPortable(h.st.Sections(), h.root, h.st.Identity())
	if err != nil {
		return errorResult(err), nil
	}
	if err := share.WriteRemote(h.root, cfg); err != nil {
		return errorResult(err), nil
	}

	records := 0
	for _, sec := range cfg.Sections {
		records += len(sec.Directories)
	}
	return successResult(map[string]any{
		"path":     filepath.Join(h.root, share.FileName),
		"sections": len(cfg.Sections),
		"records":  records,
	})
}

// HandleImport handles the bookmark_import tool call. The shared config
// replaces the current sections, or union-merges into them when merge is
// set. A major version mismatch is reported as a warning, not a failure.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	remote, exists, err := share.ReadRemote(h.root)
	if err != nil {
		return errorResult(err), nil
	}
	if !exists {
		return errorResult(errors.NewNotFound(filepath.Join(h.root, share.FileName))), nil
	}

	warning := share.CompatibilityWarning(remote.Version)
	incoming := share.FromPortable(remote, h.root)

	next := incoming
	if input.Merge {
		next = share.Merge(h.st.Sections(), incoming)
	}
	if err := h.st.ReplaceSections(next); err != nil {
		return errorResult(err), nil
	}

	out := map[string]any{"imported": len(next), "merged": input.Merge}
	if warning != "" {
		out["warning"] = warning
	}
	return successResult(out)
}

// HandleSectionAdd handles the section_add tool call.
func (h *Handlers) HandleSectionAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SectionAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	sec, err := h.st.AddSection(input.Name)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"section": sec})
}

// HandleSectionRemove handles the section_remove tool call.
func (h *Handlers) HandleSectionRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SectionRemoveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	removed, err := h.st.RemoveSection(input.SectionID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"removed": removed})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if mErr, ok := err.(*errors.MarqueError); ok {
		errorObj := map[string]any{
			"code":    mErr.Code,
			"message": mErr.Message,
			"status":  mErr.Status,
		}
		if mErr.Code != errors.ErrInternal && mErr.Details != nil {
			errorObj["details"] = mErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
