package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/marque-dev/marque/internal/config"
	"github.com/marque-dev/marque/internal/store"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"bookmark_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"bookmark_add": {
		def:     addToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAdd },
	},
	"bookmark_remove": {
		def:     removeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRemove },
	},
	"bookmark_comment": {
		def:     commentToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleComment },
	},
	"bookmark_status": {
		def:     statusToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStatus },
	},
	"bookmark_priority": {
		def:     priorityToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePriority },
	},
	"bookmark_tag": {
		def:     tagToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTag },
	},
	"bookmark_activity": {
		def:     activityToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleActivity },
	},
	"bookmark_sync": {
		def:     syncToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSync },
	},
	"bookmark_export": {
		def:     exportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"bookmark_import": {
		def:     importToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleImport },
	},
	"section_add": {
		def:     sectionAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSectionAdd },
	},
	"section_remove": {
		def:     sectionRemoveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSectionRemove },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with Marque tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(st *store.Store, workspaceRoot string, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"marque",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(st, workspaceRoot)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(st *store.Store, workspaceRoot string, cfg *config.Config, version string) error {
	s := NewServer(st, workspaceRoot, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
