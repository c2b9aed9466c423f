package mcp

import "github.com/mark3labs/mcp-go/mcp"

var listToolDef = mcp.NewTool("bookmark_list",
	mcp.WithDescription("List all bookmarked paths grouped by section."),
)

var addToolDef = mcp.NewTool("bookmark_add",
	mcp.WithDescription("Bookmark a filesystem path, optionally into a named section."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path to bookmark")),
	mcp.WithString("section_id", mcp.Description("Target section id (default section when omitted)")),
)

var removeToolDef = mcp.NewTool("bookmark_remove",
	mcp.WithDescription("Remove a bookmarked path from a section."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Bookmarked path to remove")),
	mcp.WithString("section_id", mcp.Description("Section id (default section when omitted)")),
)

var commentToolDef = mcp.NewTool("bookmark_comment",
	mcp.WithDescription("Add a comment to a bookmarked path."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Bookmarked path")),
	mcp.WithString("content", mcp.Required(), mcp.Description("Comment content (markdown, @mentions supported)")),
	mcp.WithString("type", mcp.Description("Comment type: general|code-review|suggestion|question")),
	mcp.WithString("parent_id", mcp.Description("Parent comment id for threaded replies")),
)

var statusToolDef = mcp.NewTool("bookmark_status",
	mcp.WithDescription("Update the workflow status of a bookmarked path."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Bookmarked path")),
	mcp.WithString("status", mcp.Required(), mcp.Description("New status: active|in-review|completed|archived")),
)

var priorityToolDef = mcp.NewTool("bookmark_priority",
	mcp.WithDescription("Update the priority of a bookmarked path."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Bookmarked path")),
	mcp.WithString("priority", mcp.Required(), mcp.Description("New priority: low|medium|high|critical")),
)

var tagToolDef = mcp.NewTool("bookmark_tag",
	mcp.WithDescription("Add or remove a tag on a bookmarked path."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Bookmarked path")),
	mcp.WithString("tag", mcp.Required(), mcp.Description("Tag value")),
	mcp.WithBoolean("remove", mcp.Description("Remove the tag instead of adding it")),
)

var activityToolDef = mcp.NewTool("bookmark_activity",
	mcp.WithDescription("Show the activity log of a bookmarked path, newest first."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Bookmarked path")),
)

var exportToolDef = mcp.NewTool("bookmark_export",
	mcp.WithDescription("Export all bookmarks to the workspace shared config file in portable form."),
)

var importToolDef = mcp.NewTool("bookmark_import",
	mcp.WithDescription("Import bookmarks from the workspace shared config file, replacing the current sections."),
	mcp.WithBoolean("merge", mcp.Description("Union-merge the imported sections into the current ones instead of replacing them")),
)

var syncToolDef = mcp.NewTool("bookmark_sync",
	mcp.WithDescription("Synchronize with the shared team config: create, merge, replace, push, or cancel."),
	mcp.WithString("action", mcp.Required(), mcp.Description("Sync action: create|merge|replace|push|cancel")),
)

var sectionAddToolDef = mcp.NewTool("section_add",
	mcp.WithDescription("Create a named bookmark section."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Section display name")),
)

var sectionRemoveToolDef = mcp.NewTool("section_remove",
	mcp.WithDescription("Delete a section and all its bookmarks."),
	mcp.WithString("section_id", mcp.Required(), mcp.Description("Section id")),
)
