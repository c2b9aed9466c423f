package store

import (
	"fmt"
	"path/filepath"

	"github.com/marque-dev/marque/internal/bookmark"
)

// DisplayItem carries the display-only fields a tree view needs. It is a
// pure projection of a record; the record itself stays plain data.
type DisplayItem struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Collapsible bool   `json:"collapsible"`
	Command     string `json:"command,omitempty"`
}

// Project produces the display item for a top-level entry.
func Project(e Entry) DisplayItem {
	rec := e.Record

	label := filepath.Base(rec.Path)
	desc := string(rec.Status)
	if rec.Priority != bookmark.PriorityMedium {
		desc = fmt.Sprintf("%s, %s priority", desc, rec.Priority)
	}
	if n := len(rec.Comments); n > 0 {
		desc = fmt.Sprintf("%s, %d comments", desc, n)
	}

	item := DisplayItem{
		Label:       label,
		Description: desc,
		Collapsible: rec.Kind == bookmark.KindDirectory,
	}
	if rec.Kind == bookmark.KindFile {
		item.Command = "open:" + rec.Path
	}
	return item
}

// ProjectChild produces the display item for a filesystem child entry.
func ProjectChild(c ChildEntry) DisplayItem {
	item := DisplayItem{
		Label:       c.Name,
		Collapsible: c.Kind == bookmark.KindDirectory,
	}
	if c.Kind == bookmark.KindFile {
		item.Command = "open:" + c.Path
	}
	return item
}
