// Package share converts between the store's absolute-path representation
// and the portable, relative-path file used for team sharing, and merges
// divergent local and shared copies.
package share

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/marque-dev/marque/internal/bookmark"
	"github.com/marque-dev/marque/internal/errors"
)

// ConfigVersion is the semantic version written into portable configs.
// Imports check major-version compatibility against this.
const ConfigVersion = "1.0.0"

// FileName is the workspace-relative location of the shared config.
const FileName = ".marque/bookmarks.json"

// PortableConfig is the versioned, attributed envelope around shared
// sections. All record paths inside are relative to the workspace root.
type PortableConfig struct {
	Version     string             `json:"version"`
	LastUpdated time.Time          `json:"lastUpdated"`
	UpdatedBy   string             `json:"updatedBy"`
	Sections    []bookmark.Section `json:"sections"`
}

// ToPortable rewrites every record path to be relative to workspaceRoot
// and wraps the sections in a portable envelope. A record whose path
// resolves outside the workspace root is a validation failure.
func ToPortable(sections []bookmark.Section, workspaceRoot, updatedBy string) (*PortableConfig, error) {
	out := bookmark.CloneSections(sections)

	for i := range out {
		for j := range out[i].Directories {
			rec := &out[i].Directories[j]
			rel, err := filepath.Rel(workspaceRoot, rec.Path)
			if err != nil {
				return nil, errors.NewValidationFailed(fmt.Sprintf("path %q cannot be made relative to workspace root", rec.Path))
			}
			if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return nil, errors.NewValidationFailed(fmt.Sprintf("path %q is outside the workspace root", rec.Path))
			}
			rec.Path = filepath.ToSlash(rel)
		}
	}

	return &PortableConfig{
		Version:     ConfigVersion,
		LastUpdated: time.Now().UTC(),
		UpdatedBy:   updatedBy,
		Sections:    out,
	}, nil
}

// FromPortable rewrites every record path back to absolute, resolving
// relative paths against workspaceRoot. Paths that are already absolute
// pass through unchanged, so mixed-origin files are tolerated.
func FromPortable(cfg *PortableConfig, workspaceRoot string) []bookmark.Section {
	out := bookmark.CloneSections(cfg.Sections)

	for i := range out {
		for j := range out[i].Directories {
			rec := &out[i].Directories[j]
			p := filepath.FromSlash(rec.Path)
			if filepath.IsAbs(p) {
				rec.Path = p
				continue
			}
			rec.Path = filepath.Join(workspaceRoot, p)
		}
	}

	return out
}

// CompatibilityWarning returns a human-readable warning when the portable
// config's major version differs from ours, or empty when compatible.
// A mismatch warns but never blocks import.
func CompatibilityWarning(version string) string {
	if majorVersion(version) == majorVersion(ConfigVersion) {
		return ""
	}
	return fmt.Sprintf("shared config version %s does not match supported major version %s; importing anyway", version, majorVersion(ConfigVersion))
}

// majorVersion extracts the major component of a semantic version string.
func majorVersion(v string) string {
	if idx := strings.Index(v, "."); idx > 0 {
		return v[:idx]
	}
	return v
}
