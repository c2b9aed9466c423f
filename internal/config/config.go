package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// CommentMaxChars is the maximum character count for a single comment.
	// Longer comments are rejected before any mutation.
	CommentMaxChars int `json:"comment_max_chars"`

	// Author overrides the contributor identity derived from the VCS.
	// Leave empty to use git user.name (or the machine hostname).
	Author string `json:"author,omitempty"`

	// CodeHostURL is the base URL of the code-host REST API.
	// Defaults to the public GitHub API when empty.
	CodeHostURL string `json:"code_host_url,omitempty"`

	// CodeHostToken authenticates code-host requests. Without it the
	// PR features degrade to "unavailable".
	CodeHostToken string `json:"code_host_token,omitempty"`

	// SummaryCommand is an external command used as the first summary
	// provider. Content is piped via stdin; stdout is the summary.
	SummaryCommand string `json:"summary_command,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DBMaxOpenConns limits open database connections. 0 means the
	// sql.DB default. Set to 1 to fully serialize state access.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits idle database connections. 0 means default.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CommentMaxChars: 4000,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.marque.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// LoadWithRepo loads configuration from both global (~/.marque) and workspace
// (.marque) directories. The workspace config is found by walking upward from
// startDir to the nearest .marque/config.json. Workspace config takes
// precedence for scalars; arrays are merged and deduplicated.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to the nearest .marque/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".marque", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.CommentMaxChars = overlay.CommentMaxChars
	if result.CommentMaxChars == 0 {
		result.CommentMaxChars = base.CommentMaxChars
	}

	result.Author = overlay.Author
	if result.Author == "" {
		result.Author = base.Author
	}

	result.CodeHostURL = overlay.CodeHostURL
	if result.CodeHostURL == "" {
		result.CodeHostURL = base.CodeHostURL
	}

	result.CodeHostToken = overlay.CodeHostToken
	if result.CodeHostToken == "" {
		result.CodeHostToken = base.CodeHostToken
	}

	result.SummaryCommand = overlay.SummaryCommand
	if result.SummaryCommand == "" {
		result.SummaryCommand = base.SummaryCommand
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
