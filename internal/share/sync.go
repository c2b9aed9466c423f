package share

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marque-dev/marque/internal/bookmark"
	"github.com/marque-dev/marque/internal/errors"
)

// Action is the user's choice after inspecting the remote file.
type Action string

const (
	ActionCreate  Action = "create"  // no remote file: write local state as the shared config
	ActionMerge   Action = "merge"   // union-merge remote sections into local
	ActionReplace Action = "replace" // replace local state with the remote sections
	ActionPush    Action = "push"    // overwrite the remote file with local state
	ActionCancel  Action = "cancel"  // no-op
)

// Outcome is the terminal result of one sync interaction.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeMerged    Outcome = "merged"
	OutcomeReplaced  Outcome = "replaced"
	OutcomePushed    Outcome = "pushed"
	OutcomeCancelled Outcome = "cancelled"
)

// StoreAccess is the slice of the store the sync flow needs.
type StoreAccess interface {
	Sections() []bookmark.Section
	ReplaceSections([]bookmark.Section) error
	Identity() string
}

// PlanResult describes the remote side before the user picks an action.
type PlanResult struct {
	RemoteExists bool            `json:"remoteExists"`
	Remote       *PortableConfig `json:"remote,omitempty"`
	Warning      string          `json:"warning,omitempty"`
}

// SyncResult is the terminal outcome of one sync interaction.
type SyncResult struct {
	Outcome Outcome `json:"outcome"`
	Warning string  `json:"warning,omitempty"`
}

// Plan reads the remote shared config (the ReadRemote state). A missing
// file is not an error; it means the only offered action is create.
func Plan(workspaceRoot string) (*PlanResult, error) {
	remote, exists, err := ReadRemote(workspaceRoot)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &PlanResult{RemoteExists: false}, nil
	}
	return &PlanResult{
		RemoteExists: true,
		Remote:       remote,
		Warning:      CompatibilityWarning(remote.Version),
	}, nil
}

// Apply performs the chosen action and returns to idle. Every path
// through here is a terminal outcome of the sync state machine.
func Apply(workspaceRoot string, st StoreAccess, action Action) (*SyncResult, error) {
	switch action {
	case ActionCancel:
		return &SyncResult{Outcome: OutcomeCancelled}, nil

	case ActionCreate, ActionPush:
		cfg, err := ToPortable(st.Sections(), workspaceRoot, st.Identity())
		if err != nil {
			return nil, err
		}
		if err := WriteRemote(workspaceRoot, cfg); err != nil {
			return nil, err
		}
		outcome := OutcomePushed
		if action == ActionCreate {
			outcome = OutcomeCreated
		}
		return &SyncResult{Outcome: outcome}, nil

	case ActionMerge, ActionReplace:
		remote, exists, err := ReadRemote(workspaceRoot)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errors.NewNotFound(filepath.Join(workspaceRoot, FileName))
		}

		warning := CompatibilityWarning(remote.Version)
		incoming := FromPortable(remote, workspaceRoot)

		var next []bookmark.Section
		if action == ActionMerge {
			next = Merge(st.Sections(), incoming)
		} else {
			next = incoming
		}
		if err := st.ReplaceSections(next); err != nil {
			return nil, err
		}

		outcome := OutcomeMerged
		if action == ActionReplace {
			outcome = OutcomeReplaced
		}
		return &SyncResult{Outcome: outcome, Warning: warning}, nil

	default:
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown sync action %q", action))
	}
}

// ReadRemote loads the shared config file under the workspace root.
// The second return value reports whether the file existed.
func ReadRemote(workspaceRoot string) (*PortableConfig, bool, error) {
	path := filepath.Join(workspaceRoot, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.NewInternal(fmt.Errorf("failed to read shared config: %w", err))
	}

	var cfg PortableConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, false, errors.NewInvalidRequest(fmt.Sprintf("shared config is not valid JSON: %v", err))
	}
	return &cfg, true, nil
}

// WriteRemote writes the shared config atomically: temp file in the same
// directory, then rename into place.
func WriteRemote(workspaceRoot string, cfg *PortableConfig) error {
	path := filepath.Join(workspaceRoot, FileName)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create shared config directory: %w", err))
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.NewInternal(err)
	}
	data = append(data, '\n')

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to write shared config: %w", err))
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.NewInternal(fmt.Errorf("failed to finalize shared config: %w", err))
	}
	return nil
}
