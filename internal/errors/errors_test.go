package errors

import (
	stderrors "errors"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *MarqueError
		code   ErrorCode
		status int
	}{
		{"invalid request", NewInvalidRequest("bad"), ErrInvalidRequest, 400},
		{"validation failed", NewValidationFailed("too long"), ErrValidationFailed, 422},
		{"not found", NewNotFound("/x"), ErrNotFound, 404},
		{"conflict", NewConflict("busy"), ErrConflict, 409},
		{"external tool", NewExternalTool("git", "down"), ErrExternalTool, 502},
		{"cancelled", NewCancelled("sync"), ErrCancelled, 499},
		{"internal", NewInternal(stderrors.New("boom")), ErrInternal, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Status != tt.status {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.status)
			}
			if tt.err.Error() == "" {
				t.Error("Error() should not be empty")
			}
		})
	}
}

func TestNewNotFound_CarriesIdentifier(t *testing.T) {
	err := NewNotFound("/repo/x")
	if err.Details["identifier"] != "/repo/x" {
		t.Errorf("Details = %v, want the identifier", err.Details)
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want generic message", err.Message)
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("/x")
	if !Is(err, ErrNotFound) {
		t.Error("Is should match the code")
	}
	if Is(err, ErrConflict) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrInternal) {
		t.Error("Is should not match a plain error")
	}
	if Is(nil, ErrInternal) {
		t.Error("Is should not match nil")
	}
}
