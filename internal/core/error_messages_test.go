package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/dashview/internal/table"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name: "nil error returns empty",
			err:  nil,
		},
		{
			name:        "wrapped unknown resource",
			err:         fmt.Errorf("view %q: %w", "ghosts", ErrUnknownResource),
			wantCode:    "VIEW001",
			wantMessage: "This resource does not exist",
		},
		{
			name:        "invalid page from the engine",
			err:         fmt.Errorf("run: %w", table.ErrInvalidPage),
			wantCode:    "VIEW003",
			wantMessage: "Invalid page",
		},
		{
			name:        "upstream wins over its timeout text",
			err:         fmt.Errorf("%w: GET /api/staff: i/o timeout", ErrUpstream),
			wantCode:    "SRC002",
			wantMessage: "Could not load data from the dashboard API",
		},
		{
			name:        "too many fetches",
			err:         ErrTooManyFetches,
			wantCode:    "SRC001",
			wantMessage: "The system is busy loading data",
		},
		{
			name:        "preset exists",
			err:         fmt.Errorf("%w: %q", ErrPresetExists, "Mine"),
			wantCode:    "PRE002",
			wantMessage: "A saved view with this name already exists",
		},
		{
			name:        "expired selection",
			err:         ErrSessionNotFound,
			wantCode:    "SEL001",
			wantMessage: "Your selection has expired",
		},
		{
			name:        "deadline exceeded",
			err:         fmt.Errorf("fetch: %w", context.DeadlineExceeded),
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "connection refused text",
			err:         errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			wantCode:    "DB004",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "rate limit text",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("DEADLOCK detected"),
			wantCode:    "DB007",
			wantMessage: "Database was busy with conflicting operations",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrPresetName)

	expected := "Saved view name is required (Code: PRE003). Enter a name for the view"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", ErrUnknownColumn, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	if got := NewUserError(nil); got != nil {
		t.Errorf("NewUserError(nil) = %v, want nil", got)
	}

	techErr := fmt.Errorf("load staff: %w", ErrTooManyFetches)
	userErr := NewUserError(techErr)

	if userErr.Error() != "The system is busy loading data" {
		t.Errorf("Error() = %q, want user message", userErr.Error())
	}
	if !errors.Is(userErr, ErrTooManyFetches) {
		t.Error("Unwrap() should expose the original error")
	}
}
