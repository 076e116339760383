package core

// # Error Codes Reference
//
// Every error shown to a user carries a code that support can look up here.
//
// # View Errors (VIEW001-VIEW099)
//
//	VIEW001 - Unknown resource: the requested resource is not configured
//	          Patterns: ErrUnknownResource, "unknown resource"
//	VIEW002 - Unknown column: the column does not exist on this resource
//	          Patterns: ErrUnknownColumn, "unknown column"
//	VIEW003 - Invalid page: page number or size below one
//	          Patterns: table.ErrInvalidPage, "invalid page"
//	VIEW004 - Invalid query: malformed filter or sort parameters
//	          Patterns: ErrInvalidQuery, "invalid query"
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Too many fetches: all fetch slots were busy
//	         Patterns: ErrTooManyFetches
//	SRC002 - Upstream failed: the dashboard API returned an error or bad body
//	         Patterns: ErrUpstream
//
// # Preset Errors (PRE001-PRE099)
//
//	PRE001 - Preset not found          Patterns: ErrPresetNotFound
//	PRE002 - Preset name taken         Patterns: ErrPresetExists
//	PRE003 - Preset name missing       Patterns: ErrPresetName
//
// # Selection Errors (SEL001-SEL099)
//
//	SEL001 - Session expired           Patterns: ErrSessionNotFound
//	SEL002 - Invalid selection mode    Patterns: ErrSelectionMode
//
// # Database and Request Errors
//
//	DB004 - Connection refused         Patterns: "connection refused"
//	DB005 - Connection reset           Patterns: "connection reset"
//	DB007 - Deadlock                   Patterns: "deadlock"
//	REQ001 - Request cancelled         Patterns: context.Canceled, "context canceled"
//	REQ002 - Request timed out         Patterns: context.DeadlineExceeded, "timeout"
//	RATE001 - Rate limited             Patterns: "rate limit"
//	ERR000 - Anything else; check the logs for the technical error.
//
// Sentinel errors are matched with errors.Is first, then the remaining
// patterns are matched case-insensitively against the error text. The first
// match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/dashview/internal/table"
)

var (
	// ErrUnknownResource is returned for resource keys missing from the registry.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrUnknownColumn is returned for column IDs missing from a resource.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidQuery is returned for malformed view parameters.
	ErrInvalidQuery = errors.New("invalid query")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// sentinelMessages is checked with errors.Is, in order.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrUnknownResource, UserMessage{"This resource does not exist", "Check the link or pick a resource from the menu", "VIEW001"}},
	{ErrUnknownColumn, UserMessage{"This column does not exist", "Refresh the page to load the current columns", "VIEW002"}},
	{table.ErrInvalidPage, UserMessage{"Invalid page", "Page number and page size must be at least 1", "VIEW003"}},
	{ErrInvalidQuery, UserMessage{"The view parameters could not be read", "Clear the filters and try again", "VIEW004"}},
	{ErrTooManyFetches, UserMessage{"The system is busy loading data", "Please wait a moment and try again", "SRC001"}},
	{ErrUpstream, UserMessage{"Could not load data from the dashboard API", "Please try again; if it persists the API may be down", "SRC002"}},
	{ErrPresetNotFound, UserMessage{"Saved view not found", "It may have been deleted. Reload the saved views list", "PRE001"}},
	{ErrPresetExists, UserMessage{"A saved view with this name already exists", "Choose a different name", "PRE002"}},
	{ErrPresetName, UserMessage{"Saved view name is required", "Enter a name for the view", "PRE003"}},
	{ErrSessionNotFound, UserMessage{"Your selection has expired", "Reload the page to start a new selection", "SEL001"}},
	{ErrSelectionMode, UserMessage{"Invalid selection mode", "Use single or multiple", "SEL002"}},
	{context.Canceled, UserMessage{"Request was cancelled", "Please try again", "REQ001"}},
	{context.DeadlineExceeded, UserMessage{"Request timed out", "Try narrowing the view or try again later", "REQ002"}},
}

// errorPattern maps a lower-case substring of an error's text to a message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns covers errors that arrive as text only, such as driver
// errors. Specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{"unknown resource", sentinelMessages[0].msg},
	{"unknown column", sentinelMessages[1].msg},
	{"invalid page", sentinelMessages[2].msg},
	{"invalid query", sentinelMessages[3].msg},
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB004"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB005"}},
	{"deadlock", UserMessage{"Database was busy with conflicting operations", "Please try again", "DB007"}},
	{"context canceled", sentinelMessages[11].msg},
	{"timeout", sentinelMessages[12].msg},
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// A nil error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
