package core

// error_messages.go maps classified errors to user-facing messages with
// codes for support reference.
//
// # Validation Errors (VAL)
//
//	VAL001 - Missing name: the certificate lookup was called without a name
//
// # Schema Errors (SCH)
//
//	SCH001 - Missing column: the worksheet lacks a column the lookup needs
//
// # Source Errors (SRC)
//
//	SRC001 - Spreadsheet not found
//	SRC002 - Worksheet not found
//	SRC003 - Access denied to the spreadsheet
//	SRC004 - Fetch timed out
//	SRC005 - Too many fetches in progress
//	SRC000 - Any other failure reading the source
//
// # Configuration Errors (CFG)
//
//	CFG001 - The service is misconfigured
//
// # Default Error (ERR000)
//
// Fallback when no rule matches. Check the application logs for the
// original technical error.
//
// Rules are evaluated in order and the first match wins, so sentinel rules
// come before the kind-wide fallbacks.

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/painel/internal/sheet"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorRule pairs a predicate with the message it selects.
type errorRule struct {
	match func(error) bool
	msg   UserMessage
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func ofKind(k Kind) func(error) bool {
	return func(err error) bool { return KindOf(err) == k }
}

var errorRules = []errorRule{
	{
		match: is(ErrMissingName),
		msg: UserMessage{
			Message: "A name is required for the certificate lookup",
			Action:  "Pass the nome query parameter",
			Code:    "VAL001",
		},
	},
	{
		match: is(ErrMissingColumn),
		msg: UserMessage{
			Message: "The worksheet is missing a required column",
			Action:  "Check the header row against the listed columns",
			Code:    "SCH001",
		},
	},
	{
		match: is(sheet.ErrSpreadsheetNotFound),
		msg: UserMessage{
			Message: "Spreadsheet not found",
			Action:  "Check SPREADSHEET_ID and share the spreadsheet with the service account",
			Code:    "SRC001",
		},
	},
	{
		match: is(sheet.ErrWorksheetNotFound),
		msg: UserMessage{
			Message: "Worksheet not found",
			Action:  "Check SOURCE_WORKSHEET against the tab names",
			Code:    "SRC002",
		},
	},
	{
		match: is(sheet.ErrAccessDenied),
		msg: UserMessage{
			Message: "Access to the spreadsheet was denied",
			Action:  "Share the spreadsheet with the service account",
			Code:    "SRC003",
		},
	},
	{
		match: is(context.DeadlineExceeded),
		msg: UserMessage{
			Message: "The spreadsheet took too long to respond",
			Action:  "Please try again in a few moments",
			Code:    "SRC004",
		},
	},
	{
		match: is(ErrTooManyFetches),
		msg: UserMessage{
			Message: "Too many requests are reading the spreadsheet",
			Action:  "Please wait a moment and try again",
			Code:    "SRC005",
		},
	},
	{
		match: ofKind(KindTransport),
		msg: UserMessage{
			Message: "Unable to read the spreadsheet",
			Action:  "Please try again",
			Code:    "SRC000",
		},
	},
	{
		match: ofKind(KindConfig),
		msg: UserMessage{
			Message: "The service is misconfigured",
			Action:  "Check the server configuration",
			Code:    "CFG001",
		},
	},
}

// defaultMessage is returned when no rule matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, rule := range errorRules {
		if rule.match(err) {
			return rule.msg
		}
	}

	return defaultMessage
}

// FormatUserError returns a single-line message including code and action.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}
	msg := MapError(err)
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
