// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - Table not loaded: The requested table is not available yet
//	         Action: Wait for the page to finish loading and try again
//	         Patterns: "table not found"
//
//	TBL002 - Column out of range: The requested column does not exist
//	         Action: Reload the page to refresh the column list
//	         Patterns: "column out of range"
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Source unreadable: The table's data file could not be read
//	         Action: Check that the file exists and is readable
//	         Patterns: "no such file", "permission denied"
//
//	SRC002 - Invalid markup: The table markup could not be parsed
//	         Action: Regenerate the table page
//	         Patterns: "parse html"
//
//	SRC003 - Invalid workbook: The source workbook could not be opened
//	         Action: Re-save the workbook as .xlsx
//	         Patterns: "open workbook", "zip: not a valid zip file"
//
//	SRC004 - Database unavailable: Unable to query the database
//	         Action: Please try again in a few moments
//	         Patterns: "connection refused", "connection reset"
//
//	SRC005 - Page too large: The table page exceeds the size limit
//	         Action: Split the page or raise the limit
//	         Patterns: "page exceeds size limit"
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - System busy: Too many exports in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent exports"
//
//	EXP002 - Workbook failed: The spreadsheet could not be generated
//	         Action: Please try again or contact support
//	         Patterns: "build workbook"
//
//	EXP003 - PDF disabled: PDF export is not enabled on this server
//	         Action: Use the Excel or CSV export instead
//	         Patterns: "pdf export disabled"
//
//	EXP004 - PDF failed: The PDF renderer did not respond
//	         Action: Please try again or use the Excel export
//	         Patterns: "render pdf"
//
//	EXP005 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	EXP006 - Request timeout: Request timed out
//	         Action: Try again later
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.
package core

import (
	"fmt"
	"strings"
)

// MissingTableMessage is the alert text shown when an export targets a table
// that is not present.
const MissingTableMessage = "Tabela não carregada ainda."

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Table Errors (TBL001-TBL002)
	// =========================================================================
	{
		pattern: "table not found",
		msg: UserMessage{
			Message: MissingTableMessage,
			Action:  "Wait for the page to finish loading and try again",
			Code:    "TBL001",
		},
	},
	{
		pattern: "column out of range",
		msg: UserMessage{
			Message: "The requested column does not exist",
			Action:  "Reload the page to refresh the column list",
			Code:    "TBL002",
		},
	},

	// =========================================================================
	// Export Errors (EXP001-EXP006)
	// Listed before source errors: a busy limiter wraps nothing else.
	// =========================================================================
	{
		pattern: "too many concurrent exports",
		msg: UserMessage{
			Message: "System is busy processing other exports",
			Action:  "Please wait a moment and try again",
			Code:    "EXP001",
		},
	},
	{
		pattern: "build workbook",
		msg: UserMessage{
			Message: "The spreadsheet could not be generated",
			Action:  "Please try again or contact support",
			Code:    "EXP002",
		},
	},
	{
		pattern: "pdf export disabled",
		msg: UserMessage{
			Message: "PDF export is not enabled on this server",
			Action:  "Use the Excel or CSV export instead",
			Code:    "EXP003",
		},
	},
	{
		pattern: "render pdf",
		msg: UserMessage{
			Message: "The PDF renderer did not respond",
			Action:  "Please try again or use the Excel export",
			Code:    "EXP004",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "EXP005",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again later",
			Code:    "EXP006",
		},
	},

	// =========================================================================
	// Source Errors (SRC001-SRC005)
	// =========================================================================
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "The table's data file could not be read",
			Action:  "Check that the file exists and is readable",
			Code:    "SRC001",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "The table's data file could not be read",
			Action:  "Check that the file exists and is readable",
			Code:    "SRC001",
		},
	},
	{
		pattern: "parse html",
		msg: UserMessage{
			Message: "The table markup could not be parsed",
			Action:  "Regenerate the table page",
			Code:    "SRC002",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "The source workbook could not be opened",
			Action:  "Re-save the workbook as .xlsx",
			Code:    "SRC003",
		},
	},
	{
		pattern: "zip: not a valid zip file",
		msg: UserMessage{
			Message: "The source workbook could not be opened",
			Action:  "Re-save the workbook as .xlsx",
			Code:    "SRC003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to query the database",
			Action:  "Please try again in a few moments",
			Code:    "SRC004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Unable to query the database",
			Action:  "Please try again in a few moments",
			Code:    "SRC004",
		},
	},

	{
		pattern: "page exceeds size limit",
		msg: UserMessage{
			Message: "The table page is too large",
			Action:  "Split the page or raise the limit",
			Code:    "SRC005",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
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

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
