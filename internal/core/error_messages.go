package core

// error_messages.go maps technical errors to user-facing messages with a
// code support staff can look up.
//
// # Error Codes Reference
//
// Item errors (ITEM001-ITEM099)
//
//	ITEM001 - Item not found               Patterns: "item not found"
//	ITEM002 - Serial number required       Patterns: "serial_no is required"
//	ITEM003 - Serial number mismatch       Patterns: "does not match the item being updated"
//
// Database errors (DB001-DB099)
//
//	DB001 - Duplicate key                  Patterns: "duplicate key"
//	DB002 - Unique constraint              Patterns: "unique constraint", "violates unique"
//	DB004 - Connection refused             Patterns: "connection refused"
//	DB005 - Connection reset               Patterns: "connection reset"
//	DB006 - Timeout                        Patterns: "timeout"
//	DB007 - Deadlock                       Patterns: "deadlock"
//
// Validation errors (VAL001-VAL099)
//
//	VAL001 - Invalid date bound            Patterns: "must be a date"
//	VAL002 - Invalid number                Patterns: "must be a number"
//	VAL003 - Invalid text value            Patterns: "must be a string"
//	VAL004 - Missing CSV headers           Patterns: "missing required headers"
//	VAL005 - Malformed JSON body           Patterns: "expected json body"
//
// File errors (FILE001-FILE099)
//
//	FILE001 - File too large               Patterns: "file too large", "request body too large"
//	FILE002 - Invalid CSV                  Patterns: "invalid csv"
//	FILE003 - Not a CSV file               Patterns: "please provide a csv file"
//	FILE004 - No file                      Patterns: "no file provided"
//	FILE005 - No header row                Patterns: "no header row"
//
// Import errors (UPL001-UPL099)
//
//	UPL001 - Import cancelled              Patterns: "import cancelled"
//	UPL002 - System busy                   Patterns: "too many concurrent imports"
//	UPL004 - Request cancelled             Patterns: "context canceled"
//	UPL005 - Request timeout               Patterns: "context deadline exceeded"
//
// Rate limiting (RATE001)
//
//	RATE001 - Rate limited                 Patterns: "rate limit"
//
// ERR000 is the fallback when nothing matches; the original error is in
// the server log under the same request_id.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Item
	{"item not found", UserMessage{
		Message: "Item not found",
		Action:  "Check the serial number and try again",
		Code:    "ITEM001",
	}},
	{"serial_no is required", UserMessage{
		Message: "A serial number is required",
		Action:  "Provide the serial number of the item",
		Code:    "ITEM002",
	}},
	{"does not match the item being updated", UserMessage{
		Message: "The serial number in the body does not match the item being updated",
		Action:  "Remove serial_no from the body or use the same value as in the URL",
		Code:    "ITEM003",
	}},

	// Import lifecycle; before the generic context patterns
	{"import cancelled", UserMessage{
		Message: "Import was cancelled",
		Action:  "No rows were saved. Start the import again when ready",
		Code:    "UPL001",
	}},
	{"too many concurrent imports", UserMessage{
		Message: "System is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}},

	// Validation
	{"must be a date", UserMessage{
		Message: "Invalid date format detected",
		Action:  "Use YYYY-MM-DD",
		Code:    "VAL001",
	}},
	{"must be a number", UserMessage{
		Message: "Invalid number format detected",
		Action:  "Use a plain decimal such as 1234.50 without currency symbols",
		Code:    "VAL002",
	}},
	{"must be a string", UserMessage{
		Message: "A text field received an object or list",
		Action:  "Send text fields as strings",
		Code:    "VAL003",
	}},
	{"missing required headers", UserMessage{
		Message: "Required column is missing from CSV",
		Action:  "Check that all required columns are present in your file",
		Code:    "VAL004",
	}},
	{"expected json body", UserMessage{
		Message: "Request body must be a JSON object",
		Action:  "Send the item as a JSON object",
		Code:    "VAL005",
	}},

	// File
	{"file too large", UserMessage{
		Message: "File exceeds maximum size limit",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}},
	{"request body too large", UserMessage{
		Message: "File exceeds maximum size limit",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}},
	{"invalid csv", UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Ensure file is comma-separated and saved as UTF-8",
		Code:    "FILE002",
	}},
	{"please provide a csv file", UserMessage{
		Message: "Invalid file. Please provide a CSV file",
		Action:  "Select a file with a .csv extension",
		Code:    "FILE003",
	}},
	{"no file provided", UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV file to upload",
		Code:    "FILE004",
	}},
	{"no header row", UserMessage{
		Message: "CSV file has no header row",
		Action:  "Add a header row naming each column",
		Code:    "FILE005",
	}},

	// Database
	{"duplicate key", UserMessage{
		Message: "A record with this serial number already exists",
		Action:  "Use a different serial number or update the existing item",
		Code:    "DB001",
	}},
	{"unique constraint", UserMessage{
		Message: "This value must be unique but already exists",
		Action:  "Check for duplicate serial numbers",
		Code:    "DB002",
	}},
	{"violates unique", UserMessage{
		Message: "A duplicate value was found",
		Action:  "Check for duplicate serial numbers",
		Code:    "DB002",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{"deadlock", UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB007",
	}},

	// Request lifecycle
	{"context canceled", UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "UPL005",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB006",
	}},

	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// The first matching pattern wins; ERR000 is returned when none match.
//
//	msg := MapError(ErrNotFound)
//	// msg.Code == "ITEM001"
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

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
