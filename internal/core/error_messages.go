// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. When users encounter errors, they can quote the code to the
// operations team for faster diagnosis.
//
// Domain errors are resolved with errors.Is against the sentinels in
// errors.go. Error text often carries user input (usernames, ids), so it
// is only inspected for errors from drivers and libraries that wrap no
// sentinel.
//
// # Authentication (AUTH001-AUTH099)
//
//	AUTH001 - Invalid credentials: Username or password is wrong
//	          Errors: ErrInvalidCredentials
//
//	AUTH002 - Inactive account: The account has been deactivated
//	          Errors: ErrInactiveAccount
//
//	AUTH003 - Session expired: The access token is missing, expired or invalid
//	          Errors: ErrInvalidToken
//
//	AUTH004 - Forbidden: The signed-in role may not perform this action
//	          Errors: ErrForbidden
//
// # Users (USR001-USR099)
//
//	USR001 - Username taken: Another account already uses this username
//	         Errors: ErrUsernameTaken
//
//	USR002 - User not found
//	         Errors: ErrUserNotFound
//
// # Inspections (INS001-INS099)
//
//	INS001 - Unknown inspection type
//	         Errors: ErrUnknownInspectionType
//
//	INS002 - Inspection not found
//	         Errors: ErrInspectionNotFound
//
//	INS003 - Unknown exchange center
//	         Errors: ErrCenterNotFound
//
// # Inventory (INV001-INV099)
//
//	INV001 - Location mismatch: The selected location matches no inventory box
//	         Errors: ErrLocationMismatch
//
//	INV002 - Unknown network: Network is not TDM or FTTH
//	         Errors: inventory.ErrUnknownNetwork
//
// # Reports (RPT001-RPT099)
//
//	RPT001 - Unknown report
//	         Errors: ErrUnknownReport
//
//	RPT002 - Invalid date filter
//	         Errors: ErrInvalidDate
//
// # Validation (VAL001-VAL099)
//
//	VAL001 - Invalid form: One or more fields are missing or invalid
//	         Errors: ErrValidation
//
// # Database (DB001-DB099)
//
//	DB001 - Duplicate key
//	        Errors: ErrDuplicate
//	        Patterns: "duplicate key", "unique constraint", "violates unique"
//
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset"
//
//	DB006 - Timeout: Operation timed out
//	        Errors: context.DeadlineExceeded
//	        Patterns: "timeout"
//
//	DB007 - Deadlock
//	        Patterns: "deadlock"
//
//	DB008 - Record not found
//	        Errors: ErrNotFound
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// Sentinels are checked in table order, specific before general, so
// ErrUserNotFound wins over ErrNotFound. Patterns are matched
// case-insensitively with strings.Contains. When a user reports ERR000,
// check the logs for the technical error by request_id.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/FieldInspect/internal/inventory"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgDuplicateKey = UserMessage{"A record with this value already exists", "Use a different value", "DB001"}
	msgTimeout      = UserMessage{"Operation timed out", "Please try again", "DB006"}
)

// sentinelMessages maps domain errors to user messages. The first entry
// whose error matches with errors.Is wins.
var sentinelMessages = []sentinelMessage{
	// Authentication
	{ErrInvalidCredentials, UserMessage{"Invalid credentials", "Check your username and password", "AUTH001"}},
	{ErrInactiveAccount, UserMessage{"Account is inactive. Contact Admin.", "Ask an administrator to reactivate your account", "AUTH002"}},
	{ErrInvalidToken, UserMessage{"Your session has expired", "Please sign in again", "AUTH003"}},
	{ErrForbidden, UserMessage{"You do not have permission for this action", "Sign in with an account that has access", "AUTH004"}},

	// Domain lookups, before the generic ErrNotFound
	{ErrUserNotFound, UserMessage{"User not found", "Refresh the user list and try again", "USR002"}},
	{ErrInspectionNotFound, UserMessage{"Inspection not found", "Refresh your submissions and try again", "INS002"}},
	{ErrCenterNotFound, UserMessage{"Unknown exchange center", "Choose a center from the list", "INS003"}},
	{ErrUnknownReport, UserMessage{"Unknown report", "Use tdm, ftth or login", "RPT001"}},
	{inventory.ErrUnknownNetwork, UserMessage{"Unknown network", "Use TDM or FTTH", "INV002"}},

	// Validation, before the generic ErrValidation
	{ErrUnknownInspectionType, UserMessage{"Unknown inspection type", "Choose TDM, FTTH cabinet or FTTH box", "INS001"}},
	{ErrInvalidDate, UserMessage{"Invalid date filter", "Use YYYY-MM-DD", "RPT002"}},
	{ErrLocationMismatch, UserMessage{"The selected location does not match any inventory box", "Re-select the location fields from the lists", "INV001"}},
	{ErrValidation, UserMessage{"Some fields are missing or invalid", "Review the highlighted fields", "VAL001"}},

	{ErrUsernameTaken, UserMessage{"This username is already taken", "Choose a different username", "USR001"}},
	{ErrDuplicate, msgDuplicateKey},
	{ErrNotFound, UserMessage{"The requested record was not found", "Refresh the page and try again", "DB008"}},
	{context.DeadlineExceeded, msgTimeout},
}

// errorPatterns maps technical error text (case-insensitive) from drivers
// and libraries to user messages. Order matters: the first match wins.
var errorPatterns = []errorPattern{
	// Database constraints
	{"duplicate key", msgDuplicateKey},
	{"unique constraint", msgDuplicateKey},
	{"violates unique", msgDuplicateKey},

	// Database connectivity
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB004"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB005"}},
	{"context deadline exceeded", msgTimeout},
	{"timeout", msgTimeout},
	{"deadlock", UserMessage{"Database was busy with conflicting operations", "Please try again", "DB007"}},

	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error into a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
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

// FormatUserError returns "Message (Code: X). Action" for err.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the default.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
