package core

// # Error Codes Reference
//
// Failed rows carry a code so a report can be grouped and acted on without
// reading every driver message.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A record with this key already exists
//	        SQLSTATE 23505, "duplicate key", "UNIQUE constraint failed"
//	DB002 - Foreign key: Referenced record does not exist
//	        SQLSTATE 23503, "foreign key constraint"
//	DB003 - Not null: A required destination column received NULL
//	        SQLSTATE 23502, "NOT NULL constraint failed"
//	DB004 - Invalid timestamp: A timestamp could not be parsed by the database
//	        SQLSTATE 22007/22008, "invalid input syntax for type timestamp"
//	DB005 - Value too long: A value exceeds the destination column size
//	        SQLSTATE 22001
//	DB006 - Connection: The database connection failed
//	        SQLSTATE class 08, "connection refused", "connection reset"
//	DB007 - Missing table or column: Destination schema does not match
//	        SQLSTATE 42P01/42703, "no such table", "no such column",
//	        "has no column named"
//
// # Row Errors (ROW001-ROW099)
//
//	ROW001 - Missing key: The record has no usable natural key
//	ROW002 - Skipped: The record was deliberately not imported
//
// Anything else maps to ERR000.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// UserMessage is a readable explanation of a failure.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

var (
	msgDuplicate = UserMessage{
		Message: "A record with this key already exists",
		Action:  "Check the dump for repeated keys",
		Code:    "DB001",
	}
	msgForeignKey = UserMessage{
		Message: "Referenced record does not exist",
		Action:  "Import the referenced table first",
		Code:    "DB002",
	}
	msgNotNull = UserMessage{
		Message: "A required column received no value",
		Action:  "Provide a default for the column in the table transform",
		Code:    "DB003",
	}
	msgTimestamp = UserMessage{
		Message: "Invalid timestamp value",
		Action:  "Check the created_at/updated_at values in the dump",
		Code:    "DB004",
	}
	msgTooLong = UserMessage{
		Message: "Value is too long for the destination column",
		Action:  "Shorten the value or widen the column",
		Code:    "DB005",
	}
	msgConnection = UserMessage{
		Message: "Database connection failed",
		Action:  "Check the database is reachable and run the import again",
		Code:    "DB006",
	}
	msgSchema = UserMessage{
		Message: "Destination table or column does not exist",
		Action:  "Apply the destination schema before importing",
		Code:    "DB007",
	}
	msgMissingKey = UserMessage{
		Message: "Record has no usable key",
		Action:  "Fill in the name, slug or URL in the source data",
		Code:    "ROW001",
	}
	msgSkipped = UserMessage{
		Message: "Record was skipped",
		Action:  "None",
		Code:    "ROW002",
	}
)

// sqlStateMessages maps PostgreSQL SQLSTATE codes.
var sqlStateMessages = map[string]UserMessage{
	"23505": msgDuplicate,
	"23503": msgForeignKey,
	"23502": msgNotNull,
	"22007": msgTimestamp,
	"22008": msgTimestamp,
	"22001": msgTooLong,
	"42P01": msgSchema,
	"42703": msgSchema,
}

// errorPatterns maps message fragments, for drivers without SQLSTATE codes.
// Matching is case-insensitive; the first match wins.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"duplicate key", msgDuplicate},
	{"unique constraint failed", msgDuplicate},
	{"foreign key constraint", msgForeignKey},
	{"not null constraint failed", msgNotNull},
	{"invalid input syntax for type timestamp", msgTimestamp},
	{"connection refused", msgConnection},
	{"connection reset", msgConnection},
	{"no such table", msgSchema},
	{"no such column", msgSchema},
	{"has no column named", msgSchema},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for the underlying error",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// PostgreSQL errors are matched by SQLSTATE, anything else by message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	switch {
	case errors.Is(err, ErrMissingKey):
		return msgMissingKey
	case errors.Is(err, ErrSkipRow):
		return msgSkipped
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := sqlStateMessages[pgErr.Code]; ok {
			return msg
		}
		if strings.HasPrefix(pgErr.Code, "08") {
			return msgConnection
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
