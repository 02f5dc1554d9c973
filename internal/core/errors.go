package core

import "errors"

var (
	// ErrSkipRow marks a record that is deliberately not imported.
	ErrSkipRow = errors.New("row skipped")

	// ErrMissingKey marks a record without a usable natural key.
	ErrMissingKey = errors.New("missing required key")

	// ErrUnknownTable is returned for a table filter naming no registered table.
	ErrUnknownTable = errors.New("unknown table")
)
