package core

import (
	"time"

	"github.com/JonMunkholm/dumpimport/internal/dump"
	"github.com/JonMunkholm/dumpimport/internal/store"
)

// WritePolicy decides how a row whose natural key already exists is handled.
type WritePolicy int

const (
	// KeepExisting inserts new keys and leaves existing rows untouched.
	KeepExisting WritePolicy = iota
	// Overwrite inserts new keys and overwrites the mutable fields of
	// existing rows.
	Overwrite
	// MatchThenWrite looks the key up first, then updates the match in
	// place or inserts a new row. For destinations without a unique
	// constraint on the key.
	MatchThenWrite
)

func (p WritePolicy) String() string {
	switch p {
	case KeepExisting:
		return "keep-existing"
	case Overwrite:
		return "overwrite"
	case MatchThenWrite:
		return "match-then-write"
	default:
		return "unknown"
	}
}

// TableInfo contains display information about a table.
type TableInfo struct {
	Key    string // Destination table: "blog_posts"
	Source string // Table name in the dump: "blog_posts"
	Label  string // Display name: "Blog posts"
	Order  int    // Import position; lower runs first
}

// Entity is one destination row built from a dump record.
type Entity struct {
	Label  string // Human-readable identifier for logs: title or name
	Key    store.Field
	Fields []store.Field
}

// SelectFunc narrows the records of a block before transformation.
type SelectFunc func(records []dump.RawRecord) []dump.RawRecord

// TransformFunc maps a dump record onto a destination entity.
// Return an error wrapping ErrSkipRow to skip the row without counting a
// failure; any other error fails the row.
type TransformFunc func(rec dump.RawRecord) (Entity, error)

// TableDefinition contains everything needed to import a table.
type TableDefinition struct {
	Info      TableInfo
	Policy    WritePolicy
	Select    SelectFunc // optional
	Transform TransformFunc

	// Columns lists the source columns the transform relies on. An entry
	// may name alternatives separated by "|". Missing ones are reported,
	// not enforced.
	Columns []string
}

// RowStatus is the outcome of one record.
type RowStatus string

const (
	RowInserted  RowStatus = "inserted"
	RowUpdated   RowStatus = "updated"
	RowUnchanged RowStatus = "unchanged"
	RowSkipped   RowStatus = "skipped"
	RowFailed    RowStatus = "failed"
)

// FailedRow contains information about a record that could not be imported.
type FailedRow struct {
	Row    int // 1-based position in the table's block
	Label  string
	Reason string
	Code   string // Error code from MapError
}

// TableResult summarises one table of an import run.
type TableResult struct {
	Table  string
	Source string

	// Missing is set when the dump has no block for the source table.
	Missing bool

	Found     int // Records in the dump block
	Imported  int // Records written or already present
	Updated   int // Of Imported: existing rows changed in place
	Unchanged int // Of Imported: existing rows left as they were
	Skipped   int
	Failed    []FailedRow

	RaggedRows     int
	Unterminated   bool
	MissingColumns []string
}

// ImportResult contains the final result of an import run.
type ImportResult struct {
	RunID     string
	DumpPath  string
	Tables    []TableResult
	DryRun    bool
	Committed bool
	Duration  time.Duration

	// MalformedHeaders counts COPY lines that could not be parsed.
	MalformedHeaders int
}

// Totals sums the per-table counters.
func (r *ImportResult) Totals() (found, imported, skipped, failed int) {
	for _, t := range r.Tables {
		found += t.Found
		imported += t.Imported
		skipped += t.Skipped
		failed += len(t.Failed)
	}
	return found, imported, skipped, failed
}
