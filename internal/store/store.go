// Package store writes imported rows to the destination database.
//
// The importer talks to a [Store] through a single [Tx]. Writes are keyed
// by a natural key (name, slug, URL) instead of the destination's internal
// id, and each write states how a key collision is resolved. Timestamp
// fields left NULL are filled with the database's current time.
//
// Two backends exist: [Postgres] on a pgx pool, and [SQLite] on
// database/sql with the pure-Go modernc driver.
package store

import (
	"context"
	"errors"
)

// IDColumn is the surrogate key every destination table exposes.
const IDColumn = "id"

// ErrUnsupportedDriver is returned by Open for an unknown driver name.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// ConflictPolicy tells Upsert what to do when the key already exists.
type ConflictPolicy int

const (
	// ConflictFail inserts without a conflict clause; a collision is an error.
	ConflictFail ConflictPolicy = iota
	// ConflictIgnore keeps the existing row untouched.
	ConflictIgnore
	// ConflictUpdate overwrites every mutable field of the existing row.
	ConflictUpdate
)

func (p ConflictPolicy) String() string {
	switch p {
	case ConflictIgnore:
		return "ignore"
	case ConflictUpdate:
		return "update"
	default:
		return "fail"
	}
}

// Field is one column value of a write.
type Field struct {
	Column string
	Value  any

	// Timestamp fields are stored as the current time when Value is NULL.
	Timestamp bool

	// InsertOnly fields are written on insert and never overwritten.
	InsertOnly bool
}

// Write describes one row keyed by a natural key.
type Write struct {
	Table  string
	Key    Field
	Fields []Field
	Policy ConflictPolicy
}

// Tx is one database transaction.
//
// Savepoints let a caller discard a failed statement without aborting the
// whole transaction; PostgreSQL refuses further statements after an error
// until the transaction or a savepoint is rolled back.
type Tx interface {
	// Upsert inserts w, resolving a key collision by w.Policy. It returns
	// the row id and false when the row was left untouched by ConflictIgnore.
	Upsert(ctx context.Context, w Write) (id string, written bool, err error)

	// Update overwrites the mutable fields of the row matching w.Key. It
	// returns false when no row matched.
	Update(ctx context.Context, w Write) (id string, found bool, err error)

	// Find returns the id of the row of table whose key column equals key.
	Find(ctx context.Context, table string, key Field) (id string, found bool, err error)

	Savepoint(ctx context.Context, name string) error
	RollbackTo(ctx context.Context, name string) error
	Release(ctx context.Context, name string) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Store opens transactions on the destination database.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	Driver() string
	Close() error
}
