package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/JonMunkholm/dumpimport/internal/config"
)

// SQLite is a Store backed by database/sql and the modernc SQLite driver.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database at dsn (a file path or ":memory:").
//
// The pool is limited to one connection so an in-memory database lives as
// long as the Store.
func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLite{db: db}, nil
}

// DB exposes the underlying handle, e.g. to apply a schema.
func (s *SQLite) DB() *sql.DB { return s.db }

func (s *SQLite) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &sqlTx{d: sqliteDialect{}, c: stdConn{tx: tx}}, nil
}

func (s *SQLite) Driver() string { return config.DriverSQLite }

func (s *SQLite) Close() error {
	return s.db.Close()
}

type stdConn struct {
	tx *sql.Tx
}

func (c stdConn) exec(ctx context.Context, query string, args ...any) error {
	_, err := c.tx.ExecContext(ctx, query, args...)
	return err
}

// driverArgs resolves pgtype values to plain driver values before they
// reach the SQLite driver.
func driverArgs(args []any) ([]any, error) {
	out := make([]any, len(args))
	for i, a := range args {
		v, ok := a.(driver.Valuer)
		if !ok {
			out[i] = a
			continue
		}
		dv, err := v.Value()
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = dv
	}
	return out, nil
}

func (c stdConn) queryID(ctx context.Context, query string, args ...any) (string, bool, error) {
	args, err := driverArgs(args)
	if err != nil {
		return "", false, err
	}

	var id string
	err = c.tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (c stdConn) commit(context.Context) error {
	return c.tx.Commit()
}

func (c stdConn) rollback(context.Context) error {
	err := c.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
