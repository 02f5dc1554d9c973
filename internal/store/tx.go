package store

import (
	"context"
	"fmt"
)

// conn is the minimum a backend transaction has to provide.
type conn interface {
	exec(ctx context.Context, query string, args ...any) error
	// queryID runs a statement returning at most one text id.
	queryID(ctx context.Context, query string, args ...any) (string, bool, error)
	commit(ctx context.Context) error
	rollback(ctx context.Context) error
}

// sqlTx implements Tx on top of a backend conn.
type sqlTx struct {
	d dialect
	c conn
}

func (t *sqlTx) Upsert(ctx context.Context, w Write) (string, bool, error) {
	query, args, err := buildUpsert(t.d, w)
	if err != nil {
		return "", false, err
	}
	id, ok, err := t.c.queryID(ctx, query, args...)
	if err != nil {
		return "", false, fmt.Errorf("upsert %s: %w", w.Table, err)
	}
	return id, ok, nil
}

func (t *sqlTx) Update(ctx context.Context, w Write) (string, bool, error) {
	query, args, err := buildUpdate(t.d, w)
	if err != nil {
		return "", false, err
	}
	id, ok, err := t.c.queryID(ctx, query, args...)
	if err != nil {
		return "", false, fmt.Errorf("update %s: %w", w.Table, err)
	}
	return id, ok, nil
}

func (t *sqlTx) Find(ctx context.Context, table string, key Field) (string, bool, error) {
	query, args := buildFind(t.d, table, key)
	id, ok, err := t.c.queryID(ctx, query, args...)
	if err != nil {
		return "", false, fmt.Errorf("find %s: %w", table, err)
	}
	return id, ok, nil
}

func (t *sqlTx) Savepoint(ctx context.Context, name string) error {
	return t.c.exec(ctx, "SAVEPOINT "+quoteIdent(name))
}

func (t *sqlTx) RollbackTo(ctx context.Context, name string) error {
	return t.c.exec(ctx, "ROLLBACK TO SAVEPOINT "+quoteIdent(name))
}

func (t *sqlTx) Release(ctx context.Context, name string) error {
	return t.c.exec(ctx, "RELEASE SAVEPOINT "+quoteIdent(name))
}

func (t *sqlTx) Commit(ctx context.Context) error {
	return t.c.commit(ctx)
}

func (t *sqlTx) Rollback(ctx context.Context) error {
	return t.c.rollback(ctx)
}
