package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "nil error returns empty",
			err:      nil,
			wantCode: "",
		},
		{
			name:     "postgres unique violation",
			err:      &pgconn.PgError{Code: "23505", Message: "duplicate key value"},
			wantCode: "DB001",
		},
		{
			name:     "wrapped postgres not null violation",
			err:      fmt.Errorf("upsert tags: %w", &pgconn.PgError{Code: "23502"}),
			wantCode: "DB003",
		},
		{
			name:     "postgres invalid timestamp",
			err:      &pgconn.PgError{Code: "22007"},
			wantCode: "DB004",
		},
		{
			name:     "postgres connection class",
			err:      &pgconn.PgError{Code: "08006"},
			wantCode: "DB006",
		},
		{
			name:     "postgres undefined table",
			err:      &pgconn.PgError{Code: "42P01"},
			wantCode: "DB007",
		},
		{
			name:     "sqlite unique constraint",
			err:      errors.New("constraint failed: UNIQUE constraint failed: tags.name (2067)"),
			wantCode: "DB001",
		},
		{
			name:     "sqlite not null constraint",
			err:      errors.New("NOT NULL constraint failed: tags.created_at"),
			wantCode: "DB003",
		},
		{
			name:     "sqlite missing table",
			err:      errors.New("SQL logic error: no such table: tags (1)"),
			wantCode: "DB007",
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp: connection refused"),
			wantCode: "DB006",
		},
		{
			name:     "missing key",
			err:      fmt.Errorf("%w: name", ErrMissingKey),
			wantCode: "ROW001",
		},
		{
			name:     "skipped row",
			err:      fmt.Errorf("%w: no URL", ErrSkipRow),
			wantCode: "ROW002",
		},
		{
			name:     "unknown error returns default",
			err:      errors.New("some random internal error"),
			wantCode: "ERR000",
		},
		{
			name:     "case insensitive matching",
			err:      errors.New("DUPLICATE KEY value violates"),
			wantCode: "DB001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Message == "" {
				t.Error("MapError() returned empty message for non-nil error")
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(errors.New("duplicate key value violates unique constraint"))
	for _, want := range []string{"already exists", "(Code: DB001)", msgDuplicate.Action} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatUserError() = %q, should contain %q", got, want)
		}
	}
}
