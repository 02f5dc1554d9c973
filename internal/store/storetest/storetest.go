// Package storetest provides an in-memory SQLite destination for tests.
package storetest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dumpimport/internal/store"
)

// Schema is a SQLite rendition of the destination tables.
const Schema = `
CREATE TABLE tags (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE technologies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE landing_page_content (
	id INTEGER PRIMARY KEY,
	header TEXT NOT NULL,
	description TEXT,
	sub_headers TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE social_links (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	display_name TEXT NOT NULL,
	link TEXT NOT NULL,
	icon_shortcode TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE blog_posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	post_content TEXT,
	post_summary TEXT,
	likes INTEGER NOT NULL DEFAULT 0,
	is_published INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE project_posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	project_summary TEXT,
	project_url TEXT,
	is_published INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// NewSQLite opens an in-memory database with Schema applied. It is closed
// when the test ends.
func NewSQLite(t testing.TB) *store.SQLite {
	t.Helper()

	st, err := store.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	for _, stmt := range strings.Split(Schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := st.DB().Exec(stmt)
		require.NoError(t, err, "apply schema")
	}
	return st
}

// Count returns the number of rows in table.
func Count(t testing.TB, st *store.SQLite, table string) int {
	t.Helper()

	var n int
	err := st.DB().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)
	require.NoError(t, err)
	return n
}

// Strings runs a query returning one text column and collects the values.
// NULL is returned as an empty string.
func Strings(t testing.TB, st *store.SQLite, query string, args ...any) []string {
	t.Helper()

	rows, err := st.DB().Query(query, args...)
	require.NoError(t, err)
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v *string
		require.NoError(t, rows.Scan(&v))
		if v == nil {
			out = append(out, "")
		} else {
			out = append(out, *v)
		}
	}
	require.NoError(t, rows.Err())
	return out
}
