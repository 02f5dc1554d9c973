// Package dump extracts table data from PostgreSQL plain-text dumps.
//
// A plain dump (pg_dump, or the backup format used by hosted Postgres
// providers) carries row data in COPY blocks:
//
//	COPY public.tags (id, name, created_at) FROM stdin;
//	1	Go	\N
//	2	Rust	2024-01-01 00:00:00
//	\.
//
// Everything between the header and the `\.` terminator is one row per
// line, fields separated by a tab, with `\N` standing for NULL. Any other
// text in the file (DDL, SET statements, comments) is ignored.
//
// [Scan] reads the dump once and returns the first block of every
// requested table. Values are kept as raw text; interpreting them is the
// caller's job.
package dump
