package core

// convert.go provides the field interpretation shared by table transforms.
//
// Dump values arrive as raw text (pgtype.Text, Valid=false for NULL).
// These helpers never fail: absent, NULL and unparsable values turn into
// documented defaults so a single odd field does not cost the whole row.

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/dumpimport/internal/dump"
)

// MaxSlugLength is the longest slug Slugify produces, in characters.
const MaxSlugLength = 255

// Slugify derives a URL-safe slug from a title.
//
// The title is lower-cased; every character that is not a letter, number,
// underscore, whitespace or hyphen is dropped; runs of whitespace and
// hyphens become a single hyphen; the result is cut to MaxSlugLength
// characters. Slugify(Slugify(s)) == Slugify(s).
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	n := 0
	inSep := false
	for _, r := range strings.ToLower(title) {
		if n == MaxSlugLength {
			break
		}
		switch {
		case r == '-' || unicode.IsSpace(r):
			if inSep {
				continue
			}
			b.WriteByte('-')
			inSep = true
		case r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
			inSep = false
		default:
			// dropped; does not end a separator run
			continue
		}
		n++
	}
	return b.String()
}

// TextOr returns the value of col, or def when the column is absent or NULL.
func TextOr(rec dump.RawRecord, col, def string) string {
	if v := rec.Text(col); v.Valid {
		return v.String
	}
	return def
}

// FirstNonBlank returns the first of cols holding a non-blank value.
func FirstNonBlank(rec dump.RawRecord, cols ...string) (string, bool) {
	for _, col := range cols {
		if v := rec.Text(col); v.Valid && strings.TrimSpace(v.String) != "" {
			return v.String, true
		}
	}
	return "", false
}

// NullableText returns the value of col as a nullable parameter.
func NullableText(rec dump.RawRecord, col string) pgtype.Text {
	return rec.Text(col)
}

// IsSet reports whether col is present and not NULL.
func IsSet(rec dump.RawRecord, col string) bool {
	return rec.Text(col).Valid
}

// ParseIntLenient parses a count-like value. Absent, NULL, blank and
// unparsable values yield 0.
func ParseIntLenient(v pgtype.Text) int32 {
	if !v.Valid {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v.String), 10, 32)
	if err != nil {
		return 0
	}
	return int32(n)
}

// ToPgInt4 converts an int32 to a non-NULL pgtype.Int4.
func ToPgInt4(i int32) pgtype.Int4 {
	return pgtype.Int4{Int32: i, Valid: true}
}

// ToPgBool converts a bool to a non-NULL pgtype.Bool.
func ToPgBool(b bool) pgtype.Bool {
	return pgtype.Bool{Bool: b, Valid: true}
}

// MaxBy returns the record with the greatest value of col, comparing the
// raw strings. Absent and NULL compare as "". The first of equal records
// wins. Returns false for an empty slice.
func MaxBy(records []dump.RawRecord, col string) (dump.RawRecord, bool) {
	if len(records) == 0 {
		return dump.RawRecord{}, false
	}
	best := records[0]
	bestVal := best.Text(col).String
	for _, rec := range records[1:] {
		if v := rec.Text(col).String; v > bestVal {
			best, bestVal = rec, v
		}
	}
	return best, true
}
