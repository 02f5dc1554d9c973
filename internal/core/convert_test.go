package core

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/dumpimport/internal/dump"
)

// record builds a RawRecord from column/value pairs. dump.NullSentinel
// stands for NULL.
func record(pairs ...string) dump.RawRecord {
	var names []string
	var values []pgtype.Text
	for i := 0; i+1 < len(pairs); i += 2 {
		names = append(names, pairs[i])
		if pairs[i+1] == dump.NullSentinel {
			values = append(values, pgtype.Text{})
			continue
		}
		values = append(values, pgtype.Text{String: pairs[i+1], Valid: true})
	}
	return dump.NewRawRecord(dump.NewColumnList(names), values)
}

// ----------------------------------------------------------------------------
// Slugify Tests
// ----------------------------------------------------------------------------

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"punctuation dropped", "Hello, World!", "hello-world"},
		{"already a slug", "hello-world", "hello-world"},
		{"whitespace run", "Go   and\tRust", "go-and-rust"},
		{"hyphen and space run", "a - b", "a-b"},
		{"underscore kept", "snake_case title", "snake_case-title"},
		{"digits kept", "Top 10 Tips", "top-10-tips"},
		{"dropped chars inside run", "a -!- b", "a-b"},
		{"leading separator kept", " lead", "-lead"},
		{"non-ASCII letters kept", "Crème Brûlée", "crème-brûlée"},
		{"only punctuation", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello, World!",
		"  many   spaces  ",
		"a--b__c",
		"Ünïcödé -- Title?",
		strings.Repeat("long title ", 60),
	}

	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify(Slugify(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestSlugify_MaxLength(t *testing.T) {
	got := Slugify(strings.Repeat("é", 400))
	if n := utf8.RuneCountInString(got); n != MaxSlugLength {
		t.Errorf("slug length = %d characters, want %d", n, MaxSlugLength)
	}

	for _, r := range Slugify(strings.Repeat("ab ", 200)) {
		if r != '-' && (r < 'a' || r > 'z') {
			t.Fatalf("unexpected character %q in slug", r)
		}
	}
}

// ----------------------------------------------------------------------------
// Field helper Tests
// ----------------------------------------------------------------------------

func TestTextOr(t *testing.T) {
	rec := record("title", "Hello", "summary", dump.NullSentinel, "empty", "")

	tests := []struct {
		col  string
		want string
	}{
		{"title", "Hello"},
		{"summary", "default"},
		{"empty", ""},
		{"absent", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.col, func(t *testing.T) {
			if got := TextOr(rec, tt.col, "default"); got != tt.want {
				t.Errorf("TextOr(%q) = %q, want %q", tt.col, got, tt.want)
			}
		})
	}
}

func TestFirstNonBlank(t *testing.T) {
	tests := []struct {
		name   string
		rec    dump.RawRecord
		want   string
		wantOK bool
	}{
		{"primary column", record("name", "Go", "tag", "golang"), "Go", true},
		{"falls back on NULL", record("name", dump.NullSentinel, "tag", "golang"), "golang", true},
		{"falls back on blank", record("name", "  ", "tag", "golang"), "golang", true},
		{"falls back on absent", record("tag", "golang"), "golang", true},
		{"nothing usable", record("name", dump.NullSentinel, "tag", ""), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstNonBlank(tt.rec, "name", "tag")
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FirstNonBlank() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNullableText(t *testing.T) {
	rec := record("a", "x", "b", dump.NullSentinel)

	if got := NullableText(rec, "a"); !got.Valid || got.String != "x" {
		t.Errorf("NullableText(a) = %+v, want valid x", got)
	}
	if got := NullableText(rec, "b"); got.Valid {
		t.Errorf("NullableText(b) = %+v, want NULL", got)
	}
	if got := NullableText(rec, "c"); got.Valid {
		t.Errorf("NullableText(c) = %+v, want NULL for absent column", got)
	}
	if !IsSet(rec, "a") || IsSet(rec, "b") || IsSet(rec, "c") {
		t.Error("IsSet should be true only for present non-NULL columns")
	}
}

func TestParseIntLenient(t *testing.T) {
	tests := []struct {
		name  string
		input pgtype.Text
		want  int32
	}{
		{"integer", pgtype.Text{String: "42", Valid: true}, 42},
		{"negative", pgtype.Text{String: "-3", Valid: true}, -3},
		{"surrounding space", pgtype.Text{String: " 7 ", Valid: true}, 7},
		{"NULL", pgtype.Text{}, 0},
		{"blank", pgtype.Text{String: "", Valid: true}, 0},
		{"word", pgtype.Text{String: "many", Valid: true}, 0},
		{"decimal", pgtype.Text{String: "1.5", Valid: true}, 0},
		{"overflow", pgtype.Text{String: "99999999999", Valid: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseIntLenient(tt.input); got != tt.want {
				t.Errorf("ParseIntLenient(%+v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestToPg(t *testing.T) {
	if got := ToPgInt4(5); !got.Valid || got.Int32 != 5 {
		t.Errorf("ToPgInt4(5) = %+v", got)
	}
	if got := ToPgBool(false); !got.Valid || got.Bool {
		t.Errorf("ToPgBool(false) = %+v, want valid false", got)
	}
}

// ----------------------------------------------------------------------------
// MaxBy Tests
// ----------------------------------------------------------------------------

func TestMaxBy(t *testing.T) {
	older := record("header", "old", "updated_at", "2023-01-01 00:00:00")
	newer := record("header", "new", "updated_at", "2024-06-01 00:00:00")
	null := record("header", "null", "updated_at", dump.NullSentinel)
	tie := record("header", "tie", "updated_at", "2024-06-01 00:00:00")

	tests := []struct {
		name    string
		records []dump.RawRecord
		want    string
		wantOK  bool
	}{
		{"empty", nil, "", false},
		{"single", []dump.RawRecord{older}, "old", true},
		{"latest wins", []dump.RawRecord{older, newer}, "new", true},
		{"order independent", []dump.RawRecord{newer, older}, "new", true},
		{"NULL sorts first", []dump.RawRecord{null, older}, "old", true},
		{"first of equals wins", []dump.RawRecord{newer, tie}, "new", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MaxBy(tt.records, "updated_at")
			if ok != tt.wantOK {
				t.Fatalf("MaxBy() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Text("header").String != tt.want {
				t.Errorf("MaxBy() picked %q, want %q", got.Text("header").String, tt.want)
			}
		})
	}
}
