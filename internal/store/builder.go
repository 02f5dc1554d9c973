package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// dialect renders the parts of a statement that differ between databases.
type dialect interface {
	placeholder(n int) string
	// timestamp wraps a placeholder so NULL becomes the current time.
	timestamp(ph string) string
	// id renders the returned id column as text.
	id() string
}

type postgresDialect struct{}

func (postgresDialect) placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (postgresDialect) timestamp(ph string) string {
	return "COALESCE(" + ph + "::text::timestamp, NOW())"
}

func (postgresDialect) id() string { return quoteIdent(IDColumn) + "::text" }

type sqliteDialect struct{}

func (sqliteDialect) placeholder(int) string { return "?" }

func (sqliteDialect) timestamp(ph string) string {
	return "COALESCE(" + ph + ", CURRENT_TIMESTAMP)"
}

func (sqliteDialect) id() string { return "CAST(" + quoteIdent(IDColumn) + " AS TEXT)" }

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// statement accumulates SQL text and its positional arguments.
type statement struct {
	d    dialect
	sb   strings.Builder
	args []any
}

func (s *statement) bind(f Field) string {
	s.args = append(s.args, f.Value)
	ph := s.d.placeholder(len(s.args))
	if f.Timestamp {
		return s.d.timestamp(ph)
	}
	return ph
}

func (s *statement) String() string { return s.sb.String() }

func validateWrite(w Write) error {
	if w.Table == "" {
		return fmt.Errorf("write: table is required")
	}
	if w.Key.Column == "" {
		return fmt.Errorf("write %s: key column is required", w.Table)
	}
	return nil
}

// buildUpsert renders INSERT ... ON CONFLICT ... RETURNING id.
func buildUpsert(d dialect, w Write) (string, []any, error) {
	if err := validateWrite(w); err != nil {
		return "", nil, err
	}

	all := append([]Field{w.Key}, w.Fields...)
	st := &statement{d: d}

	cols := make([]string, len(all))
	vals := make([]string, len(all))
	for i, f := range all {
		cols[i] = quoteIdent(f.Column)
		vals[i] = st.bind(f)
	}

	fmt.Fprintf(&st.sb, "INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(w.Table), strings.Join(cols, ", "), strings.Join(vals, ", "))

	switch w.Policy {
	case ConflictIgnore:
		fmt.Fprintf(&st.sb, " ON CONFLICT (%s) DO NOTHING", quoteIdent(w.Key.Column))
	case ConflictUpdate:
		var sets []string
		for _, f := range w.Fields {
			if f.InsertOnly {
				continue
			}
			c := quoteIdent(f.Column)
			sets = append(sets, c+" = EXCLUDED."+c)
		}
		if len(sets) == 0 {
			fmt.Fprintf(&st.sb, " ON CONFLICT (%s) DO NOTHING", quoteIdent(w.Key.Column))
		} else {
			fmt.Fprintf(&st.sb, " ON CONFLICT (%s) DO UPDATE SET %s",
				quoteIdent(w.Key.Column), strings.Join(sets, ", "))
		}
	}

	st.sb.WriteString(" RETURNING " + d.id())
	return st.String(), st.args, nil
}

// buildUpdate renders UPDATE ... WHERE key = ? RETURNING id.
func buildUpdate(d dialect, w Write) (string, []any, error) {
	if err := validateWrite(w); err != nil {
		return "", nil, err
	}

	st := &statement{d: d}
	var sets []string
	for _, f := range w.Fields {
		if f.InsertOnly {
			continue
		}
		sets = append(sets, quoteIdent(f.Column)+" = "+st.bind(f))
	}
	if len(sets) == 0 {
		return "", nil, fmt.Errorf("update %s: no mutable fields", w.Table)
	}

	fmt.Fprintf(&st.sb, "UPDATE %s SET %s WHERE %s = %s RETURNING %s",
		quoteIdent(w.Table), strings.Join(sets, ", "),
		quoteIdent(w.Key.Column), st.bind(Field{Value: w.Key.Value}), d.id())
	return st.String(), st.args, nil
}

// buildFind renders SELECT id ... WHERE key = ?.
func buildFind(d dialect, table string, key Field) (string, []any) {
	st := &statement{d: d}
	fmt.Fprintf(&st.sb, "SELECT %s FROM %s WHERE %s = %s LIMIT 1",
		d.id(), quoteIdent(table), quoteIdent(key.Column), st.bind(Field{Value: key.Value}))
	return st.String(), st.args
}
