package dump

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// ColumnList is the ordered column list declared by a COPY header.
type ColumnList struct {
	names []string
	index map[string]int
}

// NewColumnList builds a ColumnList. Later duplicates of a name are
// ignored for lookups but still occupy their position.
func NewColumnList(names []string) *ColumnList {
	idx := make(map[string]int, len(names))
	for i, n := range names {
		if _, ok := idx[n]; !ok {
			idx[n] = i
		}
	}
	return &ColumnList{names: names, index: idx}
}

// Names returns the declared column names in order.
func (c *ColumnList) Names() []string {
	if c == nil {
		return nil
	}
	return c.names
}

// Has reports whether name is a declared column.
func (c *ColumnList) Has(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[name]
	return ok
}

// Len returns the number of declared columns.
func (c *ColumnList) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// RawRecord is one data line of a COPY block, mapped onto its ColumnList.
//
// A NULL field is present with Valid=false. A field missing from a short
// (ragged) line is not present at all.
type RawRecord struct {
	cols   *ColumnList
	values []pgtype.Text
}

// NewRawRecord builds a record from already-decoded values. Values beyond
// the column count are dropped.
func NewRawRecord(cols *ColumnList, values []pgtype.Text) RawRecord {
	if len(values) > cols.Len() {
		values = values[:cols.Len()]
	}
	return RawRecord{cols: cols, values: values}
}

// Get returns the value of a column and whether the line carried a field
// for it.
func (r RawRecord) Get(col string) (pgtype.Text, bool) {
	if r.cols == nil {
		return pgtype.Text{}, false
	}
	i, ok := r.cols.index[col]
	if !ok || i >= len(r.values) {
		return pgtype.Text{}, false
	}
	return r.values[i], true
}

// Text returns the value of a column, treating absent the same as NULL.
func (r RawRecord) Text(col string) pgtype.Text {
	v, _ := r.Get(col)
	return v
}

// Has reports whether the line carried a field for col, NULL or not.
func (r RawRecord) Has(col string) bool {
	_, ok := r.Get(col)
	return ok
}

// Columns returns the names of the columns present in this record.
func (r RawRecord) Columns() []string {
	if r.cols == nil {
		return nil
	}
	return r.cols.names[:len(r.values)]
}

// Len returns the number of fields present.
func (r RawRecord) Len() int {
	return len(r.values)
}
