package domain

import (
	"errors"
	"strings"
)

// ErrMissingColumn is returned when an expected column is absent from a table.
var ErrMissingColumn = errors.New("missing column")

type ColumnType string

const (
	ColumnText    ColumnType = "text"
	ColumnNumber  ColumnType = "number"
	ColumnInteger ColumnType = "integer"
	ColumnDate    ColumnType = "date"
)

type Column struct {
	Name string
	Type ColumnType
}

// Record is one row; its values line up with the owning table's columns.
type Record []Value

func (r Record) Clone() Record {
	out := make(Record, len(r))
	copy(out, r)
	return out
}

// Key identifies the full row for exact-duplicate detection.
func (r Record) Key() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = v.Key()
	}
	return strings.Join(parts, "\x1f")
}

// Table is an in-memory tabular extract or result.
type Table struct {
	Name    string
	Columns []Column
	Rows    []Record
}

// NewTable builds an empty table whose columns are all text.
func NewTable(name string, columns ...string) Table {
	cols := make([]Column, len(columns))
	for i, c := range columns {
		cols[i] = Column{Name: c, Type: ColumnText}
	}
	return Table{Name: name, Columns: cols}
}

func (t Table) Len() int { return len(t.Rows) }

// Index returns the position of the named column or -1.
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns every value of the named column in row order.
func (t Table) Column(name string) []Value {
	idx := t.Index(name)
	if idx < 0 {
		return nil
	}
	values := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values
}

// Clone returns a deep copy so callers can derive a new table without
// touching the receiver.
func (t Table) Clone() Table {
	out := Table{
		Name:    t.Name,
		Columns: append([]Column(nil), t.Columns...),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = row.Clone()
	}
	return out
}

// Append adds a row built from the given values. Short rows are padded
// with Missing values.
func (t *Table) Append(values ...Value) {
	row := make(Record, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}
