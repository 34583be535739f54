// Package table holds the in-memory columnar dataset that every cleaning stage
// mutates in place.
package table

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotFound is returned when a named column does not exist.
	ErrColumnNotFound = errors.New("column not found")
	// ErrLengthMismatch is returned when a column's length differs from the table row count.
	ErrLengthMismatch = errors.New("column length mismatch")
	// ErrDuplicateColumn is returned when a column name is already present.
	ErrDuplicateColumn = errors.New("duplicate column")
)

// Table is an ordered collection of equal-length columns.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New returns an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// AddColumn appends c. The first column fixes the row count.
func (t *Table) AddColumn(c *Column) error {
	if _, ok := t.index[c.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Name)
	}
	if len(t.cols) == 0 {
		t.rows = c.Len()
	} else if c.Len() != t.rows {
		return fmt.Errorf("%w: %s has %d rows, table has %d", ErrLengthMismatch, c.Name, c.Len(), t.rows)
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// NumRows returns the shared row count.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the columns in insertion order. The slice must not be modified.
func (t *Table) Columns() []*Column { return t.cols }

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// MustColumn is Column returning ErrColumnNotFound instead of a bool.
func (t *Table) MustColumn(name string) (*Column, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return c, nil
}

// ColumnsOf returns the names of columns with the given kind, in order.
func (t *Table) ColumnsOf(k Kind) []string {
	var out []string
	for _, c := range t.cols {
		if c.Kind == k {
			out = append(out, c.Name)
		}
	}
	return out
}

// NumericColumns returns the names of numeric columns. Booleans are excluded.
func (t *Table) NumericColumns() []string { return t.ColumnsOf(Numeric) }

// DropColumns removes the named columns. Unknown names are ignored.
func (t *Table) DropColumns(names ...string) {
	if len(names) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	kept := t.cols[:0]
	for _, c := range t.cols {
		if _, ok := drop[c.Name]; !ok {
			kept = append(kept, c)
		}
	}
	t.cols = kept
	t.reindex()
}

// FilterRows keeps only rows where keep[i] is true.
func (t *Table) FilterRows(keep []bool) error {
	if len(keep) != t.rows {
		return fmt.Errorf("%w: mask has %d rows, table has %d", ErrLengthMismatch, len(keep), t.rows)
	}
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	if n == t.rows {
		return nil
	}
	for _, c := range t.cols {
		c.filter(keep, n)
	}
	t.rows = n
	return nil
}

// SetCategorical tags the named columns as categorical.
func (t *Table) SetCategorical(names ...string) error {
	for _, n := range names {
		c, err := t.MustColumn(n)
		if err != nil {
			return err
		}
		c.toCategorical()
	}
	return nil
}

// Record returns row i formatted as strings, in column order.
func (t *Table) Record(i int) []string {
	rec := make([]string, len(t.cols))
	for j, c := range t.cols {
		rec[j] = c.Format(i)
	}
	return rec
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	cp := &Table{index: make(map[string]int, len(t.cols)), rows: t.rows}
	for _, c := range t.cols {
		cp.cols = append(cp.cols, c.clone())
	}
	cp.reindex()
	return cp
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.cols))
	for i, c := range t.cols {
		t.index[c.Name] = i
	}
	if len(t.cols) == 0 {
		t.rows = 0
	}
}
