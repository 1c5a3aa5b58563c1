// Package frame holds the typed columnar table that EVDS responses are
// flattened into.
//
// A DataFrame is an insertion-ordered set of named columns. Every record
// contributes exactly one cell to every column the frame has seen: absent
// keys are padded with Null when the record ends, and a column first seen
// at record k is back-filled with k Nulls, so rows stay aligned even when
// the service returns items with different key sets.
package frame

import (
	"fmt"
)

// Column is the ordered sequence of cells for one field
type Column struct {
	name  string
	cells []Cell
}

// Name returns the field name
func (c *Column) Name() string { return c.name }

// Len returns the number of cells
func (c *Column) Len() int { return len(c.cells) }

// DataFrame maps column names to columns in insertion order
type DataFrame struct {
	order   []string
	columns map[string]*Column
	records int // committed by EndRecord
}

// New creates an empty DataFrame
func New() *DataFrame {
	return &DataFrame{columns: make(map[string]*Column)}
}

// AddValue appends a cell to the named column, creating it on first use.
// A new column is back-filled with Null for every record already committed.
func (df *DataFrame) AddValue(name string, cell Cell) {
	col, ok := df.columns[name]
	if !ok {
		col = &Column{name: name, cells: make([]Cell, df.records, df.records+1)}
		df.columns[name] = col
		df.order = append(df.order, name)
	}
	col.cells = append(col.cells, cell)
}

// EndRecord closes the current record: every column is padded with Null
// up to the new record count. A record that added nothing still counts as
// a row of Nulls.
func (df *DataFrame) EndRecord() {
	target := df.records + 1
	for _, col := range df.columns {
		if len(col.cells) > target {
			target = len(col.cells)
		}
	}
	for _, col := range df.columns {
		for len(col.cells) < target {
			col.cells = append(col.cells, Null())
		}
	}
	df.records = target
}

// Len returns the number of rows, the length of the longest column
func (df *DataFrame) Len() int {
	n := df.records
	for _, col := range df.columns {
		if len(col.cells) > n {
			n = len(col.cells)
		}
	}
	return n
}

// Columns returns the column names in insertion order
func (df *DataFrame) Columns() []string {
	out := make([]string, len(df.order))
	copy(out, df.order)
	return out
}

// Has reports whether the column exists
func (df *DataFrame) Has(name string) bool {
	_, ok := df.columns[name]
	return ok
}

// Column returns the live column; callers must not retain it across
// further ingestion.
func (df *DataFrame) Column(name string) (*Column, error) {
	col, ok := df.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return col, nil
}

// At returns the cell at row i of the named column. Rows past the end of
// a short column read as Null.
func (df *DataFrame) At(name string, i int) (Cell, error) {
	col, err := df.Column(name)
	if err != nil {
		return Null(), err
	}
	if i < 0 || i >= len(col.cells) {
		return Null(), nil
	}
	return col.cells[i], nil
}

// Row returns the cells of row i across all columns in insertion order
func (df *DataFrame) Row(i int) []Cell {
	row := make([]Cell, len(df.order))
	for j, name := range df.order {
		cells := df.columns[name].cells
		if i >= 0 && i < len(cells) {
			row[j] = cells[i]
		}
	}
	return row
}

// Series returns a snapshot of the named column
func (df *DataFrame) Series(name string) (*Series, error) {
	col, err := df.Column(name)
	if err != nil {
		return nil, err
	}
	cells := make([]Cell, len(col.cells))
	copy(cells, col.cells)
	return &Series{name: name, cells: cells}, nil
}

// Floats extracts the named column as float64, see Series.Floats
func (df *DataFrame) Floats(name string) ([]float64, error) {
	s, err := df.Series(name)
	if err != nil {
		return nil, err
	}
	return s.Floats()
}

// Ints extracts the named column as int64, see Series.Ints
func (df *DataFrame) Ints(name string) ([]int64, []bool, error) {
	s, err := df.Series(name)
	if err != nil {
		return nil, nil, err
	}
	return s.Ints()
}

// Strings extracts the named column as text, see Series.Strings
func (df *DataFrame) Strings(name string) ([]string, error) {
	s, err := df.Series(name)
	if err != nil {
		return nil, err
	}
	return s.Strings(), nil
}
