package frame

import (
	"math"
	"strconv"
)

// Kind tags the variant held by a Cell
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	}
	return "unknown"
}

// Cell is one table position. It holds exactly one of Null, Integer,
// Float, Text or Date (DD-MM-YYYY). Cells are values: converting a cell
// means building a new one.
type Cell struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Null returns the absent cell
func Null() Cell { return Cell{} }

// Int returns an Integer cell
func Int(v int64) Cell { return Cell{kind: KindInt, i: v} }

// Float returns a Float cell
func Float(v float64) Cell { return Cell{kind: KindFloat, f: v} }

// Text returns a Text cell
func Text(s string) Cell { return Cell{kind: KindText, s: s} }

// Date returns a Date cell. The caller is responsible for passing the
// canonical DD-MM-YYYY form.
func Date(s string) Cell { return Cell{kind: KindDate, s: s} }

// Kind reports which variant the cell holds
func (c Cell) Kind() Kind { return c.kind }

// IsNull reports whether the cell is absent
func (c Cell) IsNull() bool { return c.kind == KindNull }

// Int returns the integer payload; ok is false for any other variant.
func (c Cell) Int() (int64, bool) {
	if c.kind != KindInt {
		return 0, false
	}
	return c.i, true
}

// Float returns the float payload; ok is false for any other variant.
func (c Cell) Float() (float64, bool) {
	if c.kind != KindFloat {
		return 0, false
	}
	return c.f, true
}

// Str returns the string payload of a Text or Date cell.
func (c Cell) Str() (string, bool) {
	if c.kind != KindText && c.kind != KindDate {
		return "", false
	}
	return c.s, true
}

// Number widens Integer and Float cells to float64
func (c Cell) Number() (float64, bool) {
	switch c.kind {
	case KindInt:
		return float64(c.i), true
	case KindFloat:
		return c.f, true
	case KindNull, KindText, KindDate:
		return math.NaN(), false
	}
	return math.NaN(), false
}

// Render returns the serialized form used by CSV and text exports.
// Null renders as the empty string and floats use fixed notation with the
// shortest representation that parses back to the same value.
func (c Cell) Render() string {
	switch c.kind {
	case KindNull:
		return ""
	case KindInt:
		return strconv.FormatInt(c.i, 10)
	case KindFloat:
		return strconv.FormatFloat(c.f, 'f', -1, 64)
	case KindText, KindDate:
		return c.s
	}
	return ""
}

// Equal compares variant and payload. Two Float cells holding NaN are equal.
func (c Cell) Equal(o Cell) bool {
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case KindNull:
		return true
	case KindInt:
		return c.i == o.i
	case KindFloat:
		if math.IsNaN(c.f) && math.IsNaN(o.f) {
			return true
		}
		return c.f == o.f
	case KindText, KindDate:
		return c.s == o.s
	}
	return false
}

// String is meant for debugging and test output
func (c Cell) String() string {
	if c.kind == KindNull {
		return "null"
	}
	return c.kind.String() + "(" + c.Render() + ")"
}
