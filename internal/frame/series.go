package frame

import (
	"math"
)

// NullString is what Strings yields for cells that hold no text
const NullString = "NaN"

// Series is a named, read-only copy of a column taken at access time
type Series struct {
	name  string
	cells []Cell
}

// NewSeries builds a Series from cells; the slice is copied.
func NewSeries(name string, cells []Cell) *Series {
	c := make([]Cell, len(cells))
	copy(c, cells)
	return &Series{name: name, cells: c}
}

func (s *Series) Name() string { return s.name }

func (s *Series) Len() int { return len(s.cells) }

// At returns the cell at i
func (s *Series) At(i int) Cell { return s.cells[i] }

// Cells returns a copy of the underlying cells
func (s *Series) Cells() []Cell {
	out := make([]Cell, len(s.cells))
	copy(out, s.cells)
	return out
}

// NullCount returns the number of Null cells
func (s *Series) NullCount() int {
	n := 0
	for _, c := range s.cells {
		if c.IsNull() {
			n++
		}
	}
	return n
}

// Kind reports the single type that can hold every non-null cell:
// KindInt when only integers appear, KindFloat when integers and floats
// mix, KindDate when only dates appear, KindNull when everything is null
// and KindText otherwise.
func (s *Series) Kind() Kind {
	var ints, floats, dates, texts int
	for _, c := range s.cells {
		switch c.Kind() {
		case KindNull:
		case KindInt:
			ints++
		case KindFloat:
			floats++
		case KindDate:
			dates++
		case KindText:
			texts++
		}
	}
	switch {
	case texts > 0:
		return KindText
	case dates > 0 && ints+floats > 0:
		return KindText
	case dates > 0:
		return KindDate
	case floats > 0:
		return KindFloat
	case ints > 0:
		return KindInt
	}
	return KindNull
}

// Floats converts every cell to float64. Integers widen and Null becomes
// NaN. Text and Date cells also become NaN, and their positions are
// reported through a *ConversionError; the returned slice is always
// complete.
func (s *Series) Floats() ([]float64, error) {
	out := make([]float64, len(s.cells))
	var bad *ConversionError
	for i, c := range s.cells {
		switch c.Kind() {
		case KindInt, KindFloat:
			out[i], _ = c.Number()
		case KindNull:
			out[i] = math.NaN()
		case KindText, KindDate:
			out[i] = math.NaN()
			bad = s.flag(bad, KindFloat, i, c.Kind())
		}
	}
	if bad != nil {
		return out, bad
	}
	return out, nil
}

// Ints converts every cell to int64. valid[i] is false where the cell is
// Null or could not be converted. Floats convert only when integral; Text,
// Date and fractional Float cells are reported through a *ConversionError.
func (s *Series) Ints() ([]int64, []bool, error) {
	out := make([]int64, len(s.cells))
	valid := make([]bool, len(s.cells))
	var bad *ConversionError
	for i, c := range s.cells {
		switch c.Kind() {
		case KindInt:
			out[i], _ = c.Int()
			valid[i] = true
		case KindFloat:
			f, _ := c.Float()
			if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
				out[i] = int64(f)
				valid[i] = true
				continue
			}
			bad = s.flag(bad, KindInt, i, c.Kind())
		case KindNull:
		case KindText, KindDate:
			bad = s.flag(bad, KindInt, i, c.Kind())
		}
	}
	if bad != nil {
		return out, valid, bad
	}
	return out, valid, nil
}

// Strings returns Text and Date cells verbatim. Null and numeric cells
// become NullString.
func (s *Series) Strings() []string {
	out := make([]string, len(s.cells))
	for i, c := range s.cells {
		switch c.Kind() {
		case KindText, KindDate:
			out[i], _ = c.Str()
		case KindNull, KindInt, KindFloat:
			out[i] = NullString
		}
	}
	return out
}

func (s *Series) flag(e *ConversionError, target Kind, pos int, got Kind) *ConversionError {
	if e == nil {
		e = &ConversionError{Series: s.name, Target: target}
	}
	e.Positions = append(e.Positions, pos)
	e.Kinds = append(e.Kinds, got)
	return e
}
