package frame

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrColumnNotFound is returned when a column name was never ingested.
	ErrColumnNotFound = errors.New("column not found")

	// ErrInvalidConversion is returned when typed extraction meets a cell
	// that cannot be represented in the requested type.
	ErrInvalidConversion = errors.New("invalid conversion")

	// ErrIO marks failures to open, read or write a file.
	ErrIO = errors.New("i/o failure")
)

// IOError records the file operation that failed
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }

// ConversionError lists the positions of a Series that could not be
// converted. The extracted slice is still returned alongside it.
type ConversionError struct {
	Series    string
	Target    Kind
	Positions []int
	Kinds     []Kind
}

func (e *ConversionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "series %q: %d value(s) not convertible to %s", e.Series, len(e.Positions), e.Target)
	for i, pos := range e.Positions {
		if i == 3 {
			b.WriteString(", ...")
			break
		}
		if i == 0 {
			b.WriteString(" (")
		} else {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "row %d is %s", pos, e.Kinds[i])
	}
	if len(e.Positions) > 0 {
		b.WriteString(")")
	}
	return b.String()
}

func (e *ConversionError) Unwrap() error { return ErrInvalidConversion }
