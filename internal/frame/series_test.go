package frame

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatsNullBecomesNaN(t *testing.T) {
	s := NewSeries("Column1", []Cell{Null(), Float(36.5), Int(2)})

	vals, err := s.Floats()
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.True(t, math.IsNaN(vals[0]))
	assert.Equal(t, 36.5, vals[1])
	assert.Equal(t, 2.0, vals[2])
}

func TestFloatsReportsText(t *testing.T) {
	s := NewSeries("mixed", []Cell{Float(1), Text("n/a"), Date("01-01-2021"), Null()})

	vals, err := s.Floats()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConversion)

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "mixed", convErr.Series)
	assert.Equal(t, []int{1, 2}, convErr.Positions)
	assert.Equal(t, []Kind{KindText, KindDate}, convErr.Kinds)

	require.Len(t, vals, 4)
	assert.Equal(t, 1.0, vals[0])
	assert.True(t, math.IsNaN(vals[1]))
	assert.True(t, math.IsNaN(vals[2]))
	assert.True(t, math.IsNaN(vals[3]))
}

func TestInts(t *testing.T) {
	s := NewSeries("n", []Cell{Int(4), Null(), Float(5), Float(5.5), Text("x")})

	vals, valid, err := s.Ints()
	assert.ErrorIs(t, err, ErrInvalidConversion)
	assert.Equal(t, []int64{4, 0, 5, 0, 0}, vals)
	assert.Equal(t, []bool{true, false, true, false, false}, valid)

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, []int{3, 4}, convErr.Positions)
}

func TestStringsSentinel(t *testing.T) {
	s := NewSeries("Column2", []Cell{Text("Hello"), Null(), Date("01-05-2021"), Int(3)})

	got := s.Strings()
	assert.Equal(t, []string{"Hello", NullString, "01-05-2021", NullString}, got)
	assert.Equal(t, "NaN", got[1])
}

func TestSeriesKind(t *testing.T) {
	tests := []struct {
		name  string
		cells []Cell
		want  Kind
	}{
		{"empty", nil, KindNull},
		{"all null", []Cell{Null(), Null()}, KindNull},
		{"ints", []Cell{Int(1), Null(), Int(2)}, KindInt},
		{"ints and floats", []Cell{Int(1), Float(2.5)}, KindFloat},
		{"dates", []Cell{Date("01-01-2021"), Null()}, KindDate},
		{"dates and numbers", []Cell{Date("01-01-2021"), Int(1)}, KindText},
		{"text", []Cell{Float(1), Text("x")}, KindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSeries("s", tt.cells).Kind())
		})
	}
}

func TestConversionErrorMessage(t *testing.T) {
	s := NewSeries("x", []Cell{Text("a"), Text("b"), Text("c"), Text("d")})
	_, err := s.Floats()
	require.Error(t, err)
	assert.Equal(t, `series "x": 4 value(s) not convertible to float (row 0 is text, row 1 is text, row 2 is text, ...)`, err.Error())
}
