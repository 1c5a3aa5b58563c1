package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddValueCreatesColumns(t *testing.T) {
	df := New()

	df.AddValue("Column1", Float(42.0))
	df.AddValue("Column1", Null())
	df.AddValue("Column1", Float(36.5))

	df.AddValue("Column2", Text("Hello"))
	df.AddValue("Column2", Text("World"))
	df.AddValue("Column2", Null())

	assert.Equal(t, []string{"Column1", "Column2"}, df.Columns())
	assert.Equal(t, 3, df.Len())

	c1, err := df.Column("Column1")
	require.NoError(t, err)
	c2, err := df.Column("Column2")
	require.NoError(t, err)
	assert.Equal(t, 3, c1.Len())
	assert.Equal(t, 3, c2.Len())
}

func TestEndRecordKeepsRowsAligned(t *testing.T) {
	df := New()

	df.AddValue("a", Int(1))
	df.AddValue("b", Int(2))
	df.EndRecord()

	df.AddValue("a", Int(3))
	df.EndRecord()

	df.AddValue("c", Text("x"))
	df.EndRecord()

	require.Equal(t, 3, df.Len())
	for _, name := range df.Columns() {
		col, err := df.Column(name)
		require.NoError(t, err)
		assert.Equal(t, 3, col.Len(), "column %s", name)
	}

	tests := []struct {
		column string
		want   []Cell
	}{
		{"a", []Cell{Int(1), Int(3), Null()}},
		{"b", []Cell{Int(2), Null(), Null()}},
		{"c", []Cell{Null(), Null(), Text("x")}},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			s, err := df.Series(tt.column)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Cells())
		})
	}
}

func TestLateColumnIsBackFilled(t *testing.T) {
	df := New()
	for i := 0; i < 50; i++ {
		df.AddValue("date", Date("01-01-2021"))
		df.EndRecord()
	}
	df.AddValue("date", Date("01-02-2021"))
	df.AddValue("late", Float(1.5))
	df.EndRecord()

	s, err := df.Series("late")
	require.NoError(t, err)
	require.Equal(t, 51, s.Len())
	assert.Equal(t, 50, s.NullCount())
	assert.Equal(t, Float(1.5), s.At(50))
}

func TestEmptyRecordStillCounts(t *testing.T) {
	df := New()
	df.AddValue("a", Int(1))
	df.EndRecord()
	df.EndRecord()

	assert.Equal(t, 2, df.Len())
	cell, err := df.At("a", 1)
	require.NoError(t, err)
	assert.True(t, cell.IsNull())
}

func TestSeriesColumnNotFound(t *testing.T) {
	df := New()
	df.AddValue("a", Int(1))

	_, err := df.Series("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrColumnNotFound)
	assert.Contains(t, err.Error(), "missing")

	_, err = df.Floats("missing")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestSeriesIsSnapshot(t *testing.T) {
	df := New()
	df.AddValue("a", Int(1))
	df.EndRecord()

	s, err := df.Series("a")
	require.NoError(t, err)

	df.AddValue("a", Int(2))
	df.EndRecord()

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, df.Len())
}

func TestRow(t *testing.T) {
	df := New()
	df.AddValue("a", Int(1))
	df.AddValue("b", Text("x"))
	df.EndRecord()

	assert.Equal(t, []Cell{Int(1), Text("x")}, df.Row(0))
	assert.Equal(t, []Cell{Null(), Null()}, df.Row(5))
}

func TestValuesAccessors(t *testing.T) {
	df := New()
	df.AddValue("Column1", Float(42.0))
	df.AddValue("Column1", Float(36.5))
	df.AddValue("Column2", Text("Hello"))
	df.AddValue("Column2", Text("World"))

	floats, err := df.Floats("Column1")
	require.NoError(t, err)
	assert.Equal(t, []float64{42.0, 36.5}, floats)

	strs, err := df.Strings("Column2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", "World"}, strs)
}
