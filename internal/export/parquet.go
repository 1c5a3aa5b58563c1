package export

import (
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/thesavant42/evds-ng/internal/frame"
)

// dateLayout is the DD-MM-YYYY form dates are normalised to
const dateLayout = "02-01-2006"

// ArrowType returns the Arrow type a column of the given kind is stored as.
// Integer columns stay int64, float columns (ints widened) are float64,
// date columns are date32 and everything else is a string.
func ArrowType(k frame.Kind) arrow.DataType {
	switch k {
	case frame.KindInt:
		return arrow.PrimitiveTypes.Int64
	case frame.KindFloat:
		return arrow.PrimitiveTypes.Float64
	case frame.KindDate:
		return arrow.FixedWidthTypes.Date32
	default:
		return arrow.BinaryTypes.String
	}
}

// BuildTable converts df into an Arrow table with one chunk per column.
// The caller must Release the table.
func BuildTable(df *frame.DataFrame, mem memory.Allocator) (arrow.Table, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	names := df.Columns()
	rows := df.Len()
	fields := make([]arrow.Field, len(names))
	columns := make([]arrow.Column, len(names))

	for i, name := range names {
		s, err := df.Series(name)
		if err != nil {
			return nil, err
		}
		field := arrow.Field{Name: name, Type: ArrowType(s.Kind()), Nullable: true}
		fields[i] = field

		arr := buildArray(mem, field.Type, s, rows)
		chunked := arrow.NewChunked(field.Type, []arrow.Array{arr})
		arr.Release()
		columns[i] = *arrow.NewColumn(field, chunked)
		chunked.Release()
	}

	schema := arrow.NewSchema(fields, nil)
	table := array.NewTable(schema, columns, int64(rows))
	for i := range columns {
		columns[i].Release()
	}
	return table, nil
}

func buildArray(mem memory.Allocator, dt arrow.DataType, s *frame.Series, rows int) arrow.Array {
	builder := array.NewBuilder(mem, dt)
	defer builder.Release()
	builder.Reserve(rows)

	for i := 0; i < rows; i++ {
		var c frame.Cell
		if i < s.Len() {
			c = s.At(i)
		}
		if c.IsNull() {
			builder.AppendNull()
			continue
		}
		switch b := builder.(type) {
		case *array.Int64Builder:
			v, _ := c.Int()
			b.Append(v)
		case *array.Float64Builder:
			v, _ := c.Number()
			b.Append(v)
		case *array.Date32Builder:
			v, _ := c.Str()
			t, err := time.Parse(dateLayout, v)
			if err != nil {
				b.AppendNull()
				continue
			}
			b.Append(arrow.Date32FromTime(t))
		case *array.StringBuilder:
			b.Append(c.Render())
		}
	}
	return builder.NewArray()
}

// WriteParquet writes df to a Snappy-compressed Parquet file
func WriteParquet(df *frame.DataFrame, path string) error {
	table, err := BuildTable(df, memory.NewGoAllocator())
	if err != nil {
		return err
	}
	defer table.Release()

	file, err := os.Create(path)
	if err != nil {
		return &frame.IOError{Op: "create", Path: path, Err: err}
	}
	defer file.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(table.Schema(), file, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	chunk := table.NumRows()
	if chunk == 0 {
		chunk = 1
	}
	if err := writer.WriteTable(table, chunk); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return &frame.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
