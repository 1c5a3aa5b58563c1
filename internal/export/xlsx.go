package export

import (
	"fmt"

	"github.com/thesavant42/evds-ng/internal/frame"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the frame is written to
const SheetName = "data"

// WriteXLSX writes df to a single-sheet workbook. The header row holds the
// column names; numbers are stored as numbers, Null cells are left empty.
func WriteXLSX(df *frame.DataFrame, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	columns := df.Columns()
	header := make([]interface{}, len(columns))
	for i, name := range columns {
		header[i] = name
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for r := 0; r < df.Len(); r++ {
		cells := df.Row(r)
		row := make([]interface{}, len(cells))
		for i, c := range cells {
			row[i] = cellValue(c)
		}
		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", r, err)
		}
		if err := f.SetSheetRow(SheetName, axis, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return &frame.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func cellValue(c frame.Cell) interface{} {
	switch c.Kind() {
	case frame.KindInt:
		v, _ := c.Int()
		return v
	case frame.KindFloat:
		v, _ := c.Float()
		return v
	case frame.KindText, frame.KindDate:
		v, _ := c.Str()
		return v
	default:
		return nil
	}
}
