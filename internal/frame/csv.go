package frame

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// WriteCSV writes a header of column names followed by one line per row.
// Fields are quoted as in RFC 4180 when they contain the delimiter, a
// double quote or a line break. Like encoding/csv, a field starting with
// whitespace and the literal field \. are quoted too. A record made of a
// single empty field is written as "" so it does not read back as a blank
// line. A column shorter than the frame contributes empty fields for the
// missing rows.
func (df *DataFrame) WriteCSV(w io.Writer, delimiter rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	if err := writeRecord(w, cw, df.Columns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	n := df.Len()
	record := make([]string, len(df.order))
	for i := 0; i < n; i++ {
		for j, name := range df.order {
			cells := df.columns[name].cells
			if i < len(cells) {
				record[j] = cells[i].Render()
			} else {
				record[j] = ""
			}
		}
		if err := writeRecord(w, cw, record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// writeRecord writes one record through cw. csv.Writer emits a lone empty
// field as an empty line, which readers skip, so that case goes straight
// to w as a quoted empty field after flushing what cw has buffered.
func writeRecord(w io.Writer, cw *csv.Writer, record []string) error {
	if len(record) != 1 || record[0] != "" {
		return cw.Write(record)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\"\"\n")
	return err
}

// ToCSV writes the frame to path, replacing any existing file
func (df *DataFrame) ToCSV(path string, delimiter rune) error {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}

	bw := bufio.NewWriter(f)
	if err := df.WriteCSV(bw, delimiter); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}
