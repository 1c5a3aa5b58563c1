// Package export writes a DataFrame to the file formats the CLI offers
// besides CSV: XLSX spreadsheets and Parquet files.
package export

import (
	"fmt"
	"strings"

	"github.com/thesavant42/evds-ng/internal/frame"
)

// Format is an output file format
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
)

// Ext returns the file extension including the dot
func (f Format) Ext() string {
	return "." + string(f)
}

// ParseFormats parses a comma separated list such as "csv,xlsx".
// Duplicates are dropped and order is kept.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		switch f {
		case FormatCSV, FormatXLSX, FormatParquet:
		default:
			return nil, fmt.Errorf("unknown output format %q", part)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no output format given")
	}
	return out, nil
}

// Write exports df to path in the given format. The delimiter only
// applies to CSV.
func Write(df *frame.DataFrame, f Format, path string, delimiter rune) error {
	switch f {
	case FormatCSV:
		return df.ToCSV(path, delimiter)
	case FormatXLSX:
		return WriteXLSX(df, path)
	case FormatParquet:
		return WriteParquet(df, path)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}
