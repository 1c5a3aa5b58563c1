package api

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	seriesDelimiter = "-"
	dataGroupPrefix = "bie_"
)

// Index identifies one request: either a list of series codes fetched
// together into one table, or a single data group (bie_*).
type Index struct {
	codes []string
}

// ParseIndex splits a request template on '-' and line breaks. Data group
// names (bie_*) are kept whole.
func ParseIndex(tmpl string) Index {
	tmpl = strings.TrimSpace(tmpl)
	if strings.HasPrefix(tmpl, dataGroupPrefix) {
		return Index{codes: []string{tmpl}}
	}
	fields := strings.FieldsFunc(tmpl, func(r rune) bool {
		return r == '-' || r == '\n' || r == '\r'
	})
	codes := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			codes = append(codes, f)
		}
	}
	return Index{codes: codes}
}

// NewIndex builds an Index from explicit series codes
func NewIndex(codes ...string) Index {
	c := make([]string, len(codes))
	copy(c, codes)
	return Index{codes: c}
}

// Codes returns the series codes
func (i Index) Codes() []string {
	out := make([]string, len(i.codes))
	copy(out, i.codes)
	return out
}

// IsDataGroup reports whether the index names a bie_* data group
func (i Index) IsDataGroup() bool {
	return len(i.codes) == 1 && strings.Contains(i.codes[0], dataGroupPrefix)
}

// IsEmpty reports whether the index has no codes
func (i Index) IsEmpty() bool { return len(i.codes) == 0 }

// String joins the codes with '-'
func (i Index) String() string {
	return strings.Join(i.codes, seriesDelimiter)
}

// ParseIndexes turns the positional argument into requests. The argument
// is split on ','; a part that looks like a file name is replaced by the
// requests listed in that file, one per line.
func ParseIndexes(arg string) ([]Index, error) {
	var out []Index
	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if LooksLikeFilename(part) {
			fromFile, err := IndexesFromFile(part)
			if err != nil {
				return nil, err
			}
			out = append(out, fromFile...)
			continue
		}
		if idx := ParseIndex(part); !idx.IsEmpty() {
			out = append(out, idx)
		}
	}
	return out, nil
}

// LooksLikeFilename reports whether s names a text file of indexes rather
// than a series code. Series codes contain dots too, so only the .txt and
// .csv extensions or an existing regular file qualify.
func LooksLikeFilename(s string) bool {
	switch strings.ToLower(filepath.Ext(s)) {
	case ".txt", ".csv":
		return true
	}
	info, err := os.Stat(s)
	return err == nil && info.Mode().IsRegular()
}

// IndexesFromFile reads one request per non-empty line
func IndexesFromFile(path string) ([]Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	defer f.Close()

	var out []Index
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, ParseIndex(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}
	return out, nil
}
