package frame

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// SkippedField is never classified and never becomes a column. EVDS adds
// it to every item next to the human readable date.
const SkippedField = "UNIXTIME"

var (
	fullDatePattern  = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	yearMonthPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
)

// Infer classifies one raw JSON value. Numbers keep their native type,
// strings go through InferString. Booleans, objects and arrays carry no
// tabular meaning and become Null.
func Infer(v gjson.Result) Cell {
	switch v.Type {
	case gjson.Null:
		return Null()
	case gjson.Number:
		return inferNumber(v.Raw, v.Num)
	case gjson.String:
		return InferString(v.Str)
	case gjson.True, gjson.False, gjson.JSON:
		return Null()
	}
	return Null()
}

func inferNumber(raw string, num float64) Cell {
	if strings.ContainsAny(raw, ".eE") {
		return Float(num)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Int(i)
	}
	// integer literal outside int64
	return Float(num)
}

// InferString applies the string precedence rules: full date, year-month
// date, decimal number, integer, then text. A failed numeric parse is not
// an error; the original string is kept as Text.
func InferString(s string) Cell {
	if fullDatePattern.MatchString(s) {
		return Date(s)
	}
	if m := yearMonthPattern.FindStringSubmatch(s); m != nil {
		month := m[2]
		if len(month) == 1 {
			month = "0" + month
		}
		return Date("01-" + month + "-" + m[1])
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f)
		}
		return Text(s)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	return Text(s)
}
