package api

import (
	"strings"
	"unicode"
)

const maxShortName = 15

// NormalizeDelimiters turns line breaks into '-', collapses runs of '-'
// and drops a trailing one.
func NormalizeDelimiters(s string) string {
	s = strings.ReplaceAll(s, "\n", "-")
	var b strings.Builder
	lastHyphen := false
	for _, r := range s {
		if r == '-' {
			if lastHyphen {
				continue
			}
			lastHyphen = true
		} else {
			lastHyphen = false
		}
		b.WriteRune(r)
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ShortFilename derives a compact file stem from an index such as
// "TP.DK.USD.A-TP.DK.EUR.A" -> "TpDkUsdATpDkEur". Names shorter than
// nine characters and bie_* data groups are returned unchanged.
func ShortFilename(index string) string {
	if len(index) < 9 || strings.Contains(index, dataGroupPrefix) {
		return index
	}

	var b strings.Builder
	capitalizeNext := true
	for _, r := range index {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if capitalizeNext {
				b.WriteRune(unicode.ToUpper(r))
				capitalizeNext = false
			} else {
				b.WriteRune(unicode.ToLower(r))
			}
		case r == '-' || r == '_' || r == '.':
			capitalizeNext = true
		}
	}

	out := b.String()
	if len(out) > maxShortName {
		out = out[:maxShortName]
	}
	return out
}

// OutputName returns the output file name for an index with extension ext
func OutputName(index string, ext string) string {
	return "data_" + ShortFilename(index) + ext
}
