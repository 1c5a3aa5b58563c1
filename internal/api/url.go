package api

import (
	"strings"
)

// BaseURL is the EVDS service root
const BaseURL = "https://evds2.tcmb.gov.tr/"

// Value that leaves an option out of the URL
const Default = "default"

// Query holds the request options shared by every index
type Query struct {
	StartDate   string // DD-MM-YYYY
	EndDate     string // DD-MM-YYYY
	Frequency   string // daily, business, weekly, semimonthly, monthly, quarterly, semiannually, annual
	Formulas    string // level, percentage_change, difference, yoy, ...
	Aggregation string // avg, min, max, first, last, sum
}

var frequencyCodes = map[string]string{
	"daily":        "1",
	"business":     "2",
	"weekly":       "3",
	"semimonthly":  "4",
	"monthly":      "5",
	"quarterly":    "6",
	"semiannually": "7",
	"annual":       "8",
	"annually":     "8",
}

var formulaCodes = map[string]string{
	"level":             "0",
	"percentage_change": "1",
	"pc":                "1",
	"difference":        "2",
	"d":                 "2",
	"yoy":               "3",
	"yoy_p":             "3",
	"yoy_pc":            "3",
	"yoy_percent":       "3",
	"yoy_diff":          "4",
	"yoy_d":             "4",
	"pc_end":            "5",
	"dif_end":           "6",
	"mov_ave":           "7",
	"ma":                "7",
	"mov_sum":           "8",
	"ms":                "8",
}

// FrequencyCode maps a frequency name to the EVDS code
func FrequencyCode(name string) (string, bool) {
	code, ok := frequencyCodes[strings.ToLower(name)]
	return code, ok
}

// FormulaCode maps a formula name to the EVDS code
func FormulaCode(name string) (string, bool) {
	code, ok := formulaCodes[strings.ToLower(name)]
	return code, ok
}

// BuildURL returns the request URL for idx. Data groups only take the date
// range; series requests add frequency, aggregation and formula options,
// the last two repeated once per series code.
func BuildURL(base string, idx Index, q Query) string {
	if base == "" {
		base = BaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	var b strings.Builder
	b.WriteString(base)
	if idx.IsDataGroup() {
		b.WriteString("service/evds/datagroup=")
		b.WriteString(idx.String())
		writeDates(&b, q)
		b.WriteString("&type=json")
		return b.String()
	}

	b.WriteString("service/evds/series=")
	b.WriteString(idx.String())
	writeDates(&b, q)

	n := len(idx.codes)
	frequency, hasFrequency := FrequencyCode(q.Frequency)
	if hasFrequency {
		b.WriteString("&frequency=")
		b.WriteString(frequency)

		b.WriteString("&aggregationTypes=")
		if q.Aggregation == "" || q.Aggregation == Default {
			b.WriteString(repeat("avg", n))
		} else {
			b.WriteString(q.Aggregation)
		}
	}
	if formula, ok := FormulaCode(q.Formulas); ok {
		b.WriteString("&formulas=")
		b.WriteString(repeat(formula, n))
	}

	b.WriteString("&type=json")
	return b.String()
}

func writeDates(b *strings.Builder, q Query) {
	b.WriteString("&startDate=")
	b.WriteString(q.StartDate)
	b.WriteString("&endDate=")
	b.WriteString(q.EndDate)
}

func repeat(v string, n int) string {
	if n < 1 {
		n = 1
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = v
	}
	return strings.Join(parts, seriesDelimiter)
}
