package frame

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrMalformedDocument is returned when a response body is not valid JSON
var ErrMalformedDocument = errors.New("malformed JSON document")

// ItemsKey is where EVDS puts the list of records
const ItemsKey = "items"

// IngestItem adds one JSON object as a record. Fields are visited in
// document order; a key repeated inside the same object keeps its first
// position and its last value.
func IngestItem(df *DataFrame, item gjson.Result) {
	var keys []string
	values := make(map[string]Cell)
	item.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if name == SkippedField {
			return true
		}
		if _, seen := values[name]; !seen {
			keys = append(keys, name)
		}
		values[name] = Infer(value)
		return true
	})
	for _, name := range keys {
		df.AddValue(name, values[name])
	}
	df.EndRecord()
}

// IngestDocument parses body and ingests every object in the array stored
// under key. It returns the number of records added. A document without
// the key adds nothing; elements that are not objects are skipped.
func IngestDocument(df *DataFrame, body []byte, key string) (int, error) {
	if !gjson.ValidBytes(body) {
		return 0, ErrMalformedDocument
	}
	items := gjson.GetBytes(body, key)
	if !items.Exists() {
		return 0, nil
	}
	if !items.IsArray() {
		return 0, fmt.Errorf("%w: %q is not an array", ErrMalformedDocument, key)
	}
	n := 0
	items.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		IngestItem(df, item)
		n++
		return true
	})
	return n, nil
}

// Parse builds a new DataFrame from an EVDS response body
func Parse(body []byte) (*DataFrame, error) {
	df := New()
	if _, err := IngestDocument(df, body, ItemsKey); err != nil {
		return nil, err
	}
	return df, nil
}
