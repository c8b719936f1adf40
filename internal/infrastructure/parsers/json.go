package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses a JSON array whose elements are either strings or
// objects with a "value" field, mirroring the create request body.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed strings.
func (p *JSONParser) Parse(r io.Reader) ([]RawString, error) {
	var items []json.RawMessage

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Line numbers are array index + 1
	result := make([]RawString, 0, len(items))
	for i, item := range items {
		raw := parseJSONItem(item)
		raw.LineNum = i + 1
		result = append(result, raw)
	}

	return result, nil
}

func parseJSONItem(item json.RawMessage) RawString {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return RawString{Value: s}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item, &obj); err != nil {
		return RawString{Problem: "entry must be a string or an object with a \"value\" field"}
	}

	v, ok := obj["value"]
	if !ok {
		return RawString{Problem: `missing "value" field`}
	}
	if err := json.Unmarshal(v, &s); err != nil {
		return RawString{Problem: `"value" must be a string`}
	}
	return RawString{Value: s}
}
