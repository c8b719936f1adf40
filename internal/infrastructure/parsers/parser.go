// Package parsers provides parsers for importing strings from various formats.
package parsers

import (
	"io"
	"strings"
)

// RawString is a string parsed from an external source before validation.
type RawString struct {
	Value   string
	LineNum int    // Line number in source file (set by parser)
	Problem string // Non-empty when the entry is unusable (e.g. not a string)
}

// Parser defines the interface for parsing strings from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawString, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv", "txt".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	case "txt", "text":
		return &TextParser{}
	default:
		return nil
	}
}
