package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVParser parses strings from CSV format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed strings.
// Expected columns: value (others are ignored).
func (p *CSVParser) Parse(r io.Reader) ([]RawString, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	col, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, col)
}

// readHeader reads the header row and returns the index of the value column.
func (p *CSVParser) readHeader(reader *csv.Reader) (int, error) {
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("reading CSV header: %w", err)
	}

	for i, name := range header {
		if name == "value" {
			return i, nil
		}
	}
	return 0, fmt.Errorf("missing required column: value")
}

// readRecords reads all data rows.
func (p *CSVParser) readRecords(reader *csv.Reader, col int) ([]RawString, error) {
	var result []RawString
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		if col >= len(record) {
			result = append(result, RawString{LineNum: lineNum, Problem: "missing value column"})
			continue
		}
		result = append(result, RawString{Value: record[col], LineNum: lineNum})
	}

	return result, nil
}
