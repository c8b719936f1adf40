package parsers

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TextParser parses one string per line. Blank lines are skipped; a
// trailing carriage return is dropped.
type TextParser struct{}

// Parse reads lines from the reader.
func (p *TextParser) Parse(r io.Reader) ([]RawString, error) {
	var result []RawString

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		result = append(result, RawString{Value: line, LineNum: lineNum})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading line %d: %w", lineNum+1, err)
	}

	return result, nil
}
