package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ersonp/lexis/internal/domain/entities"
	"github.com/ersonp/lexis/internal/domain/services"
)

// ExportFormats lists the supported export formats.
var ExportFormats = []string{"json", "csv", "markdown"}

// ExportHandler handles exporting stored strings.
type ExportHandler struct {
	service *services.StringService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(service *services.StringService) *ExportHandler {
	return &ExportHandler{
		service: service,
	}
}

// Handle writes every record matching criteria to w in the given format and
// returns how many were written.
func (h *ExportHandler) Handle(ctx context.Context, w io.Writer, format string, criteria entities.FilterCriteria) (int, error) {
	if !slices.Contains(ExportFormats, format) {
		return 0, fmt.Errorf("invalid format %q, valid formats: %v", format, ExportFormats)
	}

	records, err := h.service.List(ctx, criteria)
	if err != nil {
		return 0, fmt.Errorf("listing strings: %w", err)
	}

	if err := FormatRecords(w, format, records); err != nil {
		return 0, fmt.Errorf("formatting output: %w", err)
	}
	return len(records), nil
}

// FormatRecords renders records in one of ExportFormats.
func FormatRecords(w io.Writer, format string, records []entities.StringRecord) error {
	switch format {
	case "json":
		return formatJSON(w, records)
	case "csv":
		return formatCSV(w, records)
	case "markdown":
		return formatMarkdown(w, records)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func formatJSON(w io.Writer, records []entities.StringRecord) error {
	if records == nil {
		records = []entities.StringRecord{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

func formatCSV(w io.Writer, records []entities.StringRecord) error {
	writer := csv.NewWriter(w)

	header := []string{"id", "value", "length", "is_palindrome", "unique_characters", "word_count", "created_at"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Digest,
			r.Value,
			strconv.Itoa(r.Properties.Length),
			strconv.FormatBool(r.Properties.IsPalindrome),
			strconv.Itoa(r.Properties.UniqueCharacters),
			strconv.Itoa(r.Properties.WordCount),
			r.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatMarkdown(w io.Writer, records []entities.StringRecord) error {
	if _, err := fmt.Fprintf(w, "# Exported Strings\n\nTotal: %d strings\n\n", len(records)); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "| Value | Length | Palindrome | Unique | Words | ID |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "|-------|--------|------------|--------|-------|----|\n"); err != nil {
		return err
	}

	for _, r := range records {
		if _, err := fmt.Fprintf(w, "| %s | %d | %t | %d | %d | %s |\n",
			escapeMarkdown(r.Value),
			r.Properties.Length,
			r.Properties.IsPalindrome,
			r.Properties.UniqueCharacters,
			r.Properties.WordCount,
			shortDigest(r.Digest),
		); err != nil {
			return err
		}
	}

	return nil
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
