package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ersonp/lexis/internal/domain/services"
	"github.com/ersonp/lexis/internal/infrastructure/parsers"
)

// StdinSource is the import source name that reads from the given reader
// instead of opening a file.
const StdinSource = "-"

// ImportHandler loads strings from files or streams into the store.
type ImportHandler struct {
	service *services.ImportService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(service *services.ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format     string // json, csv, txt; empty or "auto" picks by extension
	DryRun     bool
	OnConflict services.ConflictStrategy
}

// ImportReport describes what an import did, or would do on a dry run.
type ImportReport struct {
	Source   string
	Format   string
	DryRun   bool
	Parsed   int
	Imported int
	Skipped  int
	Errors   []services.ImportError
}

// Handle imports strings from source. A source of "-" reads from stdin,
// which defaults to plain text.
func (h *ImportHandler) Handle(ctx context.Context, source string, stdin io.Reader, opts ImportOptions) (*ImportReport, error) {
	format, err := resolveFormat(source, opts.Format)
	if err != nil {
		return nil, err
	}

	if source == StdinSource {
		return h.importFrom(ctx, stdin, source, format, opts)
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	return h.importFrom(ctx, file, source, format, opts)
}

func (h *ImportHandler) importFrom(ctx context.Context, r io.Reader, source, format string, opts ImportOptions) (*ImportReport, error) {
	raws, err := parsers.ForFormat(format).Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s as %s: %w", source, format, err)
	}

	report := &ImportReport{
		Source: source,
		Format: format,
		DryRun: opts.DryRun,
		Parsed: len(raws),
	}
	if len(raws) == 0 {
		return report, nil
	}

	result, err := h.service.Import(ctx, raws, services.ImportOptions{
		DryRun:     opts.DryRun,
		OnConflict: opts.OnConflict,
	})
	if err != nil {
		return nil, err
	}

	report.Imported = result.Imported
	report.Skipped = result.Skipped
	report.Errors = result.Errors
	return report, nil
}

// resolveFormat returns the parser format for source. Under auto detection
// anything without a .json or .csv extension is read as one string per line.
func resolveFormat(source, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "" && format != "auto" {
		if parsers.ForFormat(format) == nil {
			return "", fmt.Errorf("unsupported format %q (valid: json, csv, txt, auto)", format)
		}
		if format == "text" {
			format = "txt"
		}
		return format, nil
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		return "json", nil
	case ".csv":
		return "csv", nil
	default:
		return "txt", nil
	}
}
