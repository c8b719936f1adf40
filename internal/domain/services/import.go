package services

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/ersonp/lexis/internal/common/errors"
	"github.com/ersonp/lexis/internal/infrastructure/parsers"
)

// ConflictStrategy defines how to handle strings that are already stored.
// Records are immutable, so there is no overwrite strategy.
type ConflictStrategy string

const (
	// ConflictSkip counts duplicates as skipped and continues.
	ConflictSkip ConflictStrategy = "skip"
	// ConflictFail aborts the import at the first duplicate.
	ConflictFail ConflictStrategy = "fail"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun     bool             // Analyze without saving
	OnConflict ConflictStrategy // How to handle existing strings
}

// ImportError represents an error for a specific entry during import.
type ImportError struct {
	Line    int    // Line number (1-indexed, 0 if unknown)
	Field   string // Which field has the error
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []ImportError
}

// ImportService bulk-loads strings through the StringService so that every
// imported string gets the same analysis and dedup as a single create.
type ImportService struct {
	strings *StringService
}

// NewImportService creates a new import service.
func NewImportService(strings *StringService) *ImportService {
	return &ImportService{
		strings: strings,
	}
}

// Import validates and stores raw strings.
func (s *ImportService) Import(ctx context.Context, raws []parsers.RawString, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	valid, validationErrors := validateRawStrings(raws)
	result.Errors = validationErrors

	if opts.DryRun {
		return s.dryRun(ctx, valid, result)
	}

	for i := range valid {
		_, err := s.strings.Create(ctx, valid[i].Value)
		var conflict *apperrors.ConflictError
		switch {
		case err == nil:
			result.Imported++
		case errors.As(err, &conflict):
			if opts.OnConflict == ConflictFail {
				return result, fmt.Errorf("line %d: %w", valid[i].LineNum, err)
			}
			result.Skipped++
		default:
			return nil, fmt.Errorf("importing line %d: %w", valid[i].LineNum, err)
		}
	}

	return result, nil
}

// dryRun counts what an import would do without writing anything.
func (s *ImportService) dryRun(ctx context.Context, valid []parsers.RawString, result *ImportResult) (*ImportResult, error) {
	seen := make(map[string]bool, len(valid))
	for i := range valid {
		digest := Digest(valid[i].Value)
		if seen[digest] {
			result.Skipped++
			continue
		}
		seen[digest] = true

		_, err := s.strings.GetByDigest(ctx, digest)
		var notFound *apperrors.NotFoundError
		switch {
		case err == nil:
			result.Skipped++
		case errors.As(err, &notFound):
			result.Imported++
		default:
			return nil, fmt.Errorf("checking line %d: %w", valid[i].LineNum, err)
		}
	}
	return result, nil
}

// validateRawStrings splits parsed entries into valid ones and errors.
func validateRawStrings(raws []parsers.RawString) ([]parsers.RawString, []ImportError) {
	valid := make([]parsers.RawString, 0, len(raws))
	var errs []ImportError

	for i := range raws {
		raw := raws[i]
		if raw.LineNum == 0 {
			raw.LineNum = i + 1
		}
		if raw.Problem != "" {
			errs = append(errs, ImportError{Line: raw.LineNum, Field: "value", Message: raw.Problem})
			continue
		}
		valid = append(valid, raw)
	}

	return valid, errs
}
