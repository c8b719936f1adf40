package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/ersonp/lexis/internal/common/errors"
	"github.com/ersonp/lexis/internal/domain/entities"
	"github.com/ersonp/lexis/internal/domain/ports"
)

// StringService is the engine façade: it analyzes, stores, retrieves,
// deletes and filters strings on top of a RecordStore.
type StringService struct {
	store       ports.RecordStore
	interpreter ports.QueryInterpreter
	logger      *slog.Logger
}

// NewStringService creates a new string service. interpreter may be nil, in
// which case natural-language queries rely on the rule translator alone.
func NewStringService(store ports.RecordStore, interpreter ports.QueryInterpreter, logger *slog.Logger) *StringService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StringService{
		store:       store,
		interpreter: interpreter,
		logger:      logger,
	}
}

// NLResult is the outcome of a natural-language filter.
type NLResult struct {
	Query    string
	Criteria entities.FilterCriteria
	Records  []entities.StringRecord
	// Interpreted is true when the criteria came from the QueryInterpreter
	// rather than the rule translator.
	Interpreted bool
}

// Create analyzes value and stores it. If the digest is already stored the
// existing record is returned together with a *ConflictError.
func (s *StringService) Create(ctx context.Context, value string) (*entities.StringRecord, error) {
	props := Analyze(value)

	rec, isNew, err := s.store.Create(ctx, value, props)
	if err != nil {
		return nil, apperrors.NewStorageError("create", err)
	}

	if !isNew {
		s.logger.Info("duplicate string rejected", "digest", rec.Digest)
		s.audit(ctx, entities.ActionConflict, rec.Digest, nil)
		return rec, &apperrors.ConflictError{Existing: rec}
	}

	s.logger.Info("string created", "digest", rec.Digest, "length", props.Length)
	s.audit(ctx, entities.ActionCreate, rec.Digest, map[string]any{"length": props.Length})
	return rec, nil
}

// Get looks up a record by re-deriving the digest of its original value.
func (s *StringService) Get(ctx context.Context, value string) (*entities.StringRecord, error) {
	return s.GetByDigest(ctx, Digest(value))
}

// GetByDigest looks up a record by its digest.
func (s *StringService) GetByDigest(ctx context.Context, digest string) (*entities.StringRecord, error) {
	rec, err := s.store.FindByDigest(ctx, digest)
	if err != nil {
		return nil, apperrors.NewStorageError("find", err)
	}
	if rec == nil {
		return nil, &apperrors.NotFoundError{Digest: digest}
	}
	return rec, nil
}

// Delete removes the record for value.
func (s *StringService) Delete(ctx context.Context, value string) error {
	digest := Digest(value)

	deleted, err := s.store.DeleteByDigest(ctx, digest)
	if err != nil {
		return apperrors.NewStorageError("delete", err)
	}
	if !deleted {
		return &apperrors.NotFoundError{Digest: digest}
	}

	s.logger.Info("string deleted", "digest", digest)
	s.audit(ctx, entities.ActionDelete, digest, nil)
	return nil
}

// List returns the stored records, newest first, that satisfy criteria.
// The result is a snapshot; records created afterwards are not reflected.
func (s *StringService) List(ctx context.Context, criteria entities.FilterCriteria) ([]entities.StringRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list", err)
	}
	return Evaluate(records, criteria), nil
}

// FilterByNaturalLanguage translates query into criteria and applies them.
func (s *StringService) FilterByNaturalLanguage(ctx context.Context, query string) (*NLResult, error) {
	if query == "" {
		return nil, apperrors.NewValidationError("query", "Missing 'query' param.")
	}

	criteria, interpreted, err := s.translate(ctx, query)
	if err != nil {
		return nil, err
	}

	records, err := s.List(ctx, *criteria)
	if err != nil {
		return nil, err
	}

	return &NLResult{
		Query:       query,
		Criteria:    *criteria,
		Records:     records,
		Interpreted: interpreted,
	}, nil
}

// History returns the audit trail recorded for value.
func (s *StringService) History(ctx context.Context, value string) ([]entities.AuditEntry, error) {
	entries, err := s.store.FindAuditLog(ctx, Digest(value))
	if err != nil {
		return nil, apperrors.NewStorageError("audit log", err)
	}
	return entries, nil
}

// Activity returns the most recent audit entries of one action across all
// strings, newest first.
func (s *StringService) Activity(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	if !entities.IsAuditAction(action) {
		return nil, apperrors.NewValidationError("action", fmt.Sprintf("unknown action %q (use create, conflict or delete)", action))
	}
	if limit <= 0 {
		return nil, apperrors.NewValidationError("limit", "limit must be positive")
	}

	entries, err := s.store.FindAuditLogByAction(ctx, action, limit)
	if err != nil {
		return nil, apperrors.NewStorageError("audit log", err)
	}
	return entries, nil
}

func (s *StringService) translate(ctx context.Context, query string) (*entities.FilterCriteria, bool, error) {
	if criteria, ok := Translate(query); ok {
		return criteria, false, nil
	}

	if s.interpreter != nil && strings.TrimSpace(query) != "" {
		criteria, err := s.interpreter.InterpretQuery(ctx, query)
		switch {
		case err != nil:
			s.logger.Warn("query interpreter failed", "query", query, "error", err)
		case criteria != nil && !criteria.IsEmpty():
			if err := validateCriteria(*criteria); err != nil {
				s.logger.Warn("query interpreter returned invalid criteria", "query", query, "error", err)
				break
			}
			return criteria, true, nil
		}
	}

	return nil, false, apperrors.NewValidationError("query", "Unable to parse natural language query.")
}

// validateCriteria rejects criteria a client could not have expressed
// through the list endpoint.
func validateCriteria(c entities.FilterCriteria) error {
	if c.ContainsCharacter != nil && !entities.IsSingleCharacter(*c.ContainsCharacter) {
		return fmt.Errorf("contains_character must be a single character, got %q", *c.ContainsCharacter)
	}
	return nil
}

// audit records an action. Failures are logged and do not fail the request;
// the record write has already committed.
func (s *StringService) audit(ctx context.Context, action, digest string, details map[string]any) {
	if err := s.store.LogAction(ctx, action, digest, details); err != nil {
		s.logger.Warn("writing audit log", "action", action, "digest", digest, "error", err)
	}
}
