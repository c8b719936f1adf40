package handlers

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/ersonp/lexis/internal/common/errors"
	"github.com/ersonp/lexis/internal/domain/entities"
	"github.com/ersonp/lexis/internal/domain/services"
)

// StringsHandler handles single-string use cases: add, get, delete, list
// and history.
type StringsHandler struct {
	service *services.StringService
}

// NewStringsHandler creates a new strings handler.
func NewStringsHandler(service *services.StringService) *StringsHandler {
	return &StringsHandler{
		service: service,
	}
}

// AddResult contains the result of adding a string.
type AddResult struct {
	Record *entities.StringRecord
	// Created is false when the string was already stored; Record is then
	// the existing record.
	Created bool
}

// Add analyzes and stores value. A duplicate is reported through
// AddResult.Created rather than as an error.
func (h *StringsHandler) Add(ctx context.Context, value string) (*AddResult, error) {
	rec, err := h.service.Create(ctx, value)

	var conflict *apperrors.ConflictError
	switch {
	case err == nil:
		return &AddResult{Record: rec, Created: true}, nil
	case errors.As(err, &conflict):
		return &AddResult{Record: conflict.Existing, Created: false}, nil
	default:
		return nil, fmt.Errorf("adding string: %w", err)
	}
}

// Get returns the stored record for value.
func (h *StringsHandler) Get(ctx context.Context, value string) (*entities.StringRecord, error) {
	rec, err := h.service.Get(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("getting string: %w", err)
	}
	return rec, nil
}

// Delete removes the stored record for value.
func (h *StringsHandler) Delete(ctx context.Context, value string) error {
	if err := h.service.Delete(ctx, value); err != nil {
		return fmt.Errorf("deleting string: %w", err)
	}
	return nil
}

// ListResult contains the records matching a set of criteria.
type ListResult struct {
	Criteria entities.FilterCriteria
	Records  []entities.StringRecord
}

// List returns records matching criteria, newest first. limit <= 0 means
// no limit.
func (h *StringsHandler) List(ctx context.Context, criteria entities.FilterCriteria, limit int) (*ListResult, error) {
	records, err := h.service.List(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("listing strings: %w", err)
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return &ListResult{
		Criteria: criteria,
		Records:  records,
	}, nil
}

// Activity returns the latest audit entries of one action, newest first.
func (h *StringsHandler) Activity(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	entries, err := h.service.Activity(ctx, action, limit)
	if err != nil {
		return nil, fmt.Errorf("reading activity: %w", err)
	}
	return entries, nil
}

// History returns the audit trail for value, newest first.
func (h *StringsHandler) History(ctx context.Context, value string) ([]entities.AuditEntry, error) {
	entries, err := h.service.History(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return entries, nil
}
