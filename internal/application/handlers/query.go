package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/lexis/internal/domain/entities"
	"github.com/ersonp/lexis/internal/domain/services"
)

// QueryHandler handles natural-language queries.
type QueryHandler struct {
	service *services.StringService
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(service *services.StringService) *QueryHandler {
	return &QueryHandler{
		service: service,
	}
}

// QueryResult contains the result of a query.
type QueryResult struct {
	Query       string
	Criteria    entities.FilterCriteria
	Records     []entities.StringRecord
	Interpreted bool
}

// Handle translates query into filter criteria and returns matching records.
func (h *QueryHandler) Handle(ctx context.Context, query string) (*QueryResult, error) {
	res, err := h.service.FilterByNaturalLanguage(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("filtering by query: %w", err)
	}

	return &QueryResult{
		Query:       res.Query,
		Criteria:    res.Criteria,
		Records:     res.Records,
		Interpreted: res.Interpreted,
	}, nil
}
