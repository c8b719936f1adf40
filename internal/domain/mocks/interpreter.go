package mocks

import (
	"context"

	"github.com/ersonp/lexis/internal/domain/entities"
)

// QueryInterpreter is a mock implementation of ports.QueryInterpreter.
type QueryInterpreter struct {
	Criteria *entities.FilterCriteria
	Err      error

	Queries []string
}

// InterpretQuery returns the configured criteria or error.
func (m *QueryInterpreter) InterpretQuery(_ context.Context, query string) (*entities.FilterCriteria, error) {
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Criteria, nil
}
