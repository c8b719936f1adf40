// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/lexis/internal/domain/entities"
)

// QueryInterpreter turns a free-text query into filter criteria using an
// external model. It is consulted only when the rule-based translator finds
// nothing to match. A nil result means the query could not be interpreted.
type QueryInterpreter interface {
	InterpretQuery(ctx context.Context, query string) (*entities.FilterCriteria, error)
}
