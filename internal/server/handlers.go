package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/ersonp/lexis/internal/common/errors"
	"github.com/ersonp/lexis/internal/domain/entities"
)

// listResponse is the body of GET /strings/all/.
type listResponse struct {
	Data           []entities.StringRecord `json:"data"`
	Count          int                     `json:"count"`
	FiltersApplied entities.FilterCriteria `json:"filters_applied"`
}

// interpretedQuery echoes a natural-language query and its translation.
type interpretedQuery struct {
	Original      string                  `json:"original"`
	ParsedFilters entities.FilterCriteria `json:"parsed_filters"`
}

// nlResponse is the body of GET /strings/filter-by-natural-language/.
type nlResponse struct {
	Data             []entities.StringRecord `json:"data"`
	Count            int                     `json:"count"`
	InterpretedQuery interpretedQuery        `json:"interpreted_query"`
}

// handleCreate analyzes and stores the string in the request body.
func (s *Server) handleCreate(c *gin.Context) {
	value, err := parseCreateBody(c)
	if err != nil {
		handleError(c, err)
		return
	}

	rec, err := s.strings.Create(c.Request.Context(), value)
	var conflict *apperrors.ConflictError
	switch {
	case errors.As(err, &conflict):
		s.metrics.StringsConflicts.Inc()
		annotate(c, conflict.Existing.Digest)
		c.JSON(http.StatusConflict, conflict.Existing)
	case err != nil:
		handleError(c, err)
	default:
		s.metrics.StringsCreated.Inc()
		annotate(c, rec.Digest)
		c.JSON(http.StatusCreated, rec)
	}
}

// parseCreateBody extracts "value" from a JSON object body. An empty body
// counts as an empty object.
func parseCreateBody(c *gin.Context) (string, error) {
	body, err := c.GetRawData()
	if err != nil {
		return "", apperrors.NewValidationError("body", "Invalid JSON body.")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", apperrors.NewValidationError("body", "Invalid JSON body.")
	}

	raw, ok := fields["value"]
	if !ok {
		return "", apperrors.NewValidationError("value", `Missing "value" field.`)
	}

	var value string
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) || json.Unmarshal(raw, &value) != nil {
		return "", apperrors.NewTypeError("value", `"value" must be a string.`)
	}
	return value, nil
}

// pathValue returns the :value param decoded exactly once. When the request
// carried a raw path, gin matched on it and left the param escaped.
func pathValue(c *gin.Context) (string, error) {
	v := c.Param("value")
	if c.Request.URL.RawPath == "" {
		return v, nil
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", apperrors.NewValidationError("value", "Invalid path value.")
	}
	return decoded, nil
}

// handleGet returns the record for the string in the path.
func (s *Server) handleGet(c *gin.Context) {
	value, err := pathValue(c)
	if err != nil {
		handleError(c, err)
		return
	}
	rec, err := s.strings.Get(c.Request.Context(), value)
	if err != nil {
		handleError(c, err)
		return
	}
	annotate(c, rec.Digest)
	c.JSON(http.StatusOK, rec)
}

// handleDelete removes the record for the string in the path.
func (s *Server) handleDelete(c *gin.Context) {
	value, err := pathValue(c)
	if err != nil {
		handleError(c, err)
		return
	}
	if err := s.strings.Delete(c.Request.Context(), value); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleList returns stored records matching the query-string filters.
func (s *Server) handleList(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		handleError(c, err)
		return
	}

	records, err := s.strings.List(c.Request.Context(), criteria)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse{
		Data:           records,
		Count:          len(records),
		FiltersApplied: criteria,
	})
}

// handleNaturalLanguage translates ?query= into filters and applies them.
func (s *Server) handleNaturalLanguage(c *gin.Context) {
	query := c.Query("query")

	res, err := s.strings.FilterByNaturalLanguage(c.Request.Context(), query)
	if err != nil {
		if query != "" {
			s.metrics.NLTranslations.WithLabelValues(translationFailed).Inc()
		}
		handleError(c, err)
		return
	}

	result := translationRules
	if res.Interpreted {
		result = translationInterpreter
	}
	s.metrics.NLTranslations.WithLabelValues(result).Inc()

	c.JSON(http.StatusOK, nlResponse{
		Data:  res.Records,
		Count: len(res.Records),
		InterpretedQuery: interpretedQuery{
			Original:      res.Query,
			ParsedFilters: res.Criteria,
		},
	})
}

// parseCriteria reads the list filters from the query string. An
// unrecognised is_palindrome value is ignored; malformed integers and
// multi-character contains_character values are rejected.
func parseCriteria(c *gin.Context) (entities.FilterCriteria, error) {
	var criteria entities.FilterCriteria

	if v, ok := c.GetQuery("is_palindrome"); ok {
		if b, ok := parseBool(v); ok {
			criteria.IsPalindrome = &b
		}
	}

	ints := []struct {
		name string
		dst  **int
	}{
		{"min_length", &criteria.MinLength},
		{"max_length", &criteria.MaxLength},
		{"word_count", &criteria.WordCount},
	}
	for _, p := range ints {
		v, ok := c.GetQuery(p.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return criteria, apperrors.NewValidationError(p.name, p.name+" must be integer.")
		}
		*p.dst = &n
	}

	if v, ok := c.GetQuery("contains_character"); ok {
		if !entities.IsSingleCharacter(v) {
			return criteria, apperrors.NewValidationError("contains_character", "contains_character must be a single character.")
		}
		criteria.ContainsCharacter = &v
	}

	return criteria, nil
}

// parseBool accepts the usual spellings of a boolean query parameter.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "y":
		return true, true
	case "false", "0", "no", "n":
		return false, true
	default:
		return false, false
	}
}

// annotate tags the request span with the record digest.
func annotate(c *gin.Context, digest string) {
	trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.String("lexis.digest", digest))
}

func handleError(c *gin.Context, err error) {
	appErr := apperrors.MapError(err)
	if appErr.Code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(appErr.Code, gin.H{"detail": appErr.Message})
}
