package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/lexis/internal/domain/entities"
	"github.com/ersonp/lexis/internal/domain/mocks"
	"github.com/ersonp/lexis/internal/domain/services"
	"github.com/ersonp/lexis/internal/infrastructure/cache"
	"github.com/ersonp/lexis/internal/infrastructure/config"
	"github.com/ersonp/lexis/internal/infrastructure/relationaldb/sqlite"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestServer wires a server over an in-memory SQLite store behind the
// read cache, the same stack the serve command builds.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.EnsureSchema(context.Background()))

	store, err := cache.Wrap(repo, 16)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(services.NewStringService(store, nil, logger), logger)
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

// recordBody mirrors the record JSON for decoding in tests.
type recordBody struct {
	ID         string               `json:"id"`
	Value      string               `json:"value"`
	Properties entities.PropertySet `json:"properties"`
	CreatedAt  string               `json:"created_at"`
}

type listBody struct {
	Data           []recordBody   `json:"data"`
	Count          int            `json:"count"`
	FiltersApplied map[string]any `json:"filters_applied"`
}

type nlBody struct {
	Data             []recordBody `json:"data"`
	Count            int          `json:"count"`
	InterpretedQuery struct {
		Original      string         `json:"original"`
		ParsedFilters map[string]any `json:"parsed_filters"`
	} `json:"interpreted_query"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["detail"]
}

func create(t *testing.T, srv *Server, value string) recordBody {
	t.Helper()
	body, err := json.Marshal(map[string]string{"value": value})
	require.NoError(t, err)
	w := do(t, srv, http.MethodPost, "/strings/", string(body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[recordBody](t, w)
}

func values(records []recordBody) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Value)
	}
	return out
}

func TestRootAndHealth(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "String Analyzer API is running", decode[map[string]string](t, w)["message"])

	w = do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreate(t *testing.T) {
	srv := newTestServer(t)

	rec := create(t, srv, "racecar")

	assert.Equal(t, services.Digest("racecar"), rec.ID)
	assert.Equal(t, "racecar", rec.Value)
	assert.Equal(t, entities.PropertySet{
		Length:                7,
		IsPalindrome:          true,
		UniqueCharacters:      4,
		WordCount:             1,
		Digest:                services.Digest("racecar"),
		CharacterFrequencyMap: map[string]int{"r": 2, "a": 2, "c": 2, "e": 1},
	}, rec.Properties)

	createdAt, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
	require.NoError(t, err)
	_, offset := createdAt.Zone()
	assert.Zero(t, offset)
	assert.WithinDuration(t, time.Now(), createdAt, time.Minute)
}

func TestCreate_Conflict(t *testing.T) {
	srv := newTestServer(t)
	first := create(t, srv, "racecar")

	w := do(t, srv, http.MethodPost, "/strings/", `{"value": "racecar"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, first, decode[recordBody](t, w))
}

func TestCreate_InvalidBodies(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		detail string
	}{
		{"not json", `{"value": `, http.StatusBadRequest, "Invalid JSON body."},
		{"json array", `["racecar"]`, http.StatusBadRequest, "Invalid JSON body."},
		{"empty body", ``, http.StatusBadRequest, `Missing "value" field.`},
		{"missing value", `{"text": "racecar"}`, http.StatusBadRequest, `Missing "value" field.`},
		{"number", `{"value": 42}`, http.StatusUnprocessableEntity, `"value" must be a string.`},
		{"null", `{"value": null}`, http.StatusUnprocessableEntity, `"value" must be a string.`},
		{"list", `{"value": ["a"]}`, http.StatusUnprocessableEntity, `"value" must be a string.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			w := do(t, srv, http.MethodPost, "/strings/", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.detail, detail(t, w))
		})
	}
}

func TestCreate_EmptyString(t *testing.T) {
	srv := newTestServer(t)

	rec := create(t, srv, "")
	assert.Equal(t, 0, rec.Properties.Length)
	assert.True(t, rec.Properties.IsPalindrome)
	assert.Equal(t, map[string]int{}, rec.Properties.CharacterFrequencyMap)
}

func TestGet(t *testing.T) {
	srv := newTestServer(t)
	created := create(t, srv, "race car")
	slashed := create(t, srv, "a/b")

	w := do(t, srv, http.MethodGet, "/strings/race%20car/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decode[recordBody](t, w))

	w = do(t, srv, http.MethodGet, "/strings/a%2Fb/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, slashed, decode[recordBody](t, w))

	w = do(t, srv, http.MethodGet, "/strings/missing/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "String not found.", detail(t, w))
}

func TestGetDelete_EscapedValues(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"plus and slash", "c++/go"},
		{"equation with slash", "1+1=2/x"},
		{"plus only", "a+b"},
		{"space and slash", "a b/c"},
		{"percent sign", "100%"},
		{"escaped sequence literal", "%2F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			created := create(t, srv, tt.value)
			path := "/strings/" + url.PathEscape(tt.value) + "/"

			w := do(t, srv, http.MethodGet, path, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			got := decode[recordBody](t, w)
			assert.Equal(t, created, got)
			assert.Equal(t, tt.value, got.Value)

			w = do(t, srv, http.MethodDelete, path, "")
			assert.Equal(t, http.StatusNoContent, w.Code)

			w = do(t, srv, http.MethodGet, path, "")
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestGet_InvalidEscape(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/strings/x/", nil)
	req.URL.RawPath = "/strings/a%2Fb%zz/"
	req.URL.Path = "/strings/a/b%zz/"
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid path value.", detail(t, w))
}

func TestGet_Unicode(t *testing.T) {
	srv := newTestServer(t)
	created := create(t, srv, "Été")

	w := do(t, srv, http.MethodGet, "/strings/%C3%89t%C3%A9/", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[recordBody](t, w)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 3, got.Properties.Length)
	assert.True(t, got.Properties.IsPalindrome)
}

func TestDelete(t *testing.T) {
	srv := newTestServer(t)
	create(t, srv, "kayak")
	create(t, srv, "level")

	w := do(t, srv, http.MethodDelete, "/strings/kayak/", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = do(t, srv, http.MethodGet, "/strings/kayak/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodDelete, "/strings/kayak/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "String not found.", detail(t, w))

	w = do(t, srv, http.MethodDelete, "/strings/level/delete/", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Re-creating after delete yields a fresh record.
	create(t, srv, "kayak")
}

func TestList(t *testing.T) {
	srv := newTestServer(t)
	for _, v := range []string{"racecar", "hello world", "noon", "A man a plan"} {
		create(t, srv, v)
	}

	tests := []struct {
		name     string
		query    string
		expected []string
		filters  map[string]any
	}{
		{
			name:     "no filters newest first",
			query:    "",
			expected: []string{"A man a plan", "noon", "hello world", "racecar"},
			filters:  map[string]any{},
		},
		{
			name:     "palindromes",
			query:    "?is_palindrome=true",
			expected: []string{"noon", "racecar"},
			filters:  map[string]any{"is_palindrome": true},
		},
		{
			name:     "palindrome spelled no",
			query:    "?is_palindrome=No",
			expected: []string{"A man a plan", "hello world"},
			filters:  map[string]any{"is_palindrome": false},
		},
		{
			name:     "unrecognised boolean ignored",
			query:    "?is_palindrome=maybe",
			expected: []string{"A man a plan", "noon", "hello world", "racecar"},
			filters:  map[string]any{},
		},
		{
			name:     "length range inclusive",
			query:    "?min_length=4&max_length=7",
			expected: []string{"noon", "racecar"},
			filters:  map[string]any{"min_length": float64(4), "max_length": float64(7)},
		},
		{
			name:     "word count",
			query:    "?word_count=2",
			expected: []string{"hello world"},
			filters:  map[string]any{"word_count": float64(2)},
		},
		{
			name:     "contains character is case-sensitive",
			query:    "?contains_character=A",
			expected: []string{"A man a plan"},
			filters:  map[string]any{"contains_character": "A"},
		},
		{
			name:     "impossible range",
			query:    "?min_length=10&max_length=2",
			expected: []string{},
			filters:  map[string]any{"min_length": float64(10), "max_length": float64(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodGet, "/strings/all/"+tt.query, "")
			require.Equal(t, http.StatusOK, w.Code)

			body := decode[listBody](t, w)
			assert.Equal(t, tt.expected, values(body.Data))
			assert.Equal(t, len(tt.expected), body.Count)
			assert.Equal(t, tt.filters, body.FiltersApplied)
		})
	}
}

func TestList_InvalidParams(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		query  string
		detail string
	}{
		{"?min_length=abc", "min_length must be integer."},
		{"?max_length=1.5", "max_length must be integer."},
		{"?word_count=", "word_count must be integer."},
		{"?contains_character=ab", "contains_character must be a single character."},
		{"?contains_character=", "contains_character must be a single character."},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := do(t, srv, http.MethodGet, "/strings/all/"+tt.query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.detail, detail(t, w))
		})
	}
}

func TestNaturalLanguage(t *testing.T) {
	srv := newTestServer(t)
	for _, v := range []string{"racecar", "race car", "zz top", "pizzazz", "noon"} {
		create(t, srv, v)
	}

	w := do(t, srv, http.MethodGet, "/strings/filter-by-natural-language/?query=all%20single%20word%20palindromic%20strings", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[nlBody](t, w)
	assert.Equal(t, []string{"noon", "racecar"}, values(body.Data))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "all single word palindromic strings", body.InterpretedQuery.Original)
	assert.Equal(t, map[string]any{"word_count": float64(1), "is_palindrome": true}, body.InterpretedQuery.ParsedFilters)

	w = do(t, srv, http.MethodGet, "/strings/filter-by-natural-language/?query=strings+longer+than+6+characters+containing+the+letter+z", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decode[nlBody](t, w)
	assert.Equal(t, []string{"pizzazz"}, values(body.Data))
	assert.Equal(t, map[string]any{"min_length": float64(7), "contains_character": "z"}, body.InterpretedQuery.ParsedFilters)
}

func TestNaturalLanguage_Errors(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/strings/filter-by-natural-language/", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing 'query' param.", detail(t, w))

	w = do(t, srv, http.MethodGet, "/strings/filter-by-natural-language/?query=show+me+everything", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unable to parse natural language query.", detail(t, w))

	tests := []struct {
		name   string
		query  string
		detail string
	}{
		{"empty param", "?query=", "Missing 'query' param."},
		{"blank param", "?query=+++", "Unable to parse natural language query."},
		{"contains is not recognised", "?query=strings+that+contains+the+letter+a", "Unable to parse natural language query."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodGet, "/strings/filter-by-natural-language/"+tt.query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.detail, detail(t, w))
		})
	}
}

func TestNaturalLanguage_InterpreterFallback(t *testing.T) {
	repo := mocks.NewRecordStore()
	interpreter := &mocks.QueryInterpreter{Criteria: &entities.FilterCriteria{MaxLength: entities.Int(2)}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(services.NewStringService(repo, interpreter, logger), logger)
	create(t, srv, "ab")
	create(t, srv, "abcdef")

	w := do(t, srv, http.MethodGet, "/strings/filter-by-natural-language/?query=tiny+ones", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[nlBody](t, w)
	assert.Equal(t, []string{"ab"}, values(body.Data))
	assert.Equal(t, map[string]any{"max_length": float64(2)}, body.InterpretedQuery.ParsedFilters)
}

func TestAPIPrefix(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/strings/", `{"value": "stats"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, srv, http.MethodGet, "/api/strings/stats/", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, srv, http.MethodGet, "/api/strings/all/?is_palindrome=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[listBody](t, w).Count)

	w = do(t, srv, http.MethodDelete, "/api/strings/stats/", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestStorageFailure(t *testing.T) {
	repo := mocks.NewRecordStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(services.NewStringService(repo, nil, logger), logger)
	repo.Err = assert.AnError

	w := do(t, srv, http.MethodGet, "/strings/all/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error.", detail(t, w))
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found.", detail(t, w))
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/health", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t)
	create(t, srv, "racecar")
	do(t, srv, http.MethodPost, "/strings/", `{"value": "racecar"}`)
	do(t, srv, http.MethodGet, "/strings/racecar/", "")
	do(t, srv, http.MethodGet, "/strings/filter-by-natural-language/?query=palindromic+strings", "")
	do(t, srv, http.MethodGet, "/strings/filter-by-natural-language/?query=nothing+here", "")

	w := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, "lexis_strings_created_total 1")
	assert.Contains(t, body, "lexis_strings_conflicts_total 1")
	assert.Contains(t, body, `lexis_nl_translations_total{result="rules"} 1`)
	assert.Contains(t, body, `lexis_nl_translations_total{result="failed"} 1`)
	assert.Contains(t, body, `lexis_http_requests_total{method="GET",route="/strings/:value/",status="200"} 1`)
	assert.Contains(t, body, `lexis_http_requests_total{method="POST",route="/strings/",status="409"} 1`)
	assert.NotContains(t, body, `route="/strings/racecar/"`)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
