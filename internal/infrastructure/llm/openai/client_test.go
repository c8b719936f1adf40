package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/lexis/internal/domain/entities"
	"github.com/ersonp/lexis/internal/infrastructure/config"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LLMConfig
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			cfg: config.LLMConfig{
				APIKey: "test-key",
			},
			wantErr: false,
		},
		{
			name: "valid config with model",
			cfg: config.LLMConfig{
				APIKey: "test-key",
				Model:  "gpt-4",
			},
			wantErr: false,
		},
		{
			name:    "missing API key",
			cfg:     config.LLMConfig{},
			wantErr: true,
			errMsg:  "API key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, client)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, client)
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON",
			input:    `{"word_count": 1}`,
			expected: `{"word_count": 1}`,
		},
		{
			name:     "JSON with json code block",
			input:    "```json\n{\"word_count\": 1}\n```",
			expected: `{"word_count": 1}`,
		},
		{
			name:     "JSON with plain code block",
			input:    "```\n{\"word_count\": 1}\n```",
			expected: `{"word_count": 1}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{}\n  ",
			expected: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanJSONResponse(tt.input))
		})
	}
}

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *entities.FilterCriteria
		wantErr  bool
	}{
		{
			name:  "all fields",
			input: `{"is_palindrome": true, "min_length": 3, "max_length": 9, "word_count": 2, "contains_character": "z"}`,
			expected: &entities.FilterCriteria{
				IsPalindrome:      entities.Bool(true),
				MinLength:         entities.Int(3),
				MaxLength:         entities.Int(9),
				WordCount:         entities.Int(2),
				ContainsCharacter: entities.String("z"),
			},
		},
		{
			name:     "whole float accepted",
			input:    `{"word_count": 1.0}`,
			expected: &entities.FilterCriteria{WordCount: entities.Int(1)},
		},
		{
			name:     "false palindrome kept",
			input:    "```json\n{\"is_palindrome\": false}\n```",
			expected: &entities.FilterCriteria{IsPalindrome: entities.Bool(false)},
		},
		{
			name:     "empty object",
			input:    `{}`,
			expected: nil,
		},
		{
			name:     "unknown keys only",
			input:    `{"starts_with": "a"}`,
			expected: nil,
		},
		{
			name:    "fractional number",
			input:   `{"min_length": 2.5}`,
			wantErr: true,
		},
		{
			name:    "not JSON",
			input:   `I cannot help with that.`,
			wantErr: true,
		},
		{
			name:    "wrong type",
			input:   `{"is_palindrome": "yes"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseCriteria(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// chatServer returns an httptest server answering every chat completion
// with content.
func chatServer(t *testing.T, content string, gotQuery *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) && len(req.Messages) == 2 {
			*gotQuery = req.Messages[1].Content
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   req.Model,
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_InterpretQuery(t *testing.T) {
	var gotQuery string
	srv := chatServer(t, `{"max_length": 4}`, &gotQuery)

	client, err := NewClient(config.LLMConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	criteria, err := client.InterpretQuery(context.Background(), "short strings")
	require.NoError(t, err)
	assert.Equal(t, &entities.FilterCriteria{MaxLength: entities.Int(4)}, criteria)
	assert.Equal(t, "short strings", gotQuery)
}

func TestClient_InterpretQuery_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(config.LLMConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = client.InterpretQuery(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling OpenAI")
}
