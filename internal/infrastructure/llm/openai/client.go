// Package openai provides a QueryInterpreter implementation using OpenAI.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/lexis/internal/domain/entities"
	"github.com/ersonp/lexis/internal/infrastructure/config"
)

const interpretPrompt = `You translate search requests over a collection of stored strings into a JSON filter.

Available filters (all optional, combine with AND):
- is_palindrome: boolean, the string reads the same backwards ignoring case
- min_length: integer, minimum number of characters (inclusive)
- max_length: integer, maximum number of characters (inclusive)
- word_count: integer, exact number of whitespace-separated words
- contains_character: a single character the string must contain

Return ONLY a JSON object with the filters you are confident about, no other text.
Return {} if the request cannot be expressed with these filters.

Example:
Input: "two word strings shorter than 10 characters"
Output: {"word_count": 2, "max_length": 9}`

// Client implements ports.QueryInterpreter using OpenAI chat completions.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI query interpreter.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

// InterpretQuery asks the model for filter criteria matching query. It
// returns nil criteria when the model could not express the request.
func (c *Client) InterpretQuery(ctx context.Context, query string) (*entities.FilterCriteria, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: interpretPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: query,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from OpenAI")
	}

	return parseCriteria(resp.Choices[0].Message.Content)
}

// rawCriteria is the JSON structure the model is asked to produce.
// Numbers arrive as float64 when the model writes 5.0.
type rawCriteria struct {
	IsPalindrome      *bool    `json:"is_palindrome"`
	MinLength         *float64 `json:"min_length"`
	MaxLength         *float64 `json:"max_length"`
	WordCount         *float64 `json:"word_count"`
	ContainsCharacter *string  `json:"contains_character"`
}

// parseCriteria decodes a model answer into criteria. An empty object
// yields nil, nil.
func parseCriteria(content string) (*entities.FilterCriteria, error) {
	content = cleanJSONResponse(content)

	var raw rawCriteria
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parsing criteria JSON: %w (response: %s)", err, content)
	}

	criteria := &entities.FilterCriteria{
		IsPalindrome:      raw.IsPalindrome,
		ContainsCharacter: raw.ContainsCharacter,
	}

	var err error
	if criteria.MinLength, err = wholeNumber("min_length", raw.MinLength); err != nil {
		return nil, err
	}
	if criteria.MaxLength, err = wholeNumber("max_length", raw.MaxLength); err != nil {
		return nil, err
	}
	if criteria.WordCount, err = wholeNumber("word_count", raw.WordCount); err != nil {
		return nil, err
	}

	if criteria.IsEmpty() {
		return nil, nil
	}
	return criteria, nil
}

// wholeNumber converts an optional JSON number to an optional int.
func wholeNumber(field string, v *float64) (*int, error) {
	if v == nil {
		return nil, nil
	}
	n := int(*v)
	if float64(n) != *v {
		return nil, fmt.Errorf("%s must be an integer, got %v", field, *v)
	}
	return &n, nil
}

// cleanJSONResponse removes markdown code blocks if present.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
