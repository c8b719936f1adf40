package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ersonp/lexis/internal/domain/entities"
)

func recordsFor(values ...string) []entities.StringRecord {
	records := make([]entities.StringRecord, 0, len(values))
	for _, v := range values {
		props := Analyze(v)
		records = append(records, entities.StringRecord{Digest: props.Digest, Value: v, Properties: props})
	}
	return records
}

func values(records []entities.StringRecord) []string {
	result := make([]string, 0, len(records))
	for _, r := range records {
		result = append(result, r.Value)
	}
	return result
}

func TestEvaluate(t *testing.T) {
	records := recordsFor("hello", "racecar", "a", "race car", "Level up", "noon")

	tests := []struct {
		name     string
		criteria entities.FilterCriteria
		expected []string
	}{
		{
			name:     "no criteria returns everything in order",
			criteria: entities.FilterCriteria{},
			expected: []string{"hello", "racecar", "a", "race car", "Level up", "noon"},
		},
		{
			name:     "palindromes",
			criteria: entities.FilterCriteria{IsPalindrome: entities.Bool(true)},
			expected: []string{"racecar", "a", "noon"},
		},
		{
			name:     "non palindromes",
			criteria: entities.FilterCriteria{IsPalindrome: entities.Bool(false)},
			expected: []string{"hello", "race car", "Level up"},
		},
		{
			name:     "min length inclusive",
			criteria: entities.FilterCriteria{MinLength: entities.Int(7)},
			expected: []string{"racecar", "race car", "Level up"},
		},
		{
			name:     "max length inclusive",
			criteria: entities.FilterCriteria{MaxLength: entities.Int(4)},
			expected: []string{"a", "noon"},
		},
		{
			name:     "length range",
			criteria: entities.FilterCriteria{MinLength: entities.Int(4), MaxLength: entities.Int(5)},
			expected: []string{"hello", "noon"},
		},
		{
			name:     "word count",
			criteria: entities.FilterCriteria{WordCount: entities.Int(2)},
			expected: []string{"race car", "Level up"},
		},
		{
			name:     "contains character is case sensitive",
			criteria: entities.FilterCriteria{ContainsCharacter: entities.String("L")},
			expected: []string{"Level up"},
		},
		{
			name:     "contains character",
			criteria: entities.FilterCriteria{ContainsCharacter: entities.String("e")},
			expected: []string{"hello", "racecar", "race car", "Level up"},
		},
		{
			name: "all criteria combined",
			criteria: entities.FilterCriteria{
				IsPalindrome:      entities.Bool(true),
				MinLength:         entities.Int(2),
				MaxLength:         entities.Int(7),
				WordCount:         entities.Int(1),
				ContainsCharacter: entities.String("c"),
			},
			expected: []string{"racecar"},
		},
		{
			name:     "contradictory range matches nothing",
			criteria: entities.FilterCriteria{MinLength: entities.Int(5), MaxLength: entities.Int(4)},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(records, tt.criteria)
			assert.Equal(t, tt.expected, values(result))
		})
	}
}

func TestEvaluate_AndComposition(t *testing.T) {
	// length 5, not a palindrome
	records := recordsFor("hello")

	assert.Empty(t, Evaluate(records, entities.FilterCriteria{IsPalindrome: entities.Bool(true)}))
	assert.Len(t, Evaluate(records, entities.FilterCriteria{MaxLength: entities.Int(5)}), 1)
	assert.Empty(t, Evaluate(records, entities.FilterCriteria{
		IsPalindrome: entities.Bool(true),
		MaxLength:    entities.Int(5),
	}))
}

func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	records := recordsFor("b", "a", "c")
	_ = Evaluate(records, entities.FilterCriteria{ContainsCharacter: entities.String("a")})
	assert.Equal(t, []string{"b", "a", "c"}, values(records))
}

func TestEvaluate_EmptyInput(t *testing.T) {
	result := Evaluate(nil, entities.FilterCriteria{MinLength: entities.Int(1)})
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
