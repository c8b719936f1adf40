package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ersonp/lexis/internal/domain/entities"
)

// translationRule contributes at most one field to the criteria when its
// pattern matches. apply receives the submatches of the first match and
// reports whether it set anything.
type translationRule struct {
	name    string
	pattern *regexp.Regexp
	apply   func(match []string, c *entities.FilterCriteria) bool
}

// translationRules are evaluated in order against the lower-cased query.
// Every matching rule fires; a later rule overwrites a field set earlier.
var translationRules = []translationRule{
	{
		name:    "single_word",
		pattern: regexp.MustCompile(`\bsingle[- ]word\b`),
		apply: func(_ []string, c *entities.FilterCriteria) bool {
			c.WordCount = entities.Int(1)
			return true
		},
	},
	{
		name:    "palindrome",
		pattern: regexp.MustCompile(`\bpalindrom(?:e|ic|al)\b`),
		apply: func(_ []string, c *entities.FilterCriteria) bool {
			c.IsPalindrome = entities.Bool(true)
			return true
		},
	},
	{
		name:    "longer_than",
		pattern: regexp.MustCompile(`longer than (\d+)`),
		apply: func(m []string, c *entities.FilterCriteria) bool {
			n, err := strconv.Atoi(m[1])
			if err != nil || n == math.MaxInt {
				return false
			}
			c.MinLength = entities.Int(n + 1)
			return true
		},
	},
	{
		name:    "containing_letter",
		pattern: regexp.MustCompile(`contain(?:ing)? the letter (\pL)`),
		apply: func(m []string, c *entities.FilterCriteria) bool {
			c.ContainsCharacter = entities.String(m[1])
			return true
		},
	},
}

// Translate maps a free-text query to filter criteria. It returns false when
// no rule matched; an empty criteria set is a failure, not "match all".
//
// This is a keyword heuristic, not a grammar. Negations are not understood:
// "not a palindrome" still yields is_palindrome=true.
func Translate(query string) (*entities.FilterCriteria, bool) {
	q := strings.ToLower(query)

	criteria := &entities.FilterCriteria{}
	matched := false
	for _, rule := range translationRules {
		m := rule.pattern.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		if rule.apply(m, criteria) {
			matched = true
		}
	}

	if !matched {
		return nil, false
	}
	return criteria, true
}
