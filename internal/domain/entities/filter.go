package entities

import "unicode/utf8"

// FilterCriteria is a set of independently optional constraints combined by
// logical AND. A nil field imposes no constraint.
type FilterCriteria struct {
	IsPalindrome      *bool   `json:"is_palindrome,omitempty"`
	MinLength         *int    `json:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty"`
	WordCount         *int    `json:"word_count,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (c FilterCriteria) IsEmpty() bool {
	return c.IsPalindrome == nil &&
		c.MinLength == nil &&
		c.MaxLength == nil &&
		c.WordCount == nil &&
		c.ContainsCharacter == nil
}

// Match reports whether the properties satisfy every present criterion.
func (c FilterCriteria) Match(p PropertySet) bool {
	if c.IsPalindrome != nil && p.IsPalindrome != *c.IsPalindrome {
		return false
	}
	if c.MinLength != nil && p.Length < *c.MinLength {
		return false
	}
	if c.MaxLength != nil && p.Length > *c.MaxLength {
		return false
	}
	if c.WordCount != nil && p.WordCount != *c.WordCount {
		return false
	}
	if c.ContainsCharacter != nil && p.CharacterFrequencyMap[*c.ContainsCharacter] <= 0 {
		return false
	}
	return true
}

// IsSingleCharacter reports whether s is exactly one code point.
func IsSingleCharacter(s string) bool {
	return utf8.RuneCountInString(s) == 1
}

// Bool returns a pointer to b. Used to build FilterCriteria literals.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// String returns a pointer to s.
func String(s string) *string { return &s }
