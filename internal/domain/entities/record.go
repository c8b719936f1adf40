// Package entities contains core domain data structures.
package entities

import "time"

// PropertySet is the bundle of derived attributes computed once when a
// string is first stored. It is persisted as a single JSON blob.
type PropertySet struct {
	Length                int            `json:"length"`
	IsPalindrome          bool           `json:"is_palindrome"`
	UniqueCharacters      int            `json:"unique_characters"`
	WordCount             int            `json:"word_count"`
	Digest                string         `json:"sha256_hash"`
	CharacterFrequencyMap map[string]int `json:"character_frequency_map"`
}

// StringRecord is a stored string, content-addressed by its digest.
// Records are immutable after creation; the only mutation is deletion.
type StringRecord struct {
	Digest     string      `json:"id"`
	Value      string      `json:"value"`
	Properties PropertySet `json:"properties"`
	CreatedAt  time.Time   `json:"created_at"`
}
