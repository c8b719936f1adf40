package services

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ersonp/lexis/internal/domain/entities"
)

// Digest returns the lowercase hex SHA-256 of the UTF-8 bytes of value.
// It is both the dedup key and the public identifier of a record.
func Digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Analyze computes the property set of value. It is pure and total: every
// string, including the empty string, has a property set.
//
// Length, uniqueness, palindromes and word counts are measured in code
// points, not bytes.
func Analyze(value string) entities.PropertySet {
	runes := []rune(value)

	freq := make(map[string]int, len(runes))
	for _, r := range runes {
		freq[string(r)]++
	}

	return entities.PropertySet{
		Length:                len(runes),
		IsPalindrome:          isPalindrome(runes),
		UniqueCharacters:      len(freq),
		WordCount:             len(strings.Fields(value)),
		Digest:                Digest(value),
		CharacterFrequencyMap: freq,
	}
}

// isPalindrome compares the lowercase form of the string with the lowercase
// form of its code-point reversal. Whitespace and punctuation are kept.
func isPalindrome(runes []rune) bool {
	reversed := make([]rune, len(runes))
	for i, r := range runes {
		reversed[len(runes)-1-i] = r
	}
	// Casers are not safe for concurrent use; build one per call.
	lower := cases.Lower(language.Und)
	return lower.String(string(runes)) == lower.String(string(reversed))
}
