package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/lexis/internal/domain/entities"
)

// filterFlags mirrors the query parameters of the list endpoint.
type filterFlags struct {
	palindrome bool
	minLength  int
	maxLength  int
	wordCount  int
	contains   string
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().BoolVar(&f.palindrome, "palindrome", false, "Only palindromes (--palindrome=false for non-palindromes)")
	cmd.Flags().IntVar(&f.minLength, "min-length", 0, "Minimum length in characters")
	cmd.Flags().IntVar(&f.maxLength, "max-length", 0, "Maximum length in characters")
	cmd.Flags().IntVar(&f.wordCount, "word-count", 0, "Exact number of words")
	cmd.Flags().StringVarP(&f.contains, "contains", "c", "", "Only strings containing this character")
}

// criteria builds FilterCriteria from the flags the user actually set.
func (f *filterFlags) criteria(cmd *cobra.Command) (entities.FilterCriteria, error) {
	var c entities.FilterCriteria
	flags := cmd.Flags()

	if flags.Changed("palindrome") {
		c.IsPalindrome = entities.Bool(f.palindrome)
	}
	if flags.Changed("min-length") {
		c.MinLength = entities.Int(f.minLength)
	}
	if flags.Changed("max-length") {
		c.MaxLength = entities.Int(f.maxLength)
	}
	if flags.Changed("word-count") {
		c.WordCount = entities.Int(f.wordCount)
	}
	if flags.Changed("contains") {
		if !entities.IsSingleCharacter(f.contains) {
			return c, fmt.Errorf("--contains must be a single character, got %q", f.contains)
		}
		c.ContainsCharacter = entities.String(f.contains)
	}

	return c, nil
}
