package main

import (
	"fmt"
	"io"
	"time"

	"github.com/ersonp/lexis/internal/domain/entities"
)

func displayRecords(w io.Writer, records []entities.StringRecord, total int) {
	if total > len(records) {
		fmt.Fprintf(w, "Showing %d of %d strings:\n\n", len(records), total)
	} else {
		fmt.Fprintf(w, "Showing %d strings:\n\n", len(records))
	}

	for _, rec := range records {
		displayRecord(w, rec)
	}
}

func displayRecord(w io.Writer, rec entities.StringRecord) {
	p := rec.Properties
	fmt.Fprintf(w, "ID: %s\n", rec.Digest)
	fmt.Fprintf(w, "  Value: %q\n", rec.Value)
	fmt.Fprintf(w, "  Length: %d  Words: %d  Unique: %d  Palindrome: %s\n",
		p.Length, p.WordCount, p.UniqueCharacters, yesNo(p.IsPalindrome))
	fmt.Fprintf(w, "  Created: %s\n", rec.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintln(w)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// shortID truncates a digest for prompts and tables.
func shortID(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
