package analysis

import (
	"strings"
	"unicode"
)

// splitWords tokenizes a loan title into lowercase words. Punctuation
// and digits separate words; single-letter tokens are dropped.
func splitWords(title string) []string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		words = append(words, f)
	}
	return words
}
