package corpus

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it into words of at least two
// letters, digits or underscores. Shorter runs and punctuation are dropped.
func Tokenize(s string) []string {
	s = strings.ToLower(s)
	tokens := make([]string, 0)

	start := -1
	runes := 0
	flush := func(end int) {
		if start >= 0 && runes >= 2 {
			tokens = append(tokens, s[start:end])
		}
		start = -1
		runes = 0
	}

	for i, r := range s {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			runes++
			continue
		}
		flush(i)
	}
	flush(len(s))

	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
