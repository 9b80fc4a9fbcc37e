package matcher

import (
	"strings"
	"unicode"
)

const minTokenLength = 3

// words lower-cases text and splits it on whitespace, trimming surrounding
// punctuation from each word.
func words(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// Tokenize returns the scoring tokens of a query: words longer than two characters.
func Tokenize(query string) []string {
	all := words(query)
	tokens := all[:0]
	for _, w := range all {
		if len([]rune(w)) >= minTokenLength {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// sharesStem reports whether a and b differ only in a final character,
// e.g. "model" and "models".
func sharesStem(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < minTokenLength || len(rb) < minTokenLength || a == b {
		return false
	}
	longest := max(len(ra), len(rb))
	if longest-min(len(ra), len(rb)) > 1 {
		return false
	}
	prefix := 0
	for prefix < len(ra) && prefix < len(rb) && ra[prefix] == rb[prefix] {
		prefix++
	}
	return prefix >= longest-1
}
