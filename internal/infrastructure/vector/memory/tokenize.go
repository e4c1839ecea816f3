package memory

import (
	"strings"
	"unicode"
)

// tokenizeWords lower-cases s and returns runs of letters, digits and '_'
// that are at least two runes long.
func tokenizeWords(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, 24)
	var b strings.Builder
	runes := 0
	flush := func() {
		if runes >= 2 {
			out = append(out, b.String())
		}
		b.Reset()
		runes = 0
	}
	for _, r := range s {
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
			b.WriteRune(r)
			runes++
			continue
		}
		flush()
	}
	flush()
	return out
}

// analyzeTerms returns unigrams followed by space-joined bigrams.
func analyzeTerms(s string) []string {
	words := tokenizeWords(s)
	if len(words) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(words)-1)
	terms = append(terms, words...)
	for i := 0; i+1 < len(words); i++ {
		terms = append(terms, words[i]+" "+words[i+1])
	}
	return terms
}
