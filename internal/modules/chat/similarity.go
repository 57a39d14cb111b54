package chat

import (
	"strings"
	"unicode"
)

const (
	DefaultSimilarityThreshold = 70.0
)

var articles = map[string]struct{}{"the": {}, "a": {}, "an": {}}

var stopWords = map[string]struct{}{
	"and": {}, "or": {}, "for": {}, "with": {}, "the": {}, "to": {}, "of": {}, "in": {},
	"on": {}, "at": {}, "by": {}, "from": {}, "into": {}, "about": {}, "this": {},
	"that": {}, "our": {}, "your": {}, "new": {}, "some": {}, "all": {}, "are": {},
	"was": {}, "its": {}, "has": {}, "have": {}, "will": {},
}

// Normalize lowercases, strips articles and punctuation and collapses whitespace.
func Normalize(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, name)
	fields := strings.Fields(cleaned)
	out := fields[:0]
	for _, f := range fields {
		if _, ok := articles[f]; ok {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// Keywords returns the distinct significant tokens of a name, in order.
func Keywords(name string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, tok := range strings.Fields(Normalize(name)) {
		if len([]rune(tok)) <= 2 {
			continue
		}
		if _, ok := stopWords[tok]; ok {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// Similarity is the keyword overlap percentage of a and b. Two keywords overlap
// when either contains the other.
func Similarity(a, b string) float64 {
	ka, kb := Keywords(a), Keywords(b)
	if len(ka) == 0 || len(kb) == 0 {
		na, nb := Normalize(a), Normalize(b)
		if na != "" && na == nb {
			return 100
		}
		return 0
	}
	overlap := 0
	for _, x := range ka {
		for _, y := range kb {
			if strings.Contains(x, y) || strings.Contains(y, x) {
				overlap++
				break
			}
		}
	}
	denom := len(ka)
	if len(kb) > denom {
		denom = len(kb)
	}
	return float64(overlap) / float64(denom) * 100
}

// FindDuplicate returns the first item whose name is at least threshold similar to name.
func FindDuplicate[T any](name string, items []T, nameOf func(T) string, threshold float64) (T, bool) {
	var zero T
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	for _, it := range items {
		if Similarity(name, nameOf(it)) >= threshold {
			return it, true
		}
	}
	return zero, false
}
