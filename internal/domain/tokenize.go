package domain

import (
	"strings"
	"unicode"
)

// MinTermLength is the shortest token kept by Tokenize.
const MinTermLength = 3

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`the a an is are was were be been being have has had do does did
		will would could should may might shall can need to of in for on with at by from as into
		through during before after above below between out off over under again further then once
		and but or if while what which who this that these those it its how`) {
		stopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether w (lowercase) is ignored by Tokenize.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// Tokenize lowercases text, splits on whitespace, trims punctuation from each
// word and drops stop-words and short tokens. Duplicates are removed, keeping
// first-occurrence order.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	terms := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(w) < MinTermLength || IsStopWord(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
	}
	return terms
}

// LabelTerms splits a node label into scoring terms: lowercase, split on
// anything that is not a letter or digit, keeping tokens of MinTermLength or more.
// Unlike Tokenize, duplicates are kept so term frequency can be counted.
func LabelTerms(label string) []string {
	parts := strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := parts[:0]
	for _, p := range parts {
		if len(p) >= MinTermLength {
			terms = append(terms, p)
		}
	}
	return terms
}
