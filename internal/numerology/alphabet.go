package numerology

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Alphabet maps a lowercase letter to its digit (1..9).
type Alphabet map[rune]int

// LetterSet is a membership set of lowercase letters (vowels, consonants).
type LetterSet map[rune]struct{}

// NewLetterSet builds a LetterSet from the runes of s.
func NewLetterSet(s string) LetterSet {
	set := make(LetterSet, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

func (s LetterSet) Has(r rune) bool {
	_, ok := s[r]
	return ok
}

// Casers and transformer chains are stateful, so each call builds its own.
func stripAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Sanitize case-folds raw, removes diacritics and keeps only the runes
// present in the alphabet, in their original order.
func (a Alphabet) Sanitize(raw string) string {
	folded := cases.Fold().String(raw)
	plain, _, err := transform.String(stripAccents(), folded)
	if err != nil {
		plain = folded
	}

	var b strings.Builder
	b.Grow(len(plain))
	for _, r := range plain {
		if _, ok := a[r]; ok {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Digits maps every letter of a sanitized name to its digit. Letters
// missing from the alphabet are skipped.
func (a Alphabet) Digits(sanitized string) []int {
	if sanitized == "" {
		return nil
	}
	out := make([]int, 0, len(sanitized))
	for _, r := range sanitized {
		if d, ok := a[r]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Filter keeps the letters of sanitized that are members of set.
func (s LetterSet) Filter(sanitized string) string {
	var b strings.Builder
	for _, r := range sanitized {
		if s.Has(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
