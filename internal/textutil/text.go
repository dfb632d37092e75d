// Package textutil holds the text cleaning and similarity helpers shared by
// belief scoring and alignment.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	cidRe        = regexp.MustCompile(`\(cid:\d+\)`)
	hyphenLineRe = regexp.MustCompile(`-\s*\n\s*`)
	nonWordRe    = regexp.MustCompile(`[^a-z0-9 ]`)
	pureNumRe    = regexp.MustCompile(`\b[0-9]+\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// FoldAccents strips combining marks so "Müller" compares equal to "Muller".
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CleanText lower-cases s, folds accents, replaces anything that is not an
// ASCII letter or digit with a space and collapses whitespace. Bare numbers
// are dropped unless numOK is set.
func CleanText(s string, numOK bool) string {
	s = strings.ToLower(FoldAccents(s))
	s = cidRe.ReplaceAllString(s, " unk ")
	s = hyphenLineRe.ReplaceAllString(s, "")
	s = nonWordRe.ReplaceAllString(s, " ")
	if !numOK {
		s = pureNumRe.ReplaceAllString(s, " ")
	}
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Words returns the cleaned tokens of s.
func Words(s string, numOK bool) []string {
	return strings.Fields(CleanText(s, numOK))
}

// Jaccard returns the share of distinct tokens two strings have in common.
// Two strings with no tokens at all score 0.
func Jaccard(a, b string) float64 {
	wa := tokenSet(a)
	wb := tokenSet(b)
	union := len(wa)
	shared := 0
	for w := range wb {
		if wa[w] {
			shared++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// Similarity is the normalized edit similarity of two cleaned strings, in
// [0, 1]. Empty input on either side scores 0.
func Similarity(a, b string) float64 {
	a = CleanText(a, true)
	b = CleanText(b, true)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return levenshtein.Similarity(a, b, nil)
}
