package utils

import (
	"strings"
	"unicode"
)

// NormalizeNameWords uppercases a name and strips every non-letter rune,
// returning the remaining words. African names on IDs and payslips differ
// in ordering and punctuation far more often than in the words themselves,
// which is why matching works on word sets rather than edit distance.
func NormalizeNameWords(name string) []string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		} else if unicode.IsSpace(r) {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// NameSimilarity scores two names by word-set overlap:
// 2 x shared words / (words in a + words in b). The score is symmetric,
// 1.0 for identical word sets regardless of order, and 0 when either name
// normalizes to nothing.
func NameSimilarity(a, b string) float64 {
	wordsA := NormalizeNameWords(a)
	wordsB := NormalizeNameWords(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		setA[w] = true
	}
	setB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		setB[w] = true
	}

	shared := 0
	for w := range setA {
		if setB[w] {
			shared++
		}
	}

	return 2 * float64(shared) / float64(len(setA)+len(setB))
}
