package textutil

import (
	"github.com/agnivade/levenshtein"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Similarity returns the Ratcliff/Obershelp ratio of a and b in [0, 1]:
// twice the number of runes in matching blocks divided by the total rune
// count. Matching blocks come from a recursive longest-common-substring
// search over the remainders on either side of each match. Two empty strings
// are identical and score 1.
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(runeElements(a), runeElements(b)).Ratio()
}

// MatchKey folds a name for comparison: canonical composition first, so
// precomposed and decomposed accents agree, then full Unicode lowercasing.
func MatchKey(name string) string {
	// cases.Caser keeps state between calls and is not safe to share.
	return cases.Lower(language.Und).String(norm.NFC.String(name))
}

// EditDistance returns the rune-level Levenshtein distance between a and b.
func EditDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

func runeElements(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
