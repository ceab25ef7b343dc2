package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name and strips all whitespace, "AP  Biology " and
// "ap biology" normalize to the same string.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// MatchName reports whether the normalized name contains any of the already normalized matchers.
func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// Suggestion is the closest candidate found by Closest.
type Suggestion struct {
	Name       string
	Similarity float64
}

// Closest returns the candidate most similar to name by Jaro-Winkler distance over
// normalized names. ok is false when there are no candidates or nothing is similar.
func Closest(name string, candidates []string) (suggestion Suggestion, ok bool) {
	normalized := NormalizeName(name)
	for _, candidate := range candidates {
		similarity := matchr.JaroWinkler(normalized, NormalizeName(candidate), false)
		if similarity > suggestion.Similarity {
			suggestion = Suggestion{Name: candidate, Similarity: similarity}
			ok = true
		}
	}
	return suggestion, ok
}
