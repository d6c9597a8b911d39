// Package guess implements near-miss matching for free-text commander
// guesses.
package guess

import (
	"strings"
	"unicode"
)

// Normalize lowercases s, strips everything but letters, digits and
// spaces, and collapses runs of whitespace to single spaces.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Matches reports whether guess is close enough to target: equal after
// normalization, or within an edit distance of a quarter of the target's
// normalized length (minimum one edit).
func Matches(guess, target string) bool {
	g := Normalize(guess)
	t := Normalize(target)
	if g == t {
		return true
	}
	if g == "" || t == "" {
		return false
	}

	threshold := len(t) / 4
	if threshold < 1 {
		threshold = 1
	}
	return levenshteinDistance(g, t) <= threshold
}

// MatchAny returns the first target that guess matches, if any.
func MatchAny(guess string, targets []string) (string, bool) {
	for _, target := range targets {
		if Matches(guess, target) {
			return target, true
		}
	}
	return "", false
}

// levenshteinDistance calculates the minimum number of single-character
// edits required to change one string into the other.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	d := make([][]int, len(s1)+1)
	for i := range d {
		d[i] = make([]int, len(s2)+1)
	}
	for i := 0; i <= len(s1); i++ {
		d[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		d[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			d[i][j] = min(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[len(s1)][len(s2)]
}
