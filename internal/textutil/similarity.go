package textutil

import "github.com/agnivade/levenshtein"

// Similarity scores two strings in [0, 1] using edit distance over the raw
// inputs. Callers normalize first when separator style should not count
// against the score. Identical strings score 1; an empty string against a
// non-empty one scores 0.
func Similarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	distance := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	score := 1 - float64(distance)/float64(longest)
	if score < 0 {
		return 0
	}
	return score
}
