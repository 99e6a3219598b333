package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxJumpDistance is the largest edit distance, as a fraction of the
// longer string, still accepted as a fuzzy title match.
const maxJumpDistance = 0.4

// resolveJump maps prompt input to a zero-based slide index. Numbers are
// one-based slide numbers; anything else matches titles by prefix, then
// substring, then edit distance.
func resolveJump(query string, titles []string) (int, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return 0, fmt.Errorf("empty jump target")
	}
	if n, err := strconv.Atoi(q); err == nil {
		return n - 1, nil
	}
	q = strings.ToLower(q)
	lower := make([]string, len(titles))
	for i, t := range titles {
		lower[i] = strings.ToLower(t)
	}
	for i, t := range lower {
		if strings.HasPrefix(t, q) {
			return i, nil
		}
	}
	for i, t := range lower {
		if strings.Contains(t, q) {
			return i, nil
		}
	}
	best, bestScore := -1, maxJumpDistance
	for i, t := range lower {
		longest := max(len([]rune(t)), len([]rune(q)))
		if longest == 0 {
			continue
		}
		score := float64(levenshtein.ComputeDistance(q, t)) / float64(longest)
		if score <= bestScore {
			if best < 0 || score < bestScore {
				best, bestScore = i, score
			}
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("no slide matches %q", query)
	}
	return best, nil
}
