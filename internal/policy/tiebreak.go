package policy

import "fmt"

// SelectTieBreak deterministically selects one string from a non-empty
// list. The only supported method is lexicographic: the smallest
// string by byte order wins.
func SelectTieBreak(candidates []string, method string) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("cannot tie-break empty list")
	}
	if method != TieBreakLexicographic {
		return "", fmt.Errorf("unknown tie-break method: %s", method)
	}

	min := candidates[0]
	for _, c := range candidates[1:] {
		if c < min {
			min = c
		}
	}
	return min, nil
}
