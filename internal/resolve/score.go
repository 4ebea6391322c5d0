package resolve

import "unicode/utf8"

// Score computes the cost of an interpretation relative to the whole
// candidate set. Lower cost wins: fewer assumptions and shorter
// summaries mean fewer invented commitments.
//
//	base    = runes(intent_summary) + 10 * len(assumptions)
//	penalty = sum over assumptions of 5 * (occurrences - 1)
//
// where occurrences counts the interpretations in the set that carry
// the assumption. Shared assumptions across candidates indicate the
// proposer is hedging, so they cost extra.
//
// Changing this formula changes collapse outcomes and therefore every
// downstream artifact hash. Treat a change here like a compiler
// change: regenerate the golden fixtures deliberately.
func Score(interp Interpretation, all Interpretations) int {
	base := utf8.RuneCountInString(interp.IntentSummary) + 10*len(interp.Assumptions)

	penalty := 0
	for _, assumption := range interp.Assumptions {
		occurrences := 0
		for _, other := range all {
			if containsAssumption(other, assumption) {
				occurrences++
			}
		}
		if occurrences > 1 {
			penalty += 5 * (occurrences - 1)
		}
	}

	return base + penalty
}

func containsAssumption(interp Interpretation, assumption string) bool {
	for _, a := range interp.Assumptions {
		if a == assumption {
			return true
		}
	}
	return false
}
