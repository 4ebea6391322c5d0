package resolve

import (
	"sort"

	"github.com/motherlabs/kernel/internal/policy"
)

// Prune scores the candidate set and keeps the cheapest K, where K is
// policy.MaxInterpretations. Order within the result is cost
// ascending, then name lexicographic ascending. The sort is stable so
// equal (cost, name) pairs keep proposal order, though names are
// expected to be unique in practice.
func Prune(candidates Interpretations, pol policy.Policy) Interpretations {
	if len(candidates) == 0 {
		return nil
	}

	type scored struct {
		cost   int
		interp Interpretation
	}
	ranked := make([]scored, len(candidates))
	for i, interp := range candidates {
		ranked[i] = scored{cost: Score(interp, candidates), interp: interp}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].cost != ranked[j].cost {
			return ranked[i].cost < ranked[j].cost
		}
		return ranked[i].interp.Name < ranked[j].interp.Name
	})

	keep := len(ranked)
	if pol.MaxInterpretations < keep {
		keep = pol.MaxInterpretations
	}

	out := make(Interpretations, keep)
	for i := 0; i < keep; i++ {
		out[i] = ranked[i].interp
	}
	return out
}
