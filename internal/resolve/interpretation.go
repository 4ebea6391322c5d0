// Package resolve implements the deterministic ambiguity resolution
// protocol: score, prune, collapse. Given the same proposal and the
// same policy it always commits the same interpretation.
package resolve

import (
	"fmt"

	"github.com/motherlabs/kernel/internal/canon"
)

// Interpretation is one candidate reading of the seed intent.
type Interpretation struct {
	Name          string
	Assumptions   []string
	IntentSummary string
}

// NewInterpretation constructs an interpretation, rejecting duplicate
// assumption strings at construction time so a malformed candidate
// never reaches scoring.
func NewInterpretation(name string, assumptions []string, intentSummary string) (Interpretation, error) {
	seen := make(map[string]bool, len(assumptions))
	for _, a := range assumptions {
		if seen[a] {
			return Interpretation{}, fmt.Errorf("interpretation %q: duplicate assumption %q", name, a)
		}
		seen[a] = true
	}
	return Interpretation{
		Name:          name,
		Assumptions:   assumptions,
		IntentSummary: intentSummary,
	}, nil
}

// CanonicalValue implements canon.Encoder.
func (i Interpretation) CanonicalValue() canon.Value {
	return canon.Object{
		"name":           canon.String(i.Name),
		"assumptions":    canon.StringsToArray(i.Assumptions),
		"intent_summary": canon.String(i.IntentSummary),
	}
}

// Interpretations is a proposal-sized candidate set.
type Interpretations []Interpretation

// CanonicalValue implements canon.Encoder.
func (is Interpretations) CanonicalValue() canon.Value {
	arr := make(canon.Array, len(is))
	for i, interp := range is {
		arr[i] = interp.CanonicalValue()
	}
	return arr
}
