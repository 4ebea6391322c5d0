// Package testutil provides shared fixtures for kernel tests.
package testutil

import (
	"testing"

	"github.com/motherlabs/kernel/internal/canon"
	"github.com/motherlabs/kernel/internal/policy"
	"github.com/motherlabs/kernel/internal/proposer"
	"github.com/motherlabs/kernel/internal/resolve"
)

// Policy returns a valid policy with room for the standard fixtures.
func Policy() policy.Policy {
	return policy.Policy{
		MaxInterpretations:  3,
		MaxNodes:            32,
		MaxDepth:            8,
		ContradictionBudget: 4,
		MaxSteps:            16,
		TieBreak:            policy.TieBreakLexicographic,
	}
}

// Interpretation builds an interpretation, failing the test on
// duplicate assumptions.
func Interpretation(t *testing.T, name string, assumptions []string, summary string) resolve.Interpretation {
	t.Helper()
	interp, err := resolve.NewInterpretation(name, assumptions, summary)
	if err != nil {
		t.Fatalf("build interpretation %s: %v", name, err)
	}
	return interp
}

// RecordedProposer builds a Recorded proposer serving the given
// candidates for one seed at the policy's interpretation budget.
func RecordedProposer(t *testing.T, seedText string, n int, candidates resolve.Interpretations) *proposer.Recorded {
	t.Helper()
	seedHash, err := canon.Hash(canon.String(seedText))
	if err != nil {
		t.Fatalf("hash seed: %v", err)
	}
	return proposer.NewRecorded(map[string]resolve.Interpretations{
		proposer.RecordingKey(seedHash, n): candidates,
	})
}
