// Package harness runs end-to-end kernel scenarios for tests: a seed,
// a recorded candidate set, and a policy, executed through the full
// engine with deterministic identifiers.
package harness

import (
	"context"
	"testing"

	"github.com/motherlabs/kernel/internal/canon"
	"github.com/motherlabs/kernel/internal/engine"
	"github.com/motherlabs/kernel/internal/policy"
	"github.com/motherlabs/kernel/internal/proposer"
	"github.com/motherlabs/kernel/internal/resolve"
)

// Scenario is one fully pinned kernel run. Every field is part of the
// deterministic input surface, so a scenario always produces the same
// ledger bytes.
type Scenario struct {
	Name       string
	RunID      string
	TSBase     string
	SeedText   string
	Pin        canon.Object
	Policy     policy.Policy
	Candidates resolve.Interpretations
}

// Run executes the scenario through the engine with a recorded
// proposer serving the scenario's candidates.
func Run(t *testing.T, s Scenario) engine.Outcome {
	t.Helper()

	seedHash, err := canon.Hash(canon.String(s.SeedText))
	if err != nil {
		t.Fatalf("scenario %s: hash seed: %v", s.Name, err)
	}

	recorded := proposer.NewRecorded(map[string]resolve.Interpretations{
		proposer.RecordingKey(seedHash, s.Policy.MaxInterpretations): s.Candidates,
	})

	outcome, err := engine.Run(context.Background(), engine.Params{
		RunID:    s.RunID,
		SeedText: s.SeedText,
		Pin:      s.Pin,
		Policy:   s.Policy,
		Proposer: recorded,
		TSBase:   s.TSBase,
	})
	if err != nil {
		t.Fatalf("scenario %s: run: %v", s.Name, err)
	}
	return outcome
}
