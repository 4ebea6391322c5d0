// Package artifact defines the terminal outputs of a run: the
// blueprint produced on convergence, the verification pack that proves
// run integrity, and the refusal report produced when the kernel
// declines to guess. All artifacts are canonically hashable.
package artifact

import "github.com/motherlabs/kernel/internal/canon"

// Invariants every blueprint commits to. Listed in the blueprint so a
// consumer can check what the producing kernel guaranteed.
var BlueprintInvariants = []string{
	"no_cycles",
	"all_edges_reference_nodes",
	"deterministic_ids",
}

// BlueprintSpec is the primary artifact of a converged run.
type BlueprintSpec struct {
	RunID            string
	SeedHash         string
	IntentRootNodeID string
	PinnedTarget     canon.Object
	Invariants       []string
	ModuleContracts  []canon.Object
}

// CanonicalValue implements canon.Encoder.
func (b BlueprintSpec) CanonicalValue() canon.Value {
	contracts := make(canon.Array, len(b.ModuleContracts))
	for i, c := range b.ModuleContracts {
		contracts[i] = c
	}
	return canon.Object{
		"run_id":              canon.String(b.RunID),
		"seed_hash":           canon.String(b.SeedHash),
		"intent_root_node_id": canon.String(b.IntentRootNodeID),
		"pinned_target":       b.PinnedTarget,
		"invariants":          canon.StringsToArray(b.Invariants),
		"module_contracts":    contracts,
	}
}

// Hash computes the blueprint artifact hash.
func (b BlueprintSpec) Hash() (string, error) {
	return canon.HashEncoder(b)
}
