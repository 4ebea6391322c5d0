package resolve

import (
	"errors"
	"fmt"

	"github.com/motherlabs/kernel/internal/boundary"
	"github.com/motherlabs/kernel/internal/policy"
)

// ErrNoCandidates is returned when the proposal carries no
// interpretations, or pruning leaves none. The caller decides whether
// that becomes a refusal.
var ErrNoCandidates = errors.New("no interpretations to resolve")

// Resolve collapses a proposal to a single committed interpretation:
// score every candidate, prune to the policy limit, take the first
// survivor. The winner is the lowest-cost candidate with lexicographic
// name as the tie-break, which makes the outcome a pure function of
// the proposal content and the policy.
//
// The proposer is not consulted here. The caller obtains exactly one
// proposal per run and passes it in, so the evidence ledger records
// the same proposal the resolver saw.
func Resolve(proposal boundary.Proposal[Interpretations], pol policy.Policy) (boundary.Commit[Interpretation], error) {
	candidates := proposal.Value
	if len(candidates) == 0 {
		return boundary.Commit[Interpretation]{}, ErrNoCandidates
	}

	pruned := Prune(candidates, pol)
	if len(pruned) == 0 {
		return boundary.Commit[Interpretation]{}, ErrNoCandidates
	}

	winner := pruned[0]

	commit, err := boundary.NewCommit(winner, proposal.ProposalHash)
	if err != nil {
		return boundary.Commit[Interpretation]{}, fmt.Errorf("commit winner: %w", err)
	}
	return commit, nil
}
