// Package proposer defines the untrusted side of the authority
// boundary: sources that suggest interpretations of a seed. Proposer
// output enters the kernel only as a Proposal and never as committed
// state.
package proposer

import (
	"context"

	"github.com/motherlabs/kernel/internal/boundary"
	"github.com/motherlabs/kernel/internal/resolve"
)

// Proposer generates candidate interpretations for a seed. The kernel
// calls it exactly once per run.
type Proposer interface {
	ProposeInterpretations(ctx context.Context, seedHash string, n int) (boundary.Proposal[resolve.Interpretations], error)
}

// Null always proposes nothing. It exercises the refusal path.
type Null struct{}

// ProposeInterpretations returns an empty proposal.
func (Null) ProposeInterpretations(ctx context.Context, seedHash string, n int) (boundary.Proposal[resolve.Interpretations], error) {
	return boundary.NewProposal(boundary.SourceHeuristic, resolve.Interpretations{}, nil)
}
