package proposer

import (
	"context"
	"time"

	"github.com/motherlabs/kernel/internal/boundary"
	"github.com/motherlabs/kernel/internal/resolve"
)

// DefaultProposeTimeout bounds a single propose call when the caller
// does not override it.
const DefaultProposeTimeout = 30 * time.Second

// Bounded wraps another proposer with a wall-clock timeout. A proposer
// that exceeds the budget yields an empty proposal, which downstream
// becomes a refusal rather than an indefinite hang. The timeout shapes
// control flow only and never enters any hash.
type Bounded struct {
	inner   Proposer
	timeout time.Duration
}

// NewBounded wraps inner with a timeout. A non-positive timeout falls
// back to DefaultProposeTimeout.
func NewBounded(inner Proposer, timeout time.Duration) *Bounded {
	if timeout <= 0 {
		timeout = DefaultProposeTimeout
	}
	return &Bounded{inner: inner, timeout: timeout}
}

// ProposeInterpretations delegates to the wrapped proposer under a
// deadline. Deadline expiry maps to an empty proposal; other errors
// pass through.
func (b *Bounded) ProposeInterpretations(ctx context.Context, seedHash string, n int) (boundary.Proposal[resolve.Interpretations], error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	type result struct {
		proposal boundary.Proposal[resolve.Interpretations]
		err      error
	}
	ch := make(chan result, 1)
	go func() {
		p, err := b.inner.ProposeInterpretations(ctx, seedHash, n)
		ch <- result{proposal: p, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil && ctx.Err() != nil {
			return boundary.NewProposal(boundary.SourceHeuristic, resolve.Interpretations{}, nil)
		}
		return res.proposal, res.err
	case <-ctx.Done():
		return boundary.NewProposal(boundary.SourceHeuristic, resolve.Interpretations{}, nil)
	}
}
