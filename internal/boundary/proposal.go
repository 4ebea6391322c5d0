// Package boundary defines the authority boundary between untrusted
// producers and the kernel: Proposal wraps an external suggestion,
// Commit wraps a kernel acceptance. Proposals are NEVER authoritative;
// only committed state is.
package boundary

import (
	"fmt"

	"github.com/motherlabs/kernel/internal/canon"
)

// Proposal sources.
const (
	SourceLLM       = "llm"
	SourceRetrieval = "retrieval"
	SourceHeuristic = "heuristic"
)

// Proposal is a probabilistic suggestion from an external producer.
// It is copied into the kernel on creation and never mutated after.
//
// The hash input is built from exactly the fields the canonical
// projection exposes, minus the hash field itself. Absent confidence
// is an explicit null in both, so "absent" and "present-but-default"
// stay distinguishable across implementations.
type Proposal[T canon.Encoder] struct {
	Source       string
	Confidence   *float64
	Value        T
	ProposalHash string
}

// NewProposal creates a Proposal with its hash computed. Construction
// fails with a typed encoding error before any hash is computed if the
// value is not JSON-safe.
func NewProposal[T canon.Encoder](source string, value T, confidence *float64) (Proposal[T], error) {
	hash, err := canon.Hash(canon.Object{
		"source":     canon.String(source),
		"confidence": confidenceValue(confidence),
		"value":      value.CanonicalValue(),
	})
	if err != nil {
		return Proposal[T]{}, fmt.Errorf("proposal hash: %w", err)
	}

	return Proposal[T]{
		Source:       source,
		Confidence:   confidence,
		Value:        value,
		ProposalHash: hash,
	}, nil
}

// CanonicalValue implements canon.Encoder.
func (p Proposal[T]) CanonicalValue() canon.Value {
	return canon.Object{
		"source":        canon.String(p.Source),
		"confidence":    confidenceValue(p.Confidence),
		"value":         p.Value.CanonicalValue(),
		"proposal_hash": canon.String(p.ProposalHash),
	}
}

func confidenceValue(c *float64) canon.Value {
	if c == nil {
		return canon.Null{}
	}
	return canon.Float(*c)
}
