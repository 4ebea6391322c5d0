package boundary

import (
	"fmt"

	"github.com/motherlabs/kernel/internal/canon"
)

// Commit is an authoritative, kernel-accepted value. Commits are
// created only by the kernel, only after verification succeeds.
//
// AcceptedFrom records the proposal_hash of the accepted proposal,
// enabling provenance tracing from commit back to proposal in the
// ledger. Empty means kernel-derived with no prior proposal and is
// hashed as an explicit null.
type Commit[T canon.Encoder] struct {
	Value        T
	AcceptedFrom string
	CommitHash   string
}

// NewCommit creates a Commit with its hash computed, symmetric to
// NewProposal: the hash input is the canonical projection minus the
// hash field itself.
func NewCommit[T canon.Encoder](value T, acceptedFrom string) (Commit[T], error) {
	hash, err := canon.Hash(canon.Object{
		"value":         value.CanonicalValue(),
		"accepted_from": acceptedFromValue(acceptedFrom),
	})
	if err != nil {
		return Commit[T]{}, fmt.Errorf("commit hash: %w", err)
	}

	return Commit[T]{
		Value:        value,
		AcceptedFrom: acceptedFrom,
		CommitHash:   hash,
	}, nil
}

// CanonicalValue implements canon.Encoder.
func (c Commit[T]) CanonicalValue() canon.Value {
	return canon.Object{
		"value":         c.Value.CanonicalValue(),
		"accepted_from": acceptedFromValue(c.AcceptedFrom),
		"commit_hash":   canon.String(c.CommitHash),
	}
}

func acceptedFromValue(s string) canon.Value {
	if s == "" {
		return canon.Null{}
	}
	return canon.String(s)
}
