package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motherlabs/kernel/internal/canon"
)

func TestNewProposalComputesStableHash(t *testing.T) {
	value := canon.Object{"k": canon.String("v")}

	p1, err := NewProposal(SourceLLM, value, nil)
	require.NoError(t, err)
	p2, err := NewProposal(SourceLLM, value, nil)
	require.NoError(t, err)

	assert.Equal(t, p1.ProposalHash, p2.ProposalHash,
		"identical proposals must hash identically")
	assert.Len(t, p1.ProposalHash, 64)
}

func TestProposalHashCoversSourceAndConfidence(t *testing.T) {
	value := canon.Object{"k": canon.String("v")}

	llm, err := NewProposal(SourceLLM, value, nil)
	require.NoError(t, err)
	heuristic, err := NewProposal(SourceHeuristic, value, nil)
	require.NoError(t, err)
	assert.NotEqual(t, llm.ProposalHash, heuristic.ProposalHash)

	confidence := 0.5
	confident, err := NewProposal(SourceLLM, value, &confidence)
	require.NoError(t, err)
	assert.NotEqual(t, llm.ProposalHash, confident.ProposalHash,
		"absent confidence hashes as null, not as any present value")
}

func TestProposalCanonicalValueEmbedsHash(t *testing.T) {
	p, err := NewProposal(SourceRetrieval, canon.String("x"), nil)
	require.NoError(t, err)

	obj, ok := p.CanonicalValue().(canon.Object)
	require.True(t, ok)
	assert.Equal(t, canon.String(p.ProposalHash), obj["proposal_hash"])
	assert.Equal(t, canon.Null{}, obj["confidence"])
}

func TestNewCommitDistinguishesProvenance(t *testing.T) {
	value := canon.Object{"k": canon.String("v")}

	derived, err := NewCommit(value, "")
	require.NoError(t, err)
	accepted, err := NewCommit(value, "abc123")
	require.NoError(t, err)

	assert.NotEqual(t, derived.CommitHash, accepted.CommitHash,
		"kernel-derived and proposal-accepted commits must hash differently")

	obj, ok := derived.CanonicalValue().(canon.Object)
	require.True(t, ok)
	assert.Equal(t, canon.Null{}, obj["accepted_from"],
		"empty provenance is an explicit null")
}

func TestCommitHashStable(t *testing.T) {
	value := canon.Object{"a": canon.Int(1), "b": canon.Int(2)}
	c1, err := NewCommit(value, "p1")
	require.NoError(t, err)
	c2, err := NewCommit(canon.Object{"b": canon.Int(2), "a": canon.Int(1)}, "p1")
	require.NoError(t, err)

	assert.Equal(t, c1.CommitHash, c2.CommitHash,
		"key order must not affect the commit hash")
}
