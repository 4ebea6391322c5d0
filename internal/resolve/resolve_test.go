package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motherlabs/kernel/internal/boundary"
	"github.com/motherlabs/kernel/internal/policy"
)

func mustInterp(t *testing.T, name string, assumptions []string, summary string) Interpretation {
	t.Helper()
	interp, err := NewInterpretation(name, assumptions, summary)
	require.NoError(t, err)
	return interp
}

func proposalOf(t *testing.T, candidates Interpretations) boundary.Proposal[Interpretations] {
	t.Helper()
	p, err := boundary.NewProposal(boundary.SourceHeuristic, candidates, nil)
	require.NoError(t, err)
	return p
}

func TestNewInterpretationRejectsDuplicateAssumptions(t *testing.T) {
	_, err := NewInterpretation("dup", []string{"x", "x"}, "summary")
	require.Error(t, err, "duplicate assumptions are a construction-time violation")
}

func TestScoreCostFormula(t *testing.T) {
	a := mustInterp(t, "A", []string{"x"}, "ab")
	b := mustInterp(t, "B", []string{"x", "y"}, "ab")
	all := Interpretations{a, b}

	// cost(A) = 2 + 10*1 + 5*(2-1) = 17
	// cost(B) = 2 + 10*2 + 5*(2-1) = 27
	assert.Equal(t, 17, Score(a, all))
	assert.Equal(t, 27, Score(b, all))
}

func TestScoreCountsRunesNotBytes(t *testing.T) {
	interp := mustInterp(t, "A", nil, "héllo")
	assert.Equal(t, 5, Score(interp, Interpretations{interp}))
}

func TestScoreNoPenaltyWithoutSharedAssumptions(t *testing.T) {
	a := mustInterp(t, "A", []string{"x"}, "ab")
	b := mustInterp(t, "B", []string{"y"}, "ab")
	all := Interpretations{a, b}

	assert.Equal(t, 12, Score(a, all))
	assert.Equal(t, 12, Score(b, all))
}

func TestPruneSortsByCostThenName(t *testing.T) {
	cheap := mustInterp(t, "Cheap", nil, "ab")
	mid := mustInterp(t, "Mid", []string{"x"}, "ab")
	costly := mustInterp(t, "Costly", []string{"x", "y"}, "ab")

	pruned := Prune(Interpretations{costly, mid, cheap}, policy.Default())
	require.Len(t, pruned, 3)
	assert.Equal(t, "Cheap", pruned[0].Name)
	assert.Equal(t, "Mid", pruned[1].Name)
	assert.Equal(t, "Costly", pruned[2].Name)
}

func TestPruneKeepsTopK(t *testing.T) {
	pol := policy.Default()
	pol.MaxInterpretations = 1

	a := mustInterp(t, "A", nil, "short")
	b := mustInterp(t, "B", []string{"x"}, "longer summary")

	pruned := Prune(Interpretations{b, a}, pol)
	require.Len(t, pruned, 1)
	assert.Equal(t, "A", pruned[0].Name)
}

func TestPruneEmptyInput(t *testing.T) {
	assert.Empty(t, Prune(nil, policy.Default()))
}

func TestResolveSelectsLowestCost(t *testing.T) {
	a := mustInterp(t, "A", []string{"x"}, "ab")
	b := mustInterp(t, "B", []string{"x", "y"}, "ab")
	proposal := proposalOf(t, Interpretations{b, a})

	commit, err := Resolve(proposal, policy.Default())
	require.NoError(t, err)

	assert.Equal(t, "A", commit.Value.Name, "lowest cost wins")
	assert.Equal(t, proposal.ProposalHash, commit.AcceptedFrom,
		"commit provenance traces to the proposal")
	assert.NotEmpty(t, commit.CommitHash)
}

func TestResolveLexicographicTieBreak(t *testing.T) {
	apple := mustInterp(t, "Apple", nil, "same")
	banana := mustInterp(t, "Banana", nil, "same")

	commit, err := Resolve(proposalOf(t, Interpretations{banana, apple}), policy.Default())
	require.NoError(t, err)
	assert.Equal(t, "Apple", commit.Value.Name,
		"identical cost falls back to lexicographic name order")
}

func TestResolveDeterministicAcrossCalls(t *testing.T) {
	candidates := Interpretations{
		mustInterp(t, "B", []string{"shared", "extra"}, "do the thing"),
		mustInterp(t, "A", []string{"shared"}, "do the thing"),
		mustInterp(t, "C", nil, "a much longer intent summary here"),
	}
	proposal := proposalOf(t, candidates)

	c1, err := Resolve(proposal, policy.Default())
	require.NoError(t, err)
	c2, err := Resolve(proposal, policy.Default())
	require.NoError(t, err)

	assert.Equal(t, c1.CommitHash, c2.CommitHash,
		"same proposal and policy must commit identically")
}

func TestResolveEmptyProposal(t *testing.T) {
	_, err := Resolve(proposalOf(t, Interpretations{}), policy.Default())
	require.ErrorIs(t, err, ErrNoCandidates)
}
