package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motherlabs/kernel/internal/artifact"
	"github.com/motherlabs/kernel/internal/canon"
	"github.com/motherlabs/kernel/internal/dag"
	"github.com/motherlabs/kernel/internal/ledger"
	"github.com/motherlabs/kernel/internal/proposer"
	"github.com/motherlabs/kernel/internal/resolve"
	"github.com/motherlabs/kernel/internal/testutil"
)

const seedText = "build a deterministic cache layer"

func params(t *testing.T, prop proposer.Proposer) Params {
	t.Helper()
	return Params{
		RunID:    "run-0001",
		SeedText: seedText,
		Pin:      canon.Object{"target": canon.String("service")},
		Policy:   testutil.Policy(),
		Proposer: prop,
		TSBase:   "tick",
	}
}

func standardProposer(t *testing.T) proposer.Proposer {
	t.Helper()
	return testutil.RecordedProposer(t, seedText, testutil.Policy().MaxInterpretations,
		resolve.Interpretations{
			testutil.Interpretation(t, "Broad", []string{"lru eviction", "bounded memory"}, "cache with eviction"),
			testutil.Interpretation(t, "Narrow", []string{"bounded memory"}, "simple cache"),
		})
}

func TestTokenClockSequence(t *testing.T) {
	clock := NewTokenClock("base")
	assert.Equal(t, "base#0000", clock.Next())
	assert.Equal(t, "base#0001", clock.Next())
	assert.Equal(t, 2, clock.Step())
}

func TestRunConverges(t *testing.T) {
	outcome, err := Run(context.Background(), params(t, standardProposer(t)))
	require.NoError(t, err)
	require.False(t, outcome.Refused())

	result := outcome.Result
	require.Len(t, result.Records, 5)
	kinds := make([]string, len(result.Records))
	for i, rec := range result.Records {
		kinds[i] = rec.Kind
	}
	assert.Equal(t, []string{
		ledger.KindSeedpack,
		ledger.KindProposal,
		ledger.KindCommit,
		ledger.KindCommit,
		ledger.KindArtifact,
	}, kinds)

	for i, rec := range result.Records {
		assert.True(t, strings.HasPrefix(rec.TS, "tick#"), "record %d ts token", i)
	}

	require.NoError(t, ledger.ValidateChain(result.Records))
	assert.NotEmpty(t, result.SummaryHash)
	assert.Equal(t, result.SummaryHash, result.Verification.ExpectedSummaryHash)
}

func TestRunCommitsWinnerAndBuildsGraph(t *testing.T) {
	outcome, err := Run(context.Background(), params(t, standardProposer(t)))
	require.NoError(t, err)
	require.False(t, outcome.Refused())

	graph := outcome.Result.Graph

	// Winner is Narrow: one assumption beats two, and the shared
	// assumption penalizes both equally.
	// Nodes: seed, interpretation, one assumption.
	nodes := graph.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, dag.NodeSeed, nodes[0].Kind)
	assert.Equal(t, dag.NodeInterpretation, nodes[1].Kind)
	assert.Equal(t, dag.NodeAssumption, nodes[2].Kind)

	edges := graph.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, dag.EdgeRefines, edges[0].Kind)
	assert.Equal(t, dag.EdgeDependsOn, edges[1].Kind)

	assert.Equal(t, nodes[1].ID, outcome.Result.Blueprint.IntentRootNodeID)
	assert.Equal(t, artifact.BlueprintInvariants, outcome.Result.Blueprint.Invariants)
}

func TestRunDeterministicAcrossIndependentRuns(t *testing.T) {
	o1, err := Run(context.Background(), params(t, standardProposer(t)))
	require.NoError(t, err)
	o2, err := Run(context.Background(), params(t, standardProposer(t)))
	require.NoError(t, err)

	require.False(t, o1.Refused())
	require.False(t, o2.Refused())
	assert.Equal(t, o1.SummaryHash(), o2.SummaryHash(),
		"same seed, proposal, and policy must produce identical summaries")

	r1 := o1.Result.Records
	r2 := o2.Result.Records
	require.Equal(t, len(r1), len(r2))
	for i := range r1 {
		assert.Equal(t, r1[i].RecordHash, r2[i].RecordHash, "record %d", i)
	}
}

func TestRunRejectsInvalidPolicy(t *testing.T) {
	p := params(t, standardProposer(t))
	p.Policy.MaxSteps = 0

	_, err := Run(context.Background(), p)
	require.Error(t, err, "policy validation happens before any ledger write")
}

func TestRunRefusesOnEmptyProposal(t *testing.T) {
	outcome, err := Run(context.Background(), params(t, proposer.Null{}))
	require.NoError(t, err, "refusal is an outcome, not an error")
	require.True(t, outcome.Refused())

	report := outcome.Refusal.Report
	assert.Equal(t, []string{ReasonEmptyProposal}, report.ReasonCodes)
	assert.Equal(t, artifact.StatusRefused, report.Status)
	assert.Equal(t, []string{"Increase proposer output or check proposer configuration"},
		report.PolicySuggestions)

	// Ledger: seedpack, proposal, refusal artifact. Evidence hashes
	// cover the records before the refusal record.
	records := outcome.Refusal.Records
	require.Len(t, records, 3)
	assert.Equal(t, ledger.KindArtifact, records[2].Kind)
	require.Len(t, report.EvidenceRecordHashes, 2)
	assert.Equal(t, records[0].RecordHash, report.EvidenceRecordHashes[0])
	assert.Equal(t, records[1].RecordHash, report.EvidenceRecordHashes[1])

	require.NoError(t, ledger.ValidateChain(records))
}

func TestRunRefusesOnContradictionBudget(t *testing.T) {
	pol := testutil.Policy()
	pol.ContradictionBudget = 0

	prop := testutil.RecordedProposer(t, seedText, pol.MaxInterpretations,
		resolve.Interpretations{
			testutil.Interpretation(t, "A", []string{"shared"}, "one"),
			testutil.Interpretation(t, "B", []string{"shared"}, "two"),
		})

	p := params(t, prop)
	p.Policy = pol

	outcome, err := Run(context.Background(), p)
	require.NoError(t, err)
	require.True(t, outcome.Refused())

	require.Len(t, outcome.Refusal.Report.ReasonCodes, 1)
	assert.Equal(t, "contradictions_exceeded:1>0", outcome.Refusal.Report.ReasonCodes[0])
	assert.Equal(t, []string{"Increase contradiction_budget or reduce assumption overlap"},
		outcome.Refusal.Report.PolicySuggestions)
}

func TestRunRefusalDeterministic(t *testing.T) {
	o1, err := Run(context.Background(), params(t, proposer.Null{}))
	require.NoError(t, err)
	o2, err := Run(context.Background(), params(t, proposer.Null{}))
	require.NoError(t, err)

	h1, err := o1.Refusal.Report.Hash()
	require.NoError(t, err)
	h2, err := o2.Refusal.Report.Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}
