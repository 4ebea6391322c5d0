package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motherlabs/kernel/internal/canon"
	"github.com/motherlabs/kernel/internal/ledger"
	"github.com/motherlabs/kernel/internal/proposer"
)

func TestReplayReproducesSummaryHash(t *testing.T) {
	outcome, err := Run(context.Background(), params(t, standardProposer(t)))
	require.NoError(t, err)
	require.False(t, outcome.Refused())

	replayed, err := Replay(outcome.Result.Records, "run-0001")
	require.NoError(t, err)
	require.False(t, replayed.Refused())

	assert.Equal(t, outcome.SummaryHash(), replayed.SummaryHash(),
		"replay must reproduce the summary bit-for-bit")
	assert.Equal(t, outcome.Result.Blueprint, replayed.Result.Blueprint)

	origRoot, err := outcome.Result.Graph.RootHash()
	require.NoError(t, err)
	replayRoot, err := replayed.Result.Graph.RootHash()
	require.NoError(t, err)
	assert.Equal(t, origRoot, replayRoot)
}

func TestReplayNeverCallsProposer(t *testing.T) {
	outcome, err := Run(context.Background(), params(t, standardProposer(t)))
	require.NoError(t, err)

	// The records alone are enough; no proposer is in scope here.
	replayed, err := Replay(outcome.Result.Records, "run-0001")
	require.NoError(t, err)
	assert.Equal(t, outcome.SummaryHash(), replayed.SummaryHash())
}

func TestReplayDetectsTamperedChain(t *testing.T) {
	outcome, err := Run(context.Background(), params(t, standardProposer(t)))
	require.NoError(t, err)

	records := outcome.Result.Records
	records[1].Payload = canon.Object{"forged": canon.Bool(true)}

	_, err = Replay(records, "run-0001")
	require.Error(t, err)
	assert.True(t, ledger.IsChainError(err), "tampering surfaces as a chain error")
}

func TestReplayDetectsWrongRunID(t *testing.T) {
	outcome, err := Run(context.Background(), params(t, standardProposer(t)))
	require.NoError(t, err)

	// Node ids depend on run_id, so rebuilding under a different run
	// cannot reproduce the committed DAG state.
	_, err = Replay(outcome.Result.Records, "other-run")
	require.ErrorIs(t, err, ErrSummaryMismatch)
}

func TestReplayRefusedRun(t *testing.T) {
	outcome, err := Run(context.Background(), params(t, proposer.Null{}))
	require.NoError(t, err)
	require.True(t, outcome.Refused())

	replayed, err := Replay(outcome.Refusal.Records, "run-0001")
	require.NoError(t, err)
	require.True(t, replayed.Refused())

	assert.Equal(t, outcome.Refusal.Report, replayed.Refusal.Report,
		"a refusal replays to the identical report")
}

func TestReplayEmptyLedger(t *testing.T) {
	_, err := Replay(nil, "run-0001")
	require.ErrorIs(t, err, ErrReplayIncomplete)
}

func TestReplayMissingCommitRecord(t *testing.T) {
	outcome, err := Run(context.Background(), params(t, standardProposer(t)))
	require.NoError(t, err)

	// Keep only the seedpack; the chain is still intact for a prefix.
	_, err = Replay(outcome.Result.Records[:1], "run-0001")
	require.ErrorIs(t, err, ErrReplayIncomplete)
}
