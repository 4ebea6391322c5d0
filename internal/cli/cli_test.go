package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motherlabs/kernel/internal/canon"
	"github.com/motherlabs/kernel/internal/proposer"
	"github.com/motherlabs/kernel/internal/store"
)

const testSeed = "build a cache"

// writeRecordings creates a recordings file serving two candidates for
// the test seed at the default interpretation budget.
func writeRecordings(t *testing.T, dir string) string {
	t.Helper()

	seedHash, err := canon.Hash(canon.String(testSeed))
	require.NoError(t, err)

	recordings := map[string]any{
		proposer.RecordingKey(seedHash, 4): []map[string]any{
			{"name": "Narrow", "assumptions": []string{"bounded memory"}, "intent_summary": "simple cache"},
			{"name": "Broad", "assumptions": []string{"bounded memory", "lru"}, "intent_summary": "cache with eviction"},
		},
	}
	data, err := json.Marshal(recordings)
	require.NoError(t, err)

	path := filepath.Join(dir, "recordings.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunReplayVerifyListFlow(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "kernel.db")
	recordings := writeRecordings(t, dir)

	out, err := execute(t, "run",
		"--db", db,
		"--recordings", recordings,
		"--run-id", "run-1",
		"--ts-base", "tick",
		testSeed,
	)
	require.NoError(t, err, "run output: %s", out)
	assert.Contains(t, out, "converged")
	assert.Contains(t, out, "summary_hash")

	out, err = execute(t, "replay", "--db", db, "run-1")
	require.NoError(t, err, "replay output: %s", out)
	assert.Contains(t, out, "summary hash reproduced")

	out, err = execute(t, "verify", "--db", db, "run-1")
	require.NoError(t, err, "verify output: %s", out)
	assert.Contains(t, out, "chain valid")

	out, err = execute(t, "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "converged")
}

func TestRunRefusesWithNullProposer(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "kernel.db")

	out, err := execute(t, "run", "--db", db, "--run-id", "run-refused", testSeed)
	require.NoError(t, err, "a recorded refusal is a successful command")
	assert.Contains(t, out, "refused")
	assert.Contains(t, out, "empty_proposal")

	out, err = execute(t, "replay", "--db", db, "run-refused")
	require.NoError(t, err)
	assert.Contains(t, out, "refusal reproduced")
}

func TestRunJSONOutput(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "kernel.db")
	recordings := writeRecordings(t, dir)

	out, err := execute(t, "--format", "json", "run",
		"--db", db,
		"--recordings", recordings,
		"--run-id", "run-json",
		"--ts-base", "tick",
		testSeed,
	)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "json output: %s", out)
	assert.Equal(t, "ok", resp.Status)
}

func TestRunDeterministicAcrossDatabases(t *testing.T) {
	dir := t.TempDir()
	recordings := writeRecordings(t, dir)

	summaries := make([]string, 2)
	for i := range summaries {
		db := filepath.Join(dir, fmt.Sprintf("kernel-%d.db", i))
		out, err := execute(t, "--format", "json", "run",
			"--db", db,
			"--recordings", recordings,
			"--run-id", "run-same",
			"--ts-base", "tick",
			testSeed,
		)
		require.NoError(t, err)

		var resp struct {
			Data struct {
				SummaryHash string `json:"summary_hash"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		summaries[i] = resp.Data.SummaryHash
	}

	assert.Equal(t, summaries[0], summaries[1],
		"identical inputs must converge to the identical summary")
}

func TestInvalidFormatRejected(t *testing.T) {
	_, err := execute(t, "--format", "xml", "list", "--db", "ignored.db")
	require.Error(t, err)
}

func TestReplayUnknownRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "kernel.db")

	// Create an empty database first.
	_, err := execute(t, "list", "--db", db)
	require.NoError(t, err)

	_, err = execute(t, "replay", "--db", db, "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplayFromRecordsFile(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "kernel.db")
	recordings := writeRecordings(t, dir)

	out, err := execute(t, "run",
		"--db", db,
		"--recordings", recordings,
		"--run-id", "run-trace",
		"--ts-base", "tick",
		testSeed,
	)
	require.NoError(t, err, "run output: %s", out)

	st, err := store.Open(db)
	require.NoError(t, err)
	records, err := st.LoadRecords(context.Background(), "run-trace")
	require.NoError(t, err)
	require.NoError(t, st.Close())

	trace := make(canon.Array, len(records))
	for i, rec := range records {
		trace[i] = rec.CanonicalValue()
	}
	data, err := canon.Marshal(trace)
	require.NoError(t, err)

	tracePath := filepath.Join(dir, "trace.json")
	require.NoError(t, os.WriteFile(tracePath, data, 0o644))

	out, err = execute(t, "replay", "--records", tracePath, "run-trace")
	require.NoError(t, err, "replay output: %s", out)
	assert.Contains(t, out, "summary hash reproduced")
}
