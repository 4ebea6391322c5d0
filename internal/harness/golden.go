package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/motherlabs/kernel/internal/canon"
	"github.com/motherlabs/kernel/internal/engine"
	"github.com/motherlabs/kernel/internal/ledger"
)

// TraceBytes serializes a run's full evidence ledger as one canonical
// JSON array. The bytes are deterministic, which makes them suitable
// as a golden fixture.
func TraceBytes(t *testing.T, records []ledger.EvidenceRecord) []byte {
	t.Helper()

	trace := make(canon.Array, len(records))
	for i, rec := range records {
		trace[i] = rec.CanonicalValue()
	}

	data, err := canon.Marshal(trace)
	if err != nil {
		t.Fatalf("marshal trace: %v", err)
	}
	return data
}

// RunWithGolden executes a scenario and compares the ledger trace
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s Scenario) engine.Outcome {
	t.Helper()

	outcome := Run(t, s)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, TraceBytes(t, outcome.Records()))

	return outcome
}
