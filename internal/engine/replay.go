package engine

import (
	"errors"
	"fmt"

	"github.com/motherlabs/kernel/internal/artifact"
	"github.com/motherlabs/kernel/internal/canon"
	"github.com/motherlabs/kernel/internal/dag"
	"github.com/motherlabs/kernel/internal/ledger"
	"github.com/motherlabs/kernel/internal/resolve"
)

// Replay failure modes. Chain-integrity failures surface as the
// ledger's own ChainError with the offending record position.
var (
	// ErrReplayIncomplete means the ledger lacks the records needed to
	// reconstruct the run.
	ErrReplayIncomplete = errors.New("ledger records incomplete for replay")

	// ErrSummaryMismatch means reconstruction succeeded but the
	// recomputed summary hash differs from the recorded one.
	ErrSummaryMismatch = errors.New("replayed summary hash does not match recorded summary hash")
)

// Replay reconstructs a run from its ledger records alone. The chain
// is validated, the DAG and artifacts are rebuilt from the recorded
// seedpack and commit payloads, and the summary hash is recomputed; it
// must equal the recorded one bit-for-bit. No proposer is ever
// consulted.
func Replay(records []ledger.EvidenceRecord, runID string) (Outcome, error) {
	if err := ledger.ValidateChain(records); err != nil {
		return Outcome{}, fmt.Errorf("replay: %w", err)
	}
	if len(records) == 0 {
		return Outcome{}, ErrReplayIncomplete
	}

	// A refused run replays to the recorded refusal.
	for _, rec := range records {
		if rec.Kind != ledger.KindArtifact {
			continue
		}
		payload, ok := rec.Payload.(canon.Object)
		if !ok {
			continue
		}
		if refusalVal, ok := payload["refusal"]; ok {
			report, err := refusalFromValue(refusalVal)
			if err != nil {
				return Outcome{}, fmt.Errorf("replay: %w", err)
			}
			return Outcome{Refusal: &Refusal{Records: records, Report: report}}, nil
		}
	}

	seedText, seedHash, pin, err := seedpackFields(records)
	if err != nil {
		return Outcome{}, err
	}

	interp, err := committedInterpretation(records)
	if err != nil {
		return Outcome{}, err
	}

	graph := dag.New(runID)
	interpNode, err := buildGraph(graph, seedText, seedHash, interp)
	if err != nil {
		return Outcome{}, fmt.Errorf("replay: rebuild dag: %w", err)
	}

	// The rebuilt graph must hash to the same committed state the run
	// recorded.
	if err := checkDAGCommit(records, graph); err != nil {
		return Outcome{}, err
	}

	dagRootHash, err := graph.RootHash()
	if err != nil {
		return Outcome{}, err
	}

	blueprint := artifact.BlueprintSpec{
		RunID:            runID,
		SeedHash:         seedHash,
		IntentRootNodeID: interpNode.ID,
		PinnedTarget:     pin,
		Invariants:       artifact.BlueprintInvariants,
		ModuleContracts:  []canon.Object{},
	}
	blueprintHash, err := blueprint.Hash()
	if err != nil {
		return Outcome{}, err
	}

	artifactRecord, err := finalArtifactRecord(records)
	if err != nil {
		return Outcome{}, err
	}

	// The summary covers the ledger head as it stood before the
	// artifact record was appended, which is that record's parent.
	artifactHashes := map[string]string{"blueprint": blueprintHash}
	verification, err := artifact.NewVerificationPack(artifactRecord.Parent, dagRootHash, artifactHashes)
	if err != nil {
		return Outcome{}, err
	}

	expected, err := recordedSummaryHash(artifactRecord)
	if err != nil {
		return Outcome{}, err
	}
	if verification.ExpectedSummaryHash != expected {
		return Outcome{}, fmt.Errorf("%w: recomputed %s, recorded %s",
			ErrSummaryMismatch, verification.ExpectedSummaryHash, expected)
	}

	return Outcome{Result: &RunResult{
		Records:      records,
		Graph:        graph,
		Blueprint:    blueprint,
		Verification: verification,
		SummaryHash:  verification.ExpectedSummaryHash,
	}}, nil
}

// seedpackFields extracts the run inputs from the seedpack record.
func seedpackFields(records []ledger.EvidenceRecord) (seedText, seedHash string, pin canon.Object, err error) {
	for _, rec := range records {
		if rec.Kind != ledger.KindSeedpack {
			continue
		}
		payload, ok := rec.Payload.(canon.Object)
		if !ok {
			return "", "", nil, fmt.Errorf("%w: malformed seedpack payload", ErrReplayIncomplete)
		}
		seedText, err = stringField(payload, "seed_text")
		if err != nil {
			return "", "", nil, err
		}
		seedHash, err = stringField(payload, "seed_hash")
		if err != nil {
			return "", "", nil, err
		}
		pinVal, ok := payload["pin"].(canon.Object)
		if !ok {
			return "", "", nil, fmt.Errorf("%w: seedpack pin is not an object", ErrReplayIncomplete)
		}
		return seedText, seedHash, pinVal, nil
	}
	return "", "", nil, fmt.Errorf("%w: no seedpack record", ErrReplayIncomplete)
}

// committedInterpretation extracts the winning interpretation from the
// interpretation commit record.
func committedInterpretation(records []ledger.EvidenceRecord) (resolve.Interpretation, error) {
	for _, rec := range records {
		if rec.Kind != ledger.KindCommit {
			continue
		}
		payload, ok := rec.Payload.(canon.Object)
		if !ok {
			continue
		}
		interpVal, ok := payload["interpretation"].(canon.Object)
		if !ok {
			continue
		}

		name, err := stringField(interpVal, "name")
		if err != nil {
			return resolve.Interpretation{}, err
		}
		summary, err := stringField(interpVal, "intent_summary")
		if err != nil {
			return resolve.Interpretation{}, err
		}
		assumptions, err := stringArrayField(interpVal, "assumptions")
		if err != nil {
			return resolve.Interpretation{}, err
		}
		return resolve.NewInterpretation(name, assumptions, summary)
	}
	return resolve.Interpretation{}, fmt.Errorf("%w: no interpretation commit record", ErrReplayIncomplete)
}

// checkDAGCommit compares the rebuilt graph against the recorded
// committed state by payload hash.
func checkDAGCommit(records []ledger.EvidenceRecord, graph *dag.Graph) error {
	for _, rec := range records {
		if rec.Kind != ledger.KindCommit {
			continue
		}
		payload, ok := rec.Payload.(canon.Object)
		if !ok {
			continue
		}
		if _, ok := payload["nodes"]; !ok {
			continue
		}

		rebuiltHash, err := canon.Hash(dagCommitPayload(graph))
		if err != nil {
			return err
		}
		if rebuiltHash != rec.PayloadHash {
			return fmt.Errorf("%w: rebuilt dag differs from committed state", ErrSummaryMismatch)
		}
		return nil
	}
	return fmt.Errorf("%w: no dag commit record", ErrReplayIncomplete)
}

// finalArtifactRecord locates the artifact record carrying blueprint
// and verification payloads.
func finalArtifactRecord(records []ledger.EvidenceRecord) (ledger.EvidenceRecord, error) {
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if rec.Kind != ledger.KindArtifact {
			continue
		}
		if payload, ok := rec.Payload.(canon.Object); ok {
			if _, ok := payload["verification"]; ok {
				return rec, nil
			}
		}
	}
	return ledger.EvidenceRecord{}, fmt.Errorf("%w: no artifact record", ErrReplayIncomplete)
}

// recordedSummaryHash pulls expected_summary_hash out of the recorded
// verification pack.
func recordedSummaryHash(rec ledger.EvidenceRecord) (string, error) {
	payload, ok := rec.Payload.(canon.Object)
	if !ok {
		return "", fmt.Errorf("%w: malformed artifact payload", ErrReplayIncomplete)
	}
	verification, ok := payload["verification"].(canon.Object)
	if !ok {
		return "", fmt.Errorf("%w: malformed verification payload", ErrReplayIncomplete)
	}
	return stringField(verification, "expected_summary_hash")
}

// refusalFromValue rebuilds a refusal report from its recorded
// canonical projection.
func refusalFromValue(val canon.Value) (artifact.RefusalReport, error) {
	obj, ok := val.(canon.Object)
	if !ok {
		return artifact.RefusalReport{}, fmt.Errorf("%w: malformed refusal payload", ErrReplayIncomplete)
	}

	runID, err := stringField(obj, "run_id")
	if err != nil {
		return artifact.RefusalReport{}, err
	}
	seedHash, err := stringField(obj, "seed_hash")
	if err != nil {
		return artifact.RefusalReport{}, err
	}
	reasons, err := stringArrayField(obj, "reason_codes")
	if err != nil {
		return artifact.RefusalReport{}, err
	}
	evidence, err := stringArrayField(obj, "evidence_record_hashes")
	if err != nil {
		return artifact.RefusalReport{}, err
	}
	suggestions, err := stringArrayField(obj, "policy_suggestions")
	if err != nil {
		return artifact.RefusalReport{}, err
	}

	return artifact.NewRefusalReport(runID, seedHash, reasons, evidence, suggestions), nil
}

func stringField(obj canon.Object, key string) (string, error) {
	s, ok := obj[key].(canon.String)
	if !ok {
		return "", fmt.Errorf("%w: field %q missing or not a string", ErrReplayIncomplete, key)
	}
	return string(s), nil
}

func stringArrayField(obj canon.Object, key string) ([]string, error) {
	arr, ok := obj[key].(canon.Array)
	if !ok {
		return nil, fmt.Errorf("%w: field %q missing or not an array", ErrReplayIncomplete, key)
	}
	out := make([]string, len(arr))
	for i, v := range arr {
		s, ok := v.(canon.String)
		if !ok {
			return nil, fmt.Errorf("%w: field %q element %d not a string", ErrReplayIncomplete, key, i)
		}
		out[i] = string(s)
	}
	return out, nil
}
