package engine

import (
	"github.com/motherlabs/kernel/internal/artifact"
	"github.com/motherlabs/kernel/internal/dag"
	"github.com/motherlabs/kernel/internal/ledger"
)

// RunResult is the converged outcome of a run.
type RunResult struct {
	Records      []ledger.EvidenceRecord
	Graph        *dag.Graph
	Blueprint    artifact.BlueprintSpec
	Verification artifact.VerificationPack
	SummaryHash  string
}

// Refusal is the refused outcome of a run: the report plus the ledger
// records that evidence it. The refusal itself is the final record.
type Refusal struct {
	Records []ledger.EvidenceRecord
	Report  artifact.RefusalReport
}

// Outcome is the tagged result of a run: exactly one of Result or
// Refusal is set. Refusal is an expected outcome, not an error, so it
// travels in the result type rather than the error return.
type Outcome struct {
	Result  *RunResult
	Refusal *Refusal
}

// Refused reports whether the run ended in refusal.
func (o Outcome) Refused() bool {
	return o.Refusal != nil
}

// Records returns the ledger records regardless of which arm is set.
func (o Outcome) Records() []ledger.EvidenceRecord {
	if o.Refusal != nil {
		return o.Refusal.Records
	}
	if o.Result != nil {
		return o.Result.Records
	}
	return nil
}

// SummaryHash returns the run summary hash, or the empty string for a
// refusal.
func (o Outcome) SummaryHash() string {
	if o.Result != nil {
		return o.Result.SummaryHash
	}
	return ""
}
