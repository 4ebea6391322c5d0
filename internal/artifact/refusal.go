package artifact

import "github.com/motherlabs/kernel/internal/canon"

// StatusRefused is the fixed status carried by every refusal report.
const StatusRefused = "refused"

// RefusalReport is emitted when the kernel cannot converge within
// policy limits. Refusing with evidence is a first-class outcome, not
// a failure.
type RefusalReport struct {
	RunID                string
	SeedHash             string
	ReasonCodes          []string
	EvidenceRecordHashes []string
	PolicySuggestions    []string
	Status               string
}

// NewRefusalReport assembles a refusal report with the fixed status.
func NewRefusalReport(runID, seedHash string, reasonCodes, evidenceRecordHashes, policySuggestions []string) RefusalReport {
	return RefusalReport{
		RunID:                runID,
		SeedHash:             seedHash,
		ReasonCodes:          reasonCodes,
		EvidenceRecordHashes: evidenceRecordHashes,
		PolicySuggestions:    policySuggestions,
		Status:               StatusRefused,
	}
}

// CanonicalValue implements canon.Encoder.
func (r RefusalReport) CanonicalValue() canon.Value {
	return canon.Object{
		"run_id":                 canon.String(r.RunID),
		"seed_hash":              canon.String(r.SeedHash),
		"reason_codes":           canon.StringsToArray(r.ReasonCodes),
		"evidence_record_hashes": canon.StringsToArray(r.EvidenceRecordHashes),
		"policy_suggestions":     canon.StringsToArray(r.PolicySuggestions),
		"status":                 canon.String(r.Status),
	}
}

// Hash computes the refusal report artifact hash.
func (r RefusalReport) Hash() (string, error) {
	return canon.HashEncoder(r)
}
