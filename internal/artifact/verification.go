package artifact

import "github.com/motherlabs/kernel/internal/canon"

// ReplayInstructions is the fixed instruction string embedded in every
// verification pack.
const ReplayInstructions = "Replay by validating ledger chain and rebuilding DAG from records"

// VerificationPack binds the ledger head, the DAG root, and the
// artifact hashes into one verifiable summary.
type VerificationPack struct {
	LedgerLastHash      string
	DAGRootHash         string
	ArtifactHashes      map[string]string
	ExpectedSummaryHash string
	ReplayInstructions  string
}

// SummaryHash recomputes the run summary from the pack's components.
// The summary covers the ledger head, the DAG root, and the artifact
// hashes only; the expected hash and instructions are excluded so the
// summary does not depend on itself.
func SummaryHash(ledgerLastHash, dagRootHash string, artifactHashes map[string]string) (string, error) {
	return canon.Hash(canon.Object{
		"ledger_last_hash": canon.String(ledgerLastHash),
		"dag_root_hash":    canon.String(dagRootHash),
		"artifact_hashes":  hashesValue(artifactHashes),
	})
}

// NewVerificationPack computes the summary hash and assembles the
// pack.
func NewVerificationPack(ledgerLastHash, dagRootHash string, artifactHashes map[string]string) (VerificationPack, error) {
	summary, err := SummaryHash(ledgerLastHash, dagRootHash, artifactHashes)
	if err != nil {
		return VerificationPack{}, err
	}
	return VerificationPack{
		LedgerLastHash:      ledgerLastHash,
		DAGRootHash:         dagRootHash,
		ArtifactHashes:      artifactHashes,
		ExpectedSummaryHash: summary,
		ReplayInstructions:  ReplayInstructions,
	}, nil
}

// CanonicalValue implements canon.Encoder.
func (v VerificationPack) CanonicalValue() canon.Value {
	return canon.Object{
		"ledger_last_hash":      canon.String(v.LedgerLastHash),
		"dag_root_hash":         canon.String(v.DAGRootHash),
		"artifact_hashes":       hashesValue(v.ArtifactHashes),
		"expected_summary_hash": canon.String(v.ExpectedSummaryHash),
		"replay_instructions":   canon.String(v.ReplayInstructions),
	}
}

// Hash computes the verification pack artifact hash.
func (v VerificationPack) Hash() (string, error) {
	return canon.HashEncoder(v)
}

func hashesValue(hashes map[string]string) canon.Object {
	obj := make(canon.Object, len(hashes))
	for k, v := range hashes {
		obj[k] = canon.String(v)
	}
	return obj
}
