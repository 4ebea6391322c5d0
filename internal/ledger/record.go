package ledger

import (
	"github.com/motherlabs/kernel/internal/canon"
)

// RecordVersion is the evidence record schema version.
const RecordVersion = 1

// Record kinds written by the engine.
const (
	KindSeedpack = "seedpack"
	KindProposal = "proposal"
	KindCommit   = "commit"
	KindArtifact = "artifact"
)

// EvidenceRecord is an immutable, hash-chained ledger entry.
//
// TS is a deterministic ordering token, never wall-clock time.
// Parent is the previous record's RecordHash; empty for the first
// record (genesis). RecordHash covers the record metadata only, not
// the full payload: PayloadHash stands in for the payload, so payload
// tampering and chain tampering are distinguishable failures.
type EvidenceRecord struct {
	V           int
	TS          string
	Kind        string
	Parent      string
	Payload     canon.Value
	PayloadHash string
	RecordHash  string
}

// metadataValue is the canonical projection that RecordHash covers.
// An absent parent is an explicit null, never an omitted key.
func metadataValue(v int, ts, kind, parent, payloadHash string) canon.Object {
	var parentVal canon.Value = canon.Null{}
	if parent != "" {
		parentVal = canon.String(parent)
	}
	return canon.Object{
		"v":            canon.Int(v),
		"ts":           canon.String(ts),
		"kind":         canon.String(kind),
		"parent":       parentVal,
		"payload_hash": canon.String(payloadHash),
	}
}

// CanonicalValue implements canon.Encoder. The projection includes the
// full payload and both hashes, matching external serialization.
func (r EvidenceRecord) CanonicalValue() canon.Value {
	var parentVal canon.Value = canon.Null{}
	if r.Parent != "" {
		parentVal = canon.String(r.Parent)
	}
	return canon.Object{
		"v":            canon.Int(int64(r.V)),
		"ts":           canon.String(r.TS),
		"kind":         canon.String(r.Kind),
		"parent":       parentVal,
		"payload":      r.Payload,
		"payload_hash": canon.String(r.PayloadHash),
		"record_hash":  canon.String(r.RecordHash),
	}
}
