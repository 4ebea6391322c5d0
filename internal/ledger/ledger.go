// Package ledger implements the append-only evidence ledger.
//
// The ledger is the single source of truth for replay. Each record's
// hash depends on the previous record's hash, forming a singly-linked
// tamper-evident chain. Records are created exactly once when a
// proposal, decision, or commit occurs and are immutable thereafter;
// no operation ever removes or reorders them.
package ledger

import (
	"fmt"

	"github.com/motherlabs/kernel/internal/canon"
)

// Ledger is an append-only, hash-chained record log for a single run.
// A run owns its ledger exclusively; there is no shared mutable state
// between runs, so the ledger needs no internal locking.
type Ledger struct {
	records []EvidenceRecord
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append computes hashes for a new record, chains it to the previous
// record, and appends it. The payload must already be a canonical
// value; encoding failures surface immediately and nothing is written.
func (l *Ledger) Append(ts, kind string, payload canon.Value) (EvidenceRecord, error) {
	payloadHash, err := canon.Hash(payload)
	if err != nil {
		return EvidenceRecord{}, fmt.Errorf("ledger append: payload: %w", err)
	}

	parent := ""
	if len(l.records) > 0 {
		parent = l.records[len(l.records)-1].RecordHash
	}

	recordHash, err := canon.Hash(metadataValue(RecordVersion, ts, kind, parent, payloadHash))
	if err != nil {
		return EvidenceRecord{}, fmt.Errorf("ledger append: metadata: %w", err)
	}

	record := EvidenceRecord{
		V:           RecordVersion,
		TS:          ts,
		Kind:        kind,
		Parent:      parent,
		Payload:     payload,
		PayloadHash: payloadHash,
		RecordHash:  recordHash,
	}
	l.records = append(l.records, record)

	return record, nil
}

// Records returns a copy of all records in append order.
func (l *Ledger) Records() []EvidenceRecord {
	out := make([]EvidenceRecord, len(l.records))
	copy(out, l.records)
	return out
}

// LastHash returns the RecordHash of the most recent record, or the
// empty string for an empty ledger.
func (l *Ledger) LastHash() string {
	if len(l.records) == 0 {
		return ""
	}
	return l.records[len(l.records)-1].RecordHash
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}
