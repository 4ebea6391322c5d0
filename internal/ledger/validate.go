package ledger

import (
	"errors"
	"fmt"

	"github.com/motherlabs/kernel/internal/canon"
)

// Chain failure checks, in the order they are applied per record.
const (
	ChainFailPayloadHash = "payload_hash_mismatch"
	ChainFailParentLink  = "parent_link_mismatch"
	ChainFailRecordHash  = "record_hash_mismatch"
	ChainFailEncoding    = "payload_not_encodable"
)

// ChainError reports the first record at which chain validation failed.
// A ChainError is fatal to replay: the ledger is untrustworthy and
// nothing retries.
type ChainError struct {
	// Index is the zero-based position of the offending record.
	Index int

	// Check names which validation failed.
	Check string

	// Expected and Got carry the mismatched values where applicable.
	Expected string
	Got      string
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	if e.Expected != "" || e.Got != "" {
		return fmt.Sprintf("ledger chain broken at record %d: %s (expected %s, got %s)", e.Index, e.Check, e.Expected, e.Got)
	}
	return fmt.Sprintf("ledger chain broken at record %d: %s", e.Index, e.Check)
}

// IsChainError returns true if the error is a ChainError.
func IsChainError(err error) bool {
	var ce *ChainError
	return errors.As(err, &ce)
}

// ValidateChain recomputes every payload hash, parent link, and record
// hash from the stored fields and fails on the first mismatch. An empty
// chain is valid.
func ValidateChain(records []EvidenceRecord) error {
	for i, record := range records {
		computedPayloadHash, err := canon.Hash(record.Payload)
		if err != nil {
			return &ChainError{Index: i, Check: ChainFailEncoding}
		}
		if computedPayloadHash != record.PayloadHash {
			return &ChainError{
				Index:    i,
				Check:    ChainFailPayloadHash,
				Expected: record.PayloadHash,
				Got:      computedPayloadHash,
			}
		}

		expectedParent := ""
		if i > 0 {
			expectedParent = records[i-1].RecordHash
		}
		if record.Parent != expectedParent {
			return &ChainError{
				Index:    i,
				Check:    ChainFailParentLink,
				Expected: expectedParent,
				Got:      record.Parent,
			}
		}

		computedRecordHash, err := canon.Hash(metadataValue(record.V, record.TS, record.Kind, record.Parent, record.PayloadHash))
		if err != nil {
			return &ChainError{Index: i, Check: ChainFailEncoding}
		}
		if computedRecordHash != record.RecordHash {
			return &ChainError{
				Index:    i,
				Check:    ChainFailRecordHash,
				Expected: record.RecordHash,
				Got:      computedRecordHash,
			}
		}
	}
	return nil
}
