package store

import (
	"context"
	"fmt"

	"github.com/motherlabs/kernel/internal/canon"
	"github.com/motherlabs/kernel/internal/ledger"
)

// Run statuses.
const (
	StatusConverged = "converged"
	StatusRefused   = "refused"
)

// RunRow is the stored metadata for a run. SummaryHash is empty for
// refused runs.
type RunRow struct {
	RunID       string
	SeedHash    string
	Status      string
	SummaryHash string
	TSBase      string
}

// SaveRun writes a run and its full evidence ledger in one
// transaction. Payloads are serialized as canonical JSON so the stored
// text rehashes to the recorded payload_hash. Saving the same run_id
// twice is rejected by the primary key; runs are immutable once saved.
func (s *Store) SaveRun(ctx context.Context, run RunRow, records []ledger.EvidenceRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, seed_hash, status, summary_hash, ts_base)
		VALUES (?, ?, ?, ?, ?)
	`, run.RunID, run.SeedHash, run.Status, run.SummaryHash, run.TSBase)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO evidence_records
		(run_id, seq, v, ts, kind, parent, payload, payload_hash, record_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save run %s: prepare: %w", run.RunID, err)
	}
	defer stmt.Close()

	for seq, rec := range records {
		payloadJSON, err := canon.Marshal(rec.Payload)
		if err != nil {
			return fmt.Errorf("save run %s: record %d: %w", run.RunID, seq, err)
		}
		_, err = stmt.ExecContext(ctx,
			run.RunID, seq, rec.V, rec.TS, rec.Kind, rec.Parent,
			string(payloadJSON), rec.PayloadHash, rec.RecordHash,
		)
		if err != nil {
			return fmt.Errorf("save run %s: record %d: %w", run.RunID, seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run %s: commit: %w", run.RunID, err)
	}
	return nil
}
