package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/motherlabs/kernel/internal/canon"
	"github.com/motherlabs/kernel/internal/ledger"
)

// ErrRunNotFound is returned when no run exists for the given id.
var ErrRunNotFound = errors.New("run not found")

// GetRun returns run metadata by id.
func (s *Store) GetRun(ctx context.Context, runID string) (RunRow, error) {
	var run RunRow
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, seed_hash, status, summary_hash, ts_base
		FROM runs WHERE run_id = ?
	`, runID).Scan(&run.RunID, &run.SeedHash, &run.Status, &run.SummaryHash, &run.TSBase)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRow{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return RunRow{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	return run, nil
}

// LoadRecords returns a run's evidence records in ledger order, with
// payloads rehydrated from their canonical JSON text. Callers are
// expected to revalidate the chain; the store does not vouch for
// integrity.
func (s *Store) LoadRecords(ctx context.Context, runID string) ([]ledger.EvidenceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v, ts, kind, parent, payload, payload_hash, record_hash
		FROM evidence_records
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("load records %s: %w", runID, err)
	}
	defer rows.Close()

	var records []ledger.EvidenceRecord
	for rows.Next() {
		var rec ledger.EvidenceRecord
		var payloadJSON string
		if err := rows.Scan(&rec.V, &rec.TS, &rec.Kind, &rec.Parent, &payloadJSON, &rec.PayloadHash, &rec.RecordHash); err != nil {
			return nil, fmt.Errorf("load records %s: scan: %w", runID, err)
		}
		rec.Payload, err = canon.Decode([]byte(payloadJSON))
		if err != nil {
			return nil, fmt.Errorf("load records %s: %w", runID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load records %s: iterate: %w", runID, err)
	}

	if records == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return records, nil
}

// ListRuns returns all stored runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]RunRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seed_hash, status, summary_hash, ts_base
		FROM runs
		ORDER BY created_at DESC, run_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRow
	for rows.Next() {
		var run RunRow
		if err := rows.Scan(&run.RunID, &run.SeedHash, &run.Status, &run.SummaryHash, &run.TSBase); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: iterate: %w", err)
	}

	if runs == nil {
		runs = []RunRow{}
	}
	return runs, nil
}
