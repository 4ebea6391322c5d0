package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/motherlabs/kernel/internal/canon"
	"github.com/motherlabs/kernel/internal/ledger"
	"github.com/motherlabs/kernel/internal/policy"
	"github.com/motherlabs/kernel/internal/proposer"
	"github.com/motherlabs/kernel/internal/resolve"
)

// loadPolicy reads a YAML policy file, or returns the default policy
// when no path is given.
func loadPolicy(path string) (policy.Policy, error) {
	if path == "" {
		return policy.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return policy.Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	return policy.FromYAML(data)
}

// loadPin parses the pinned target, a JSON object supplied inline.
// An empty string means an empty pin.
func loadPin(raw string) (canon.Object, error) {
	if raw == "" {
		return canon.Object{}, nil
	}
	val, err := canon.Decode([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parse pin: %w", err)
	}
	obj, ok := val.(canon.Object)
	if !ok {
		return nil, fmt.Errorf("parse pin: must be a JSON object")
	}
	return obj, nil
}

// recordingFile is the on-disk format for recorded proposals: a JSON
// object mapping "interpretations:<seed_hash>:<n>" keys to candidate
// lists.
type recordingFile map[string][]struct {
	Name          string   `json:"name"`
	Assumptions   []string `json:"assumptions"`
	IntentSummary string   `json:"intent_summary"`
}

// loadRecordings reads a recordings file into a Recorded proposer.
func loadRecordings(path string) (*proposer.Recorded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recordings file: %w", err)
	}

	var file recordingFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse recordings file: %w", err)
	}

	recordings := make(map[string]resolve.Interpretations, len(file))
	for key, entries := range file {
		candidates := make(resolve.Interpretations, 0, len(entries))
		for _, entry := range entries {
			interp, err := resolve.NewInterpretation(entry.Name, entry.Assumptions, entry.IntentSummary)
			if err != nil {
				return nil, fmt.Errorf("recordings key %s: %w", key, err)
			}
			candidates = append(candidates, interp)
		}
		recordings[key] = candidates
	}

	return proposer.NewRecorded(recordings), nil
}

// loadRecordsFile reads a JSON evidence trace: an array of record
// objects as serialized by the ledger's canonical projection. Parent
// null maps back to the empty genesis string.
func loadRecordsFile(path string) ([]ledger.EvidenceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}

	val, err := canon.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse records file: %w", err)
	}
	arr, ok := val.(canon.Array)
	if !ok {
		return nil, fmt.Errorf("parse records file: expected a JSON array of records")
	}

	records := make([]ledger.EvidenceRecord, 0, len(arr))
	for i, elem := range arr {
		obj, ok := elem.(canon.Object)
		if !ok {
			return nil, fmt.Errorf("records file: entry %d is not an object", i)
		}

		var rec ledger.EvidenceRecord
		v, ok := obj["v"].(canon.Int)
		if !ok {
			return nil, fmt.Errorf("records file: entry %d: missing version", i)
		}
		rec.V = int(v)

		for field, dst := range map[string]*string{
			"ts":           &rec.TS,
			"kind":         &rec.Kind,
			"payload_hash": &rec.PayloadHash,
			"record_hash":  &rec.RecordHash,
		} {
			s, ok := obj[field].(canon.String)
			if !ok {
				return nil, fmt.Errorf("records file: entry %d: missing %s", i, field)
			}
			*dst = string(s)
		}

		switch parent := obj["parent"].(type) {
		case canon.Null:
			rec.Parent = ""
		case canon.String:
			rec.Parent = string(parent)
		default:
			return nil, fmt.Errorf("records file: entry %d: malformed parent", i)
		}

		payload, ok := obj["payload"]
		if !ok {
			return nil, fmt.Errorf("records file: entry %d: missing payload", i)
		}
		rec.Payload = payload

		records = append(records, rec)
	}
	return records, nil
}
