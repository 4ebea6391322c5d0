package dag

import (
	"fmt"

	"github.com/motherlabs/kernel/internal/canon"
)

// Domain tags for content-addressed identity. Hashing a tagged object
// keeps node and edge ID spaces disjoint even for identical fields.
const (
	domainNode = "node"
	domainEdge = "edge"
)

// NodeID computes the deterministic node identifier. Same run_id +
// kind + payload_hash always produces the same ID, stable regardless
// of insertion order.
func NodeID(runID string, kind NodeKind, payloadHash string) (string, error) {
	id, err := canon.Hash(canon.Object{
		"t":            canon.String(domainNode),
		"run_id":       canon.String(runID),
		"kind":         canon.String(string(kind)),
		"payload_hash": canon.String(payloadHash),
	})
	if err != nil {
		return "", fmt.Errorf("node id: %w", err)
	}
	return id, nil
}

// EdgeID computes the deterministic edge identifier.
func EdgeID(runID string, kind EdgeKind, fromID, toID string) (string, error) {
	id, err := canon.Hash(canon.Object{
		"t":      canon.String(domainEdge),
		"run_id": canon.String(runID),
		"kind":   canon.String(string(kind)),
		"from":   canon.String(fromID),
		"to":     canon.String(toID),
	})
	if err != nil {
		return "", fmt.Errorf("edge id: %w", err)
	}
	return id, nil
}
