package dag

import "github.com/motherlabs/kernel/internal/canon"

// NodeKind classifies a node.
type NodeKind string

const (
	NodeSeed           NodeKind = "seed"
	NodeInterpretation NodeKind = "interpretation"
	NodeAssumption     NodeKind = "assumption"
	NodeClaim          NodeKind = "claim"
	NodeDecision       NodeKind = "decision"
	NodeArtifact       NodeKind = "artifact"
)

// EdgeKind classifies an edge. Edges of kind depends_on and refines
// participate in the acyclicity invariant; contradicts edges do not,
// since conflict is not derivation.
type EdgeKind string

const (
	EdgeDependsOn   EdgeKind = "depends_on"
	EdgeRefines     EdgeKind = "refines"
	EdgeContradicts EdgeKind = "contradicts"
)

// derivational reports whether an edge kind participates in the
// acyclicity invariant.
func (k EdgeKind) derivational() bool {
	return k == EdgeDependsOn || k == EdgeRefines
}

// Node is an immutable DAG node. The ID is a pure function of content:
// there is no mutable position field, and two independent runs with
// identical inputs produce identical IDs.
type Node struct {
	ID          string
	Kind        NodeKind
	Payload     canon.Value
	PayloadHash string
}

// CanonicalValue implements canon.Encoder.
func (n Node) CanonicalValue() canon.Value {
	return canon.Object{
		"id":           canon.String(n.ID),
		"kind":         canon.String(string(n.Kind)),
		"payload":      n.Payload,
		"payload_hash": canon.String(n.PayloadHash),
	}
}

// Edge is an immutable typed edge between two nodes.
type Edge struct {
	ID     string
	Kind   EdgeKind
	FromID string
	ToID   string
}

// CanonicalValue implements canon.Encoder.
func (e Edge) CanonicalValue() canon.Value {
	return canon.Object{
		"id":      canon.String(e.ID),
		"kind":    canon.String(string(e.Kind)),
		"from_id": canon.String(e.FromID),
		"to_id":   canon.String(e.ToID),
	}
}
