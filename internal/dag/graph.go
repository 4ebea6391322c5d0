// Package dag implements the authoritative decision graph.
//
// Nodes and edges are addressed by content hash, stored in an arena
// (id -> record) with auxiliary indices kept in insertion order, which
// is itself deterministic because all mutation within a run is
// sequential. Entities only ever move from absent to present: nothing
// is deleted or mutated in place. A "changed" node is a new node with
// a new edge relating it to the old one.
package dag

import (
	"fmt"
	"sort"

	"github.com/motherlabs/kernel/internal/canon"
)

// Graph is the node/edge store for a single run.
type Graph struct {
	runID string

	nodes     map[string]Node
	edges     map[string]Edge
	nodeOrder []string
	edgeOrder []string

	// outgoing indexes derivational (depends_on/refines) edges only;
	// it backs the pre-admission cycle check.
	outgoing map[string][]string
}

// New creates an empty graph bound to a run identifier, which
// participates in every node and edge ID.
func New(runID string) *Graph {
	return &Graph{
		runID:    runID,
		nodes:    make(map[string]Node),
		edges:    make(map[string]Edge),
		outgoing: make(map[string][]string),
	}
}

// RunID returns the run identifier the graph is bound to.
func (g *Graph) RunID() string {
	return g.runID
}

// AddNode computes the deterministic node ID and inserts the node.
// Adding identical content twice is an idempotent no-op returning the
// existing node: identical content must not create duplicate
// authoritative facts. The same ID with differing content is an
// invariant violation.
func (g *Graph) AddNode(kind NodeKind, payload canon.Value) (Node, error) {
	payloadHash, err := canon.Hash(payload)
	if err != nil {
		return Node{}, fmt.Errorf("add node: %w", err)
	}

	id, err := NodeID(g.runID, kind, payloadHash)
	if err != nil {
		return Node{}, err
	}

	if existing, ok := g.nodes[id]; ok {
		if existing.Kind != kind || existing.PayloadHash != payloadHash {
			return Node{}, &InvariantError{
				Code:    ErrCodeDuplicateContent,
				Message: "node id collision with differing content",
				NodeID:  id,
			}
		}
		return existing, nil
	}

	node := Node{ID: id, Kind: kind, Payload: payload, PayloadHash: payloadHash}
	g.nodes[id] = node
	g.nodeOrder = append(g.nodeOrder, id)

	return node, nil
}

// AddEdge validates and inserts an edge. Unknown endpoints and
// self-loops are rejected for every kind. For depends_on and refines
// edges the cycle check runs BEFORE the edge is admitted, so a
// temporarily-invalid graph state is never observable or hashed.
// Re-adding an identical edge returns the existing one.
func (g *Graph) AddEdge(kind EdgeKind, fromID, toID string) (Edge, error) {
	if _, ok := g.nodes[fromID]; !ok {
		return Edge{}, &InvariantError{
			Code:    ErrCodeUnknownEndpoint,
			Message: fmt.Sprintf("source node %s does not exist", fromID),
		}
	}
	if _, ok := g.nodes[toID]; !ok {
		return Edge{}, &InvariantError{
			Code:    ErrCodeUnknownEndpoint,
			Message: fmt.Sprintf("target node %s does not exist", toID),
		}
	}
	if fromID == toID {
		return Edge{}, &InvariantError{
			Code:    ErrCodeSelfLoop,
			Message: fmt.Sprintf("self-referencing %s edge rejected", kind),
		}
	}

	id, err := EdgeID(g.runID, kind, fromID, toID)
	if err != nil {
		return Edge{}, err
	}

	if existing, ok := g.edges[id]; ok {
		return existing, nil
	}

	if kind.derivational() && g.reachable(toID, fromID) {
		return Edge{}, &InvariantError{
			Code:    ErrCodeCycle,
			Message: fmt.Sprintf("%s edge %s -> %s would close a cycle", kind, fromID, toID),
			EdgeID:  id,
		}
	}

	edge := Edge{ID: id, Kind: kind, FromID: fromID, ToID: toID}
	g.edges[id] = edge
	g.edgeOrder = append(g.edgeOrder, id)
	if kind.derivational() {
		g.outgoing[fromID] = append(g.outgoing[fromID], toID)
	}

	return edge, nil
}

// reachable reports whether target can be reached from start by
// following derivational edges.
func (g *Graph) reachable(start, target string) bool {
	if start == target {
		return true
	}
	visited := map[string]bool{start: true}
	stack := []string{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.outgoing[cur] {
			if next == target {
				return true
			}
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// Node returns a node by ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns an edge by ID.
func (g *Graph) Edge(id string) (Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		out = append(out, g.edges[id])
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// Depth returns the length in edges of the longest derivational path.
// The graph is acyclic over derivational edges by construction, so a
// longest path exists.
func (g *Graph) Depth() int {
	memo := make(map[string]int, len(g.nodes))
	var longest func(id string) int
	longest = func(id string) int {
		if d, ok := memo[id]; ok {
			return d
		}
		best := 0
		for _, next := range g.outgoing[id] {
			if d := longest(next) + 1; d > best {
				best = d
			}
		}
		memo[id] = best
		return best
	}

	depth := 0
	for _, id := range g.nodeOrder {
		if d := longest(id); d > depth {
			depth = d
		}
	}
	return depth
}

// RootHash hashes the sorted node and edge ID sets. Because IDs are
// pure functions of content, the root hash commits to the entire
// graph state independent of insertion order.
func (g *Graph) RootHash() (string, error) {
	nodeIDs := make([]string, len(g.nodeOrder))
	copy(nodeIDs, g.nodeOrder)
	edgeIDs := make([]string, len(g.edgeOrder))
	copy(edgeIDs, g.edgeOrder)
	sort.Strings(nodeIDs)
	sort.Strings(edgeIDs)

	return canon.Hash(canon.Object{
		"node_ids": canon.StringsToArray(nodeIDs),
		"edge_ids": canon.StringsToArray(edgeIDs),
	})
}
