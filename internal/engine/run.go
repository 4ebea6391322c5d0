package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/motherlabs/kernel/internal/artifact"
	"github.com/motherlabs/kernel/internal/canon"
	"github.com/motherlabs/kernel/internal/dag"
	"github.com/motherlabs/kernel/internal/ledger"
	"github.com/motherlabs/kernel/internal/policy"
	"github.com/motherlabs/kernel/internal/proposer"
	"github.com/motherlabs/kernel/internal/resolve"
)

// Params carries the inputs of a single run. Every field participates
// in determinism except Proposer, whose raw output is ledger-recorded
// before use so that replay never needs it again.
type Params struct {
	RunID    string
	SeedText string
	Pin      canon.Object
	Policy   policy.Policy
	Proposer proposer.Proposer
	TSBase   string
}

// Run executes a full engine run: seedpack, proposal, refusal checks,
// resolution, DAG commit, artifacts. The proposer is invoked exactly
// once; the recorded proposal is what the resolver sees and what
// replay reuses.
//
// Refusal is returned inside the Outcome, never as an error. Errors
// are reserved for caller mistakes (invalid policy) and encoding or
// invariant failures, which indicate a broken input rather than a
// deliberate non-convergence.
func Run(ctx context.Context, p Params) (Outcome, error) {
	if errs := p.Policy.Validate(); len(errs) > 0 {
		return Outcome{}, fmt.Errorf("invalid policy: %w", errs[0])
	}

	led := ledger.New()
	graph := dag.New(p.RunID)
	clock := NewTokenClock(p.TSBase)

	seedHash, err := canon.Hash(canon.String(p.SeedText))
	if err != nil {
		return Outcome{}, fmt.Errorf("seed hash: %w", err)
	}

	// Seedpack: the run's full deterministic input surface.
	_, err = led.Append(clock.Next(), ledger.KindSeedpack, canon.Object{
		"seed_text":      canon.String(p.SeedText),
		"seed_hash":      canon.String(seedHash),
		"pin":            p.Pin,
		"policy_summary": p.Policy.Summary(),
	})
	if err != nil {
		return Outcome{}, err
	}

	// Single proposer invocation. The raw proposal is recorded
	// verbatim before anything consumes it.
	proposal, err := p.Proposer.ProposeInterpretations(ctx, seedHash, p.Policy.MaxInterpretations)
	if err != nil {
		return Outcome{}, fmt.Errorf("propose: %w", err)
	}
	if _, err := led.Append(clock.Next(), ledger.KindProposal, proposal.CanonicalValue()); err != nil {
		return Outcome{}, err
	}

	reasons := checkRefusalConditions(proposal, p.Policy, clock.Step(), graph.NodeCount(), graph.Depth())
	if len(reasons) > 0 {
		return refuse(led, clock, p.RunID, seedHash, reasons)
	}

	commit, err := resolve.Resolve(proposal, p.Policy)
	if err != nil {
		if errors.Is(err, resolve.ErrNoCandidates) {
			return refuse(led, clock, p.RunID, seedHash, []string{ReasonResolveFailed})
		}
		return Outcome{}, fmt.Errorf("resolve: %w", err)
	}

	interp := commit.Value
	_, err = led.Append(clock.Next(), ledger.KindCommit, canon.Object{
		"interpretation": interp.CanonicalValue(),
		"commit_hash":    canon.String(commit.CommitHash),
	})
	if err != nil {
		return Outcome{}, err
	}

	interpNode, err := buildGraph(graph, p.SeedText, seedHash, interp)
	if err != nil {
		return Outcome{}, err
	}

	if _, err := led.Append(clock.Next(), ledger.KindCommit, dagCommitPayload(graph)); err != nil {
		return Outcome{}, err
	}

	dagRootHash, err := graph.RootHash()
	if err != nil {
		return Outcome{}, err
	}

	blueprint := artifact.BlueprintSpec{
		RunID:            p.RunID,
		SeedHash:         seedHash,
		IntentRootNodeID: interpNode.ID,
		PinnedTarget:     p.Pin,
		Invariants:       artifact.BlueprintInvariants,
		ModuleContracts:  []canon.Object{},
	}
	blueprintHash, err := blueprint.Hash()
	if err != nil {
		return Outcome{}, err
	}

	// The summary covers the ledger head before the artifact record:
	// the artifact record carries the verification pack, which embeds
	// the summary, so it cannot also be covered by it.
	artifactHashes := map[string]string{"blueprint": blueprintHash}
	verification, err := artifact.NewVerificationPack(led.LastHash(), dagRootHash, artifactHashes)
	if err != nil {
		return Outcome{}, err
	}

	_, err = led.Append(clock.Next(), ledger.KindArtifact, canon.Object{
		"blueprint":    blueprint.CanonicalValue(),
		"verification": verification.CanonicalValue(),
	})
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Result: &RunResult{
		Records:      led.Records(),
		Graph:        graph,
		Blueprint:    blueprint,
		Verification: verification,
		SummaryHash:  verification.ExpectedSummaryHash,
	}}, nil
}

// buildGraph commits the decision structure for an accepted
// interpretation: seed refined by the interpretation, which depends on
// each of its assumptions. Returns the interpretation node, the intent
// root of the blueprint.
func buildGraph(graph *dag.Graph, seedText, seedHash string, interp resolve.Interpretation) (dag.Node, error) {
	seedNode, err := graph.AddNode(dag.NodeSeed, canon.Object{
		"seed_text": canon.String(seedText),
		"seed_hash": canon.String(seedHash),
	})
	if err != nil {
		return dag.Node{}, err
	}

	interpNode, err := graph.AddNode(dag.NodeInterpretation, canon.Object{
		"name":           canon.String(interp.Name),
		"intent_summary": canon.String(interp.IntentSummary),
	})
	if err != nil {
		return dag.Node{}, err
	}
	if _, err := graph.AddEdge(dag.EdgeRefines, seedNode.ID, interpNode.ID); err != nil {
		return dag.Node{}, err
	}

	for _, assumption := range interp.Assumptions {
		assumptionNode, err := graph.AddNode(dag.NodeAssumption, canon.Object{
			"assumption": canon.String(assumption),
		})
		if err != nil {
			return dag.Node{}, err
		}
		if _, err := graph.AddEdge(dag.EdgeDependsOn, interpNode.ID, assumptionNode.ID); err != nil {
			return dag.Node{}, err
		}
	}

	return interpNode, nil
}

// dagCommitPayload is the committed graph state recorded in the
// ledger: ids and kinds only, in insertion order. Node payloads are
// already recoverable from the seedpack and interpretation commit.
func dagCommitPayload(graph *dag.Graph) canon.Object {
	nodes := graph.Nodes()
	nodeVals := make(canon.Array, len(nodes))
	for i, n := range nodes {
		nodeVals[i] = canon.Object{
			"id":   canon.String(n.ID),
			"kind": canon.String(string(n.Kind)),
		}
	}

	edges := graph.Edges()
	edgeVals := make(canon.Array, len(edges))
	for i, e := range edges {
		edgeVals[i] = canon.Object{
			"id":   canon.String(e.ID),
			"kind": canon.String(string(e.Kind)),
			"from": canon.String(e.FromID),
			"to":   canon.String(e.ToID),
		}
	}

	return canon.Object{"nodes": nodeVals, "edges": edgeVals}
}

// refuse records the refusal artifact and returns the refused outcome.
// Evidence hashes cover every record present before the refusal record
// itself.
func refuse(led *ledger.Ledger, clock *TokenClock, runID, seedHash string, reasons []string) (Outcome, error) {
	records := led.Records()
	evidenceHashes := make([]string, len(records))
	for i, r := range records {
		evidenceHashes[i] = r.RecordHash
	}

	report := artifact.NewRefusalReport(runID, seedHash, reasons, evidenceHashes, policySuggestions(reasons))

	_, err := led.Append(clock.Next(), ledger.KindArtifact, canon.Object{
		"refusal": report.CanonicalValue(),
	})
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Refusal: &Refusal{
		Records: led.Records(),
		Report:  report,
	}}, nil
}
