package engine

import (
	"fmt"
	"strings"

	"github.com/motherlabs/kernel/internal/boundary"
	"github.com/motherlabs/kernel/internal/policy"
	"github.com/motherlabs/kernel/internal/resolve"
)

// Refusal reason codes. Budgeted codes carry observed>limit detail.
const (
	ReasonEmptyProposal  = "empty_proposal"
	ReasonResolveFailed  = "resolve_ambiguity_failed"
	reasonContradictions = "contradictions_exceeded"
	reasonMaxNodes       = "max_nodes_exceeded"
	reasonMaxDepth       = "max_depth_exceeded"
	reasonMaxSteps       = "max_steps_exceeded"
)

// checkRefusalConditions evaluates the deterministic refusal
// predicates against the raw proposal and the run's counters. The
// returned codes are ordered: empty proposal, contradictions, node
// budget, depth budget, step budget. An empty slice means the run may
// proceed.
func checkRefusalConditions(
	proposal boundary.Proposal[resolve.Interpretations],
	pol policy.Policy,
	stepCount, nodeCount, depth int,
) []string {
	var reasons []string

	if len(proposal.Value) == 0 {
		reasons = append(reasons, ReasonEmptyProposal)
	}

	// Contradictions are duplicate assumption strings across the
	// candidate set, counted as occurrences beyond the first.
	if len(proposal.Value) > 0 {
		counts := make(map[string]int)
		for _, interp := range proposal.Value {
			for _, assumption := range interp.Assumptions {
				counts[assumption]++
			}
		}
		duplicates := 0
		for _, count := range counts {
			if count > 1 {
				duplicates += count - 1
			}
		}
		if duplicates > pol.ContradictionBudget {
			reasons = append(reasons, fmt.Sprintf("%s:%d>%d", reasonContradictions, duplicates, pol.ContradictionBudget))
		}
	}

	if nodeCount > pol.MaxNodes {
		reasons = append(reasons, fmt.Sprintf("%s:%d>%d", reasonMaxNodes, nodeCount, pol.MaxNodes))
	}
	if depth > pol.MaxDepth {
		reasons = append(reasons, fmt.Sprintf("%s:%d>%d", reasonMaxDepth, depth, pol.MaxDepth))
	}
	if stepCount > pol.MaxSteps {
		reasons = append(reasons, fmt.Sprintf("%s:%d>%d", reasonMaxSteps, stepCount, pol.MaxSteps))
	}

	return reasons
}

// policySuggestions maps reason codes to fixed suggestion templates.
// Templates only, never free text: suggestions appear in the hashed
// refusal artifact and must be deterministic.
func policySuggestions(reasonCodes []string) []string {
	var suggestions []string
	for _, reason := range reasonCodes {
		switch {
		case reason == ReasonEmptyProposal:
			suggestions = append(suggestions, "Increase proposer output or check proposer configuration")
		case strings.HasPrefix(reason, reasonContradictions):
			suggestions = append(suggestions, "Increase contradiction_budget or reduce assumption overlap")
		case strings.HasPrefix(reason, reasonMaxNodes):
			suggestions = append(suggestions, "Increase max_nodes or simplify seed intent")
		case strings.HasPrefix(reason, reasonMaxDepth):
			suggestions = append(suggestions, "Increase max_depth or flatten the decision structure")
		case strings.HasPrefix(reason, reasonMaxSteps):
			suggestions = append(suggestions, "Increase max_steps or reduce exploration depth")
		}
	}
	return suggestions
}
