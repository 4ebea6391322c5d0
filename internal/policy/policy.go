// Package policy defines the validated budget configuration consumed
// by the ambiguity resolver and the engine run.
//
// Validation here is pure: it reports violations but enforces nothing.
// Budget enforcement happens in the engine and resolver, which consult
// the validated policy.
package policy

import (
	"fmt"

	"github.com/motherlabs/kernel/internal/canon"
)

// TieBreakLexicographic is the only supported tie-break strategy.
const TieBreakLexicographic = "lexicographic"

// Policy governs exploration and convergence budgets for a run.
// Validated once at run start; read-only afterward.
//
// Changing scoring or collapse rules downstream of these budgets
// changes collapse outcomes and therefore artifacts. Treat such
// changes like changing a compiler: they require a deliberate golden
// fixture update and a version bump.
type Policy struct {
	MaxInterpretations  int    `json:"max_interpretations" yaml:"max_interpretations"`
	MaxNodes            int    `json:"max_nodes" yaml:"max_nodes"`
	MaxDepth            int    `json:"max_depth" yaml:"max_depth"`
	ContradictionBudget int    `json:"contradiction_budget" yaml:"contradiction_budget"`
	MaxSteps            int    `json:"max_steps" yaml:"max_steps"`
	TieBreak            string `json:"tie_break" yaml:"tie_break"`
}

// Default returns a policy with conservative exploration budgets.
func Default() Policy {
	return Policy{
		MaxInterpretations:  4,
		MaxNodes:            64,
		MaxDepth:            8,
		ContradictionBudget: 2,
		MaxSteps:            32,
		TieBreak:            TieBreakLexicographic,
	}
}

// Validation error codes (P100-P199)
const (
	ErrMaxInterpretationsRange = "P101" // max_interpretations out of range
	ErrMaxNodesRange           = "P102" // max_nodes out of range
	ErrMaxDepthRange           = "P103" // max_depth out of range
	ErrContradictionRange      = "P104" // contradiction_budget out of range
	ErrMaxStepsRange           = "P105" // max_steps out of range
	ErrUnknownTieBreak         = "P106" // unsupported tie_break strategy
)

// ValidationError represents a single policy bound violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks every bound and returns all violations found
// (does not fail-fast). A nil slice means the policy is valid.
func (p Policy) Validate() []ValidationError {
	var errs []ValidationError

	if p.MaxInterpretations < 1 {
		errs = append(errs, ValidationError{
			Field:   "max_interpretations",
			Message: fmt.Sprintf("must be >= 1, got %d", p.MaxInterpretations),
			Code:    ErrMaxInterpretationsRange,
		})
	}
	if p.MaxNodes < 1 {
		errs = append(errs, ValidationError{
			Field:   "max_nodes",
			Message: fmt.Sprintf("must be >= 1, got %d", p.MaxNodes),
			Code:    ErrMaxNodesRange,
		})
	}
	if p.MaxDepth < 1 {
		errs = append(errs, ValidationError{
			Field:   "max_depth",
			Message: fmt.Sprintf("must be >= 1, got %d", p.MaxDepth),
			Code:    ErrMaxDepthRange,
		})
	}
	if p.ContradictionBudget < 0 {
		errs = append(errs, ValidationError{
			Field:   "contradiction_budget",
			Message: fmt.Sprintf("must be >= 0, got %d", p.ContradictionBudget),
			Code:    ErrContradictionRange,
		})
	}
	if p.MaxSteps < 1 {
		errs = append(errs, ValidationError{
			Field:   "max_steps",
			Message: fmt.Sprintf("must be >= 1, got %d", p.MaxSteps),
			Code:    ErrMaxStepsRange,
		})
	}
	if p.TieBreak != TieBreakLexicographic {
		errs = append(errs, ValidationError{
			Field:   "tie_break",
			Message: fmt.Sprintf("must be %q, got %q", TieBreakLexicographic, p.TieBreak),
			Code:    ErrUnknownTieBreak,
		})
	}

	return errs
}

// Summary returns the canonical projection recorded in the seedpack.
// The tie-break strategy is structural (it never varies) and is not
// part of the summary, matching the ledger record layout.
func (p Policy) Summary() canon.Object {
	return canon.Object{
		"max_interpretations":  canon.Int(int64(p.MaxInterpretations)),
		"max_nodes":            canon.Int(int64(p.MaxNodes)),
		"max_depth":            canon.Int(int64(p.MaxDepth)),
		"contradiction_budget": canon.Int(int64(p.ContradictionBudget)),
		"max_steps":            canon.Int(int64(p.MaxSteps)),
	}
}

// CanonicalValue implements canon.Encoder.
func (p Policy) CanonicalValue() canon.Value {
	return canon.Object{
		"max_interpretations":  canon.Int(int64(p.MaxInterpretations)),
		"max_nodes":            canon.Int(int64(p.MaxNodes)),
		"max_depth":            canon.Int(int64(p.MaxDepth)),
		"contradiction_budget": canon.Int(int64(p.ContradictionBudget)),
		"max_steps":            canon.Int(int64(p.MaxSteps)),
		"tie_break":            canon.String(p.TieBreak),
	}
}
