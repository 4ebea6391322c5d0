package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsDefault(t *testing.T) {
	assert.Empty(t, Default().Validate())
}

func TestValidateCollectsAllViolations(t *testing.T) {
	p := Policy{
		MaxInterpretations:  0,
		MaxNodes:            0,
		MaxDepth:            0,
		ContradictionBudget: -1,
		MaxSteps:            0,
		TieBreak:            "random",
	}

	errs := p.Validate()
	require.Len(t, errs, 6, "validation must report every violation, not fail fast")

	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	assert.Equal(t, []string{
		ErrMaxInterpretationsRange,
		ErrMaxNodesRange,
		ErrMaxDepthRange,
		ErrContradictionRange,
		ErrMaxStepsRange,
		ErrUnknownTieBreak,
	}, codes)
}

func TestValidateZeroContradictionBudgetAllowed(t *testing.T) {
	p := Default()
	p.ContradictionBudget = 0
	assert.Empty(t, p.Validate())
}

func TestSummaryExcludesTieBreak(t *testing.T) {
	summary := Default().Summary()
	assert.Len(t, summary, 5)
	_, ok := summary["tie_break"]
	assert.False(t, ok, "tie_break is structural, not part of the recorded summary")
}

func TestSelectTieBreak(t *testing.T) {
	winner, err := SelectTieBreak([]string{"Banana", "Apple", "cherry"}, TieBreakLexicographic)
	require.NoError(t, err)
	assert.Equal(t, "Apple", winner)

	_, err = SelectTieBreak(nil, TieBreakLexicographic)
	require.Error(t, err, "empty candidate set has no winner")

	_, err = SelectTieBreak([]string{"a"}, "coin-flip")
	require.Error(t, err, "unknown method must be rejected")
}

func TestFromYAMLValid(t *testing.T) {
	doc := []byte(`
max_interpretations: 3
max_nodes: 32
max_depth: 6
contradiction_budget: 1
max_steps: 16
`)
	p, err := FromYAML(doc)
	require.NoError(t, err)

	assert.Equal(t, 3, p.MaxInterpretations)
	assert.Equal(t, 32, p.MaxNodes)
	assert.Equal(t, 6, p.MaxDepth)
	assert.Equal(t, 1, p.ContradictionBudget)
	assert.Equal(t, 16, p.MaxSteps)
	assert.Equal(t, TieBreakLexicographic, p.TieBreak, "tie_break defaults when omitted")
}

func TestFromYAMLRejectsOutOfRange(t *testing.T) {
	doc := []byte(`
max_interpretations: 0
max_nodes: 32
max_depth: 6
contradiction_budget: 1
max_steps: 16
`)
	_, err := FromYAML(doc)
	require.Error(t, err, "schema bounds must reject max_interpretations < 1")
}

func TestFromYAMLRejectsUnknownTieBreak(t *testing.T) {
	doc := []byte(`
max_interpretations: 3
max_nodes: 32
max_depth: 6
contradiction_budget: 1
max_steps: 16
tie_break: random
`)
	_, err := FromYAML(doc)
	require.Error(t, err)
}

func TestFromYAMLRejectsMalformedDocument(t *testing.T) {
	_, err := FromYAML([]byte(`{not yaml`))
	require.Error(t, err)
}
