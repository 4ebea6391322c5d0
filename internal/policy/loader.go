package policy

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// policySchema constrains policy documents before they are admitted.
// Defaults are applied during unification, so a document may omit
// tie_break and still decode to a valid policy.
const policySchema = `
#Policy: {
	max_interpretations:  int & >=1
	max_nodes:            int & >=1
	max_depth:            int & >=1
	contradiction_budget: int & >=0
	max_steps:            int & >=1
	tie_break:            *"lexicographic" | "lexicographic"
}
`

// FromYAML decodes a YAML policy document, validates it against the
// CUE schema, and returns the resulting Policy. Schema violations are
// reported before any value reaches the engine.
func FromYAML(data []byte) (Policy, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Policy{}, fmt.Errorf("parse policy yaml: %w", err)
	}
	if raw == nil {
		return Policy{}, fmt.Errorf("policy document is empty")
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(policySchema).LookupPath(cue.ParsePath("#Policy"))
	if err := schema.Err(); err != nil {
		return Policy{}, fmt.Errorf("compile policy schema: %w", err)
	}

	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return Policy{}, fmt.Errorf("encode policy document: %w", err)
	}

	unified := schema.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Policy{}, fmt.Errorf("policy schema violation: %w", err)
	}

	var p Policy
	if err := unified.Decode(&p); err != nil {
		return Policy{}, fmt.Errorf("decode policy: %w", err)
	}

	return p, nil
}
