package dataflow

import "github.com/viant/rvlint/cfg"

// RunAll drives the full dataflow pipeline over a built, annotated CFG:
// the forward available-value pass, the ecall-termination post-pass
// (which depends on it and can change the graph's edges), a re-run of
// available-values if termination actually removed anything, then the
// backward liveness pass and the forward unconditional-definition pass.
// This is the sequencing spec.md's data-flow diagram describes between
// "Function Annotation" and "a second CFG rebuild" (§2 System Overview).
func RunAll(c *cfg.CFG) *Facts {
	f := NewFacts(c)
	RunAvailableValues(c, f)
	if ApplyEcallTermination(c, f) {
		RunAvailableValues(c, f)
	}
	RunLiveness(c, f)
	RunUDef(c, f)
	return f
}
