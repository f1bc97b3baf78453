package dataflow

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/parser"
)

// ApplyEcallTermination runs the CFG builder's ecall-termination
// post-pass (spec.md §4.3): any node whose incoming selector register is
// the constant 10 or 93 has all outgoing edges removed, since both
// selectors unconditionally end the program. This depends on the
// available-value facts, so unlike the rest of CFG construction it runs
// here, after RunAvailableValues has converged once, rather than inside
// cfg.Build itself. Reports whether any edges were actually removed, so
// callers can decide whether a second available-value fixpoint pass is
// worth re-running.
func ApplyEcallTermination(c *cfg.CFG, f *Facts) bool {
	removed := false
	for i, n := range c.Nodes {
		if n.PNode.Kind != parser.KindBasic || n.PNode.Mnemonic != isa.ECALL {
			continue
		}
		selector, ok := constOf(f.RegValuesIn[i], isa.A7)
		if !ok || !isa.IsTerminatingSelector(int(selector)) {
			continue
		}
		if len(n.Nexts) > 0 {
			c.RemoveAllOutEdges(i)
			removed = true
		}
	}
	return removed
}
