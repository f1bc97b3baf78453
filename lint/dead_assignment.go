package lint

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/dataflow"
)

// DeadAssignment flags a write whose destination is not in live_out(n)
// at that node (spec.md §4.10). Writes to x0 are SaveToZero's concern,
// not this pass's.
func DeadAssignment(c *cfg.CFG, f *dataflow.Facts) []Diagnostic {
	var out []Diagnostic
	for i := 1; i < len(c.Nodes); i++ {
		n := c.Nodes[i]
		rd, ok := n.PNode.Writes()
		if !ok || rd.IsZero() {
			continue
		}
		if f.LiveOut[i].Contains(rd) {
			continue
		}
		out = append(out, newDiag(CodeDeadAssignment, n.PNode.Tok.File, n.PNode.Tok.Range,
			"dead assignment",
			"the value written to "+rd.ABI()+" here is never read before being overwritten or the function returns"))
	}
	return out
}
