package dataflow

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/regset"
)

// allRegs is the meet-of-empty-predecessors identity for the
// unconditional-definition pass's intersection: vacuously, every
// register is "defined on every path" when there are no paths, matching
// the textbook must-analysis convention (spec.md §4.9, §8's
// u_def(n) ⊇ kill(n) property holds trivially at such nodes).
const allRegs regset.Set = 0xFFFFFFFF

// RunUDef runs the forward unconditional-definition pass (spec.md §4.9)
// to a fixpoint over c, writing into f.
func RunUDef(c *cfg.CFG, f *Facts) {
	order := c.SourceOrder()
	for iter := 0; iter < maxFixpointIterations; iter++ {
		changed := false
		for _, idx := range order {
			n := c.Nodes[idx]

			var uDef regset.Set
			if n.IsFunctionEntry() {
				uDef = 0
			} else {
				uDef = allRegs
				for _, p := range n.Prevs {
					uDef = uDef.Intersect(f.UDef[p])
				}
				uDef = uDef.Union(killOf(c, n))
			}

			if uDef != f.UDef[idx] {
				changed = true
			}
			f.UDef[idx] = uDef
		}
		if !changed {
			return
		}
	}
}
