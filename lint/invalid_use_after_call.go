package lint

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/dataflow"
	"github.com/viant/rvlint/regset"
)

// InvalidUseAfterCall flags reading a caller-saved register after a call
// when that register is still live but is not one of the callee's actual
// return registers — the value it holds now is whatever the callee's
// body happened to leave behind, not something the caller put there
// (spec.md §4.10; original_source riscv_analysis/src/cfg/function.rs
// Function::returns and src/lints/checks.rs DeadValueCheck's
// InvalidUseAfterCall branch).
func InvalidUseAfterCall(c *cfg.CFG, f *dataflow.Facts) []Diagnostic {
	var out []Diagnostic
	for i := 1; i < len(c.Nodes); i++ {
		n := c.Nodes[i]
		p := n.PNode
		if !p.IsCall() {
			continue
		}
		fnIdx, ok := c.FunctionByLabel[p.TargetLabel]
		if !ok {
			continue
		}
		if i+1 >= len(c.Nodes) {
			continue
		}
		fn := c.Functions[fnIdx]
		returns := f.LiveIn[fn.Exit].Intersect(regset.Return)
		// Liveness is taken at the return site (the instruction after the
		// call): the call's own live_out is the callee entry's live_in.
		stale := regset.CallerSaved.Diff(returns).Intersect(f.LiveIn[i+1])

		for _, reg := range stale.Registers() {
			use, found := cfg.FindFirstUse(c, i, reg)
			if !found {
				continue
			}
			u := c.Nodes[use].PNode
			out = append(out, newDiag(CodeInvalidUseAfterCall, u.Tok.File, u.Tok.Range,
				"use after call",
				"reads "+reg.ABI()+" after calling "+p.TargetLabel+", which does not return it"))
		}
	}
	return out
}
