package lint

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/dataflow"
	"github.com/viant/rvlint/regset"
)

// CalleeSavedRegister flags a function whose exit does not see every
// callee-saved register (ra, sp, s0/s1, s2-s11) restored to exactly its
// original entry value (spec.md §4.10). The first writer reachable
// backward from the exit is reported as the offending instruction,
// matching the original implementation's error_ranges_for_first_store
// walk (original_source riscv_analysis lints/callee_saved_register.rs,
// lints/checks.rs).
func CalleeSavedRegister(c *cfg.CFG, f *dataflow.Facts) []Diagnostic {
	var out []Diagnostic
	for _, fn := range c.Functions {
		exitVals := f.RegValuesIn[fn.Exit]
		for _, reg := range regset.CalleeSaved.Registers() {
			if v, ok := exitVals[reg]; ok && v.IsOriginal(reg) {
				continue
			}
			writers := cfg.FindFirstWriter(c, fn.Exit, reg)
			if len(writers) == 0 {
				n := c.Nodes[fn.Exit].PNode
				out = append(out, newDiag(CodeOverwriteCalleeSaved, n.Tok.File, n.Tok.Range,
					"callee-saved register not restored",
					reg.ABI()+" is not restored to its original value by the time this function returns"))
				continue
			}
			for _, w := range writers {
				n := c.Nodes[w].PNode
				out = append(out, newDiag(CodeOverwriteCalleeSaved, n.Tok.File, n.Tok.Range,
					"callee-saved register not restored",
					"this overwrites "+reg.ABI()+", which is never restored before the function returns"))
			}
		}
	}
	return out
}
