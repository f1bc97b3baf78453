package lint

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/dataflow"
	"github.com/viant/rvlint/regset"
)

// LostCalleeSavedRegister flags overwriting a saved register (s0/s1,
// s2-s11) while it still held its original entry value, when that
// original value is not preserved anywhere else (a stack slot or
// another register) at the same point — meaning it really is gone, not
// just moved (spec.md §4.10; original_source riscv_analysis
// lints/lost_callee_saved_register.rs). ra and sp are CalleeSavedRegister's
// concern, not this one's.
func LostCalleeSavedRegister(c *cfg.CFG, f *dataflow.Facts) []Diagnostic {
	var out []Diagnostic
	for i := 1; i < len(c.Nodes); i++ {
		n := c.Nodes[i]
		p := n.PNode
		rd, ok := p.Writes()
		if !ok || !regset.Saved.Contains(rd) || len(n.Functions) == 0 {
			continue
		}
		v, ok := f.RegValuesIn[i][rd]
		if !ok || !v.IsOriginal(rd) {
			continue
		}

		found := false
		for _, sv := range f.StackValuesOut[i] {
			if sv.IsOriginal(rd) {
				found = true
				break
			}
		}
		if !found {
			for _, rv := range f.RegValuesOut[i] {
				if rv.IsOriginal(rd) {
					found = true
					break
				}
			}
		}
		if found {
			continue
		}
		out = append(out, newDiag(CodeLostRegisterValue, p.Tok.File, p.Tok.Range,
			"callee-saved value lost",
			"this overwrites "+rd.ABI()+" without preserving its original value anywhere"))
	}
	return out
}
