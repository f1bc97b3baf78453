package lint

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/dataflow"
	"github.com/viant/rvlint/parser"
	"github.com/viant/rvlint/regset"
)

// CalleeSavedGarbageRead flags reading a saved register (s0/s1, s2-s11 —
// not ra/sp, which the Stack and CalleeSavedRegister lints own) before it
// was ever written in the current function, when the read is not a
// memory access (a memory operand naming a saved base register is just
// addressing, not "using its garbage value") (spec.md §4.10).
func CalleeSavedGarbageRead(c *cfg.CFG, f *dataflow.Facts) []Diagnostic {
	var out []Diagnostic
	for i := 1; i < len(c.Nodes); i++ {
		n := c.Nodes[i]
		p := n.PNode
		if p.Kind == parser.KindLoad || p.Kind == parser.KindStore {
			continue
		}
		for _, r := range p.Reads() {
			if !regset.Saved.Contains(r) {
				continue
			}
			v, ok := f.RegValuesIn[i][r]
			if !ok || !v.IsOriginal(r) {
				continue
			}
			out = append(out, newDiag(CodeInvalidUseBeforeAssignment, p.Tok.File, p.Tok.Range,
				"use before assignment",
				"reads "+r.ABI()+" before this function has ever written it"))
		}
	}
	return out
}
