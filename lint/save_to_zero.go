package lint

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/parser"
)

// SaveToZero flags any instruction writing x0 (spec.md §4.10), excluding
// pseudo-ops that legitimately target x0 for a side effect rather than a
// value: jumps/calls discarding a link register and CSR instructions
// discarding a read result (e.g. csrw's csrrw x0, csr, rs1 expansion).
func SaveToZero(c *cfg.CFG) []Diagnostic {
	var out []Diagnostic
	for i := 1; i < len(c.Nodes); i++ {
		n := c.Nodes[i]
		p := n.PNode
		switch p.Kind {
		case parser.KindArith, parser.KindUpperImm, parser.KindLoad, parser.KindLoadAddr:
			if p.Rd == isa.Zero {
				out = append(out, newDiag(CodeSaveToZero, p.Tok.File, p.Tok.Range,
					"write to zero register",
					"the result of this instruction is discarded because it writes x0"))
			}
		}
	}
	return out
}
