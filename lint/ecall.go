package lint

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/dataflow"
	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/parser"
)

// Ecall flags an ecall whose selector (a7) is either not known at
// analysis time or not in the recognized selector table (spec.md §4.6,
// §4.10; original_source src/lints/checks.rs EcallCheck).
func Ecall(c *cfg.CFG, f *dataflow.Facts) []Diagnostic {
	var out []Diagnostic
	for i := 1; i < len(c.Nodes); i++ {
		p := c.Nodes[i].PNode
		if p.Kind != parser.KindBasic || p.Mnemonic != isa.ECALL {
			continue
		}
		selector, ok := dataflow.ConstOf(f.RegValuesIn[i], isa.A7)
		if ok {
			if _, known := isa.Ecall(int(selector)); known {
				continue
			}
		}
		out = append(out, newDiag(CodeUnknownEcall, p.Tok.File, p.Tok.Range,
			"unknown ecall",
			"the value of a7 at this ecall is not a recognized selector"))
	}
	return out
}
