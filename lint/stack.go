package lint

import (
	"fmt"

	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/dataflow"
	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/parser"
)

// Stack verifies the stack pointer's tracked shape at every point in
// program order: it must be known, must still be relative to sp's own
// entry value, and must not have drifted positive (spec.md §4.10;
// original_source riscv_analysis lints/stack.rs). The first violation
// ends the pass entirely, matching the original's single 'outer break —
// once sp's shape is unknown nothing downstream can be trusted either.
// While the shape stays sound, every stack-relative memory access at or
// above the tracked offset (an address the frame hasn't claimed) is
// still flagged, and that check does not stop the scan.
func Stack(c *cfg.CFG, f *dataflow.Facts) []Diagnostic {
	var out []Diagnostic
	for _, i := range c.SourceOrder() {
		n := c.Nodes[i]
		v, ok := f.RegValuesOut[i][isa.SP]
		if !ok {
			out = append(out, newDiag(CodeUnknownStack, n.PNode.Tok.File, n.PNode.Tok.Range,
				"unknown stack position",
				"the stack pointer's offset from function entry is not known here"))
			return out
		}
		if v.Kind != dataflow.VOriginalRegisterWithScalar || v.Reg != isa.SP {
			out = append(out, newDiag(CodeInvalidStackPointer, n.PNode.Tok.File, n.PNode.Tok.Range,
				"invalid stack pointer",
				"the stack pointer no longer tracks an offset from its value at function entry"))
			return out
		}
		if v.Scalar > 0 {
			out = append(out, newDiag(CodeInvalidStackPosition, n.PNode.Tok.File, n.PNode.Tok.Range,
				"invalid stack position",
				fmt.Sprintf("the stack pointer is %d bytes above its value at function entry", v.Scalar)))
			return out
		}

		p := n.PNode
		if (p.Kind == parser.KindLoad || p.Kind == parser.KindStore) && p.Rs1 == isa.SP {
			if off := int32(p.Imm) + v.Scalar; off >= 0 {
				out = append(out, newDiag(CodeInvalidStackPosition, p.Tok.File, p.Tok.Range,
					fmt.Sprintf("invalid stack offset %d", off),
					"this accesses memory at or above the stack pointer's entry value, outside this frame's allocated space"))
			}
		}
	}
	return out
}
