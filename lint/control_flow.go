package lint

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/parser"
)

// ControlFlow flags three malformed-control-flow shapes (spec.md §4.10):
// (a) the program's very first instruction already being a function
// entry, (b) a jump (not a call) whose target is a function entry, and
// (c) any non-entry node with no predecessors at all.
func ControlFlow(c *cfg.CFG) []Diagnostic {
	var out []Diagnostic

	if len(c.Nodes) > 1 && c.Nodes[1].IsFunctionEntry() {
		n := c.Nodes[1]
		out = append(out, newDiag(CodeFirstInstructionIsFunction, n.PNode.Tok.File, n.PNode.Tok.Range,
			"program entry is a function",
			"the first instruction of the program is a function entry, reached without a call"))
	}

	for i := 1; i < len(c.Nodes); i++ {
		n := c.Nodes[i]
		p := n.PNode
		isJump := p.Kind == parser.KindJump && !p.IsCall()
		isBranch := p.Kind == parser.KindBranch
		if !isJump && !isBranch {
			continue
		}
		target, ok := c.LabelIndex[p.TargetLabel]
		if !ok || !c.Nodes[target].IsFunctionEntry() {
			continue
		}
		out = append(out, newDiag(CodeInvalidJumpToFunction, p.Tok.File, p.Tok.Range,
			"jump into function entry",
			"this jumps directly to a function entry instead of calling it with jal"))
	}

	for i := 1; i < len(c.Nodes); i++ {
		n := c.Nodes[i]
		if len(n.Prevs) == 0 {
			out = append(out, newDiag(CodeUnreachableCode, n.PNode.Tok.File, n.PNode.Tok.Range,
				"unreachable code",
				"no control-flow path reaches this instruction"))
		}
	}

	return out
}
