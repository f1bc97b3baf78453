package cfg

import (
	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/parser"
	"github.com/viant/rvlint/regset"
)

// Function is one procedure discovered during annotation: every node
// reachable from its entry, the registers it ever writes, and a single
// canonical exit (spec.md §4.5, §3 Function).
type Function struct {
	Labels             []string
	Entry              int
	Exit               int
	Nodes              []int
	Defs               regset.Set
	IsInterruptHandler bool
}

// ToSave is the derived "callee-saved registers this function must
// restore" set: defs ∩ CALLEE_SAVED, excluding sp (the stack pointer is
// tracked separately by the Stack lint, not as a save/restore obligation).
// TODO: x1 (ra) is counted callee-saved here even for interrupt handlers;
// revisit if interrupt-handler entry semantics turn out to need ra
// treated as caller-saved instead.
func (f *Function) ToSave() regset.Set {
	return f.Defs.Intersect(regset.CalleeSaved).Without(isa.SP)
}

const returnJumpLabel = "__return__"

// AnnotateFunctions runs function annotation over every function-entry
// node in c (spec.md §4.5): collect reachable nodes, collect defs, find
// the canonical exit, and normalize every other return into a jump to
// it. Must run once per CFG build, before the dataflow passes.
//
// The call-return edge from a function's exit back to the instruction
// following each call site (spec.md §4.3 step 5) can only be wired once
// that function's exit is known, but straight-line code following an
// internal call can only be discovered as part of THIS function's own
// reachability once that very edge exists for the callees it invokes.
// Two lenient passes (wiring call-return edges in between, tolerating a
// function with no return yet visible) converge on the common case of a
// few levels of call nesting; the final pass is strict and is what
// actually surfaces NoLabelForReturn.
func AnnotateFunctions(c *CFG) *CfgError {
	annotatePass(c, true)
	wireCallReturnEdges(c)
	annotatePass(c, true)
	wireCallReturnEdges(c)
	return annotatePass(c, false)
}

func annotatePass(c *CFG, lenient bool) *CfgError {
	c.Functions = nil
	c.FunctionByLabel = map[string]int{}
	for i := range c.Nodes {
		c.Nodes[i].Functions = nil
	}
	for i := range c.Nodes {
		if !c.Nodes[i].IsFunctionEntry() {
			continue
		}
		err := annotateFunction(c, i)
		if err == nil {
			continue
		}
		if lenient && err.Kind == NoLabelForReturn {
			continue
		}
		return err
	}
	return nil
}

func annotateFunction(c *CFG, entryIdx int) *CfgError {
	visited := map[int]bool{entryIdx: true}
	queue := []int{entryIdx}
	var order []int
	var defs regset.Set
	var returns []int

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, i)
		n := c.Nodes[i]
		if rd, ok := n.PNode.Writes(); ok {
			defs = defs.With(rd)
		}
		if n.PNode.IsReturn() {
			returns = append(returns, i)
		}
		for _, next := range n.Nexts {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	if len(returns) == 0 {
		return &CfgError{Kind: NoLabelForReturn, Message: c.Nodes[entryIdx].Labels[0]}
	}

	exitIdx := returns[0]
	for _, r := range returns[1:] {
		rn := c.Nodes[r]
		rn.PNode.Kind = parser.KindJump
		rn.PNode.Rd = isa.Zero
		rn.PNode.TargetLabel = returnJumpLabel
		rn.PNode.Synthetic = true
		c.AddEdge(r, exitIdx)
	}

	fn := &Function{
		Labels:             append([]string(nil), c.Nodes[entryIdx].Labels...),
		Entry:              entryIdx,
		Exit:               exitIdx,
		Nodes:              order,
		Defs:               defs,
		IsInterruptHandler: c.Nodes[entryIdx].PNode.IsInterruptHandler,
	}
	fnIdx := len(c.Functions)
	c.Functions = append(c.Functions, fn)
	for _, l := range fn.Labels {
		c.FunctionByLabel[l] = fnIdx
	}
	for _, i := range order {
		c.Nodes[i].Functions = append(c.Nodes[i].Functions, fnIdx)
	}
	return nil
}
