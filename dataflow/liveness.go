package dataflow

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/parser"
	"github.com/viant/rvlint/regset"
)

// RunLiveness runs the backward liveness pass (spec.md §4.8) to a
// fixpoint over c, writing into f. Must run after RunAvailableValues:
// a call site's gen set needs the callee's live-in args (read from f as
// the fixpoint below converges) and a known-selector ecall's gen set
// needs the selector's available value.
func RunLiveness(c *cfg.CFG, f *Facts) {
	order := c.SourceOrder()
	for iter := 0; iter < maxFixpointIterations; iter++ {
		changed := false
		for i := len(order) - 1; i >= 0; i-- {
			idx := order[i]
			n := c.Nodes[idx]

			var liveOut regset.Set
			for _, next := range n.Nexts {
				liveOut = liveOut.Union(f.LiveIn[next])
			}
			gen := genOf(c, f, idx, n)
			kill := killOf(c, n)
			liveIn := gen.Union(liveOut.Diff(kill))

			if liveOut != f.LiveOut[idx] || liveIn != f.LiveIn[idx] {
				changed = true
			}
			f.LiveOut[idx] = liveOut
			f.LiveIn[idx] = liveIn
		}
		if !changed {
			return
		}
	}
}

func genOf(c *cfg.CFG, f *Facts, idx int, n *cfg.Node) regset.Set {
	p := n.PNode
	if p.IsReturn() {
		return regset.CalleeSaved
	}

	var s regset.Set
	for _, r := range p.Reads() {
		if !r.IsZero() {
			s = s.With(r)
		}
	}

	if p.IsCall() {
		if fnIdx, ok := c.FunctionByLabel[p.TargetLabel]; ok {
			entry := c.Functions[fnIdx].Entry
			s = s.Union(f.LiveIn[entry].Intersect(regset.Arguments))
		}
		return s
	}

	if p.Kind == parser.KindBasic && p.Mnemonic == isa.ECALL {
		s = s.With(isa.A7)
		if selector, ok := constOf(f.RegValuesIn[idx], isa.A7); ok {
			if sig, known := isa.Ecall(int(selector)); known {
				for _, r := range sig.Args {
					s = s.With(r)
				}
			}
		}
	}
	return s
}

func killOf(c *cfg.CFG, n *cfg.Node) regset.Set {
	p := n.PNode
	if n.IsFunctionEntry() {
		return regset.CallerSaved
	}
	if p.IsCall() {
		return regset.CallerSaved
	}
	if rd, ok := p.Writes(); ok && !rd.IsZero() {
		return regset.Of(rd)
	}
	return 0
}
