package lint

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/dataflow"
)

// RunAll runs every lint pass over an annotated CFG and its fixed-point
// facts, then sorts the combined result (spec.md §4.10, §5, §8).
func RunAll(c *cfg.CFG, f *dataflow.Facts) []Diagnostic {
	var out []Diagnostic
	out = append(out, SaveToZero(c)...)
	out = append(out, DeadAssignment(c, f)...)
	out = append(out, ControlFlow(c)...)
	out = append(out, CalleeSavedGarbageRead(c, f)...)
	out = append(out, CalleeSavedRegister(c, f)...)
	out = append(out, LostCalleeSavedRegister(c, f)...)
	out = append(out, Stack(c, f)...)
	out = append(out, Ecall(c, f)...)
	out = append(out, InvalidUseAfterCall(c, f)...)
	Sort(out)
	return out
}
