package dataflow

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/regset"
)

// Facts is the parallel-array fact store for one CFG: index i corresponds
// to cfg.CFG.Nodes[i]. This is the arena's other half — cfg.Node carries no
// fact fields of its own (spec.md §5's "flat arena ... with separate fact
// arrays" option), which keeps dataflow the only package that needs to know
// about AvailableValue.
type Facts struct {
	RegValuesIn, RegValuesOut     []RegMap
	StackValuesIn, StackValuesOut []StackMap
	LiveIn, LiveOut                []regset.Set
	UDef                            []regset.Set
}

// NewFacts allocates an empty fact store sized to c.
func NewFacts(c *cfg.CFG) *Facts {
	n := len(c.Nodes)
	f := &Facts{
		RegValuesIn:    make([]RegMap, n),
		RegValuesOut:   make([]RegMap, n),
		StackValuesIn:  make([]StackMap, n),
		StackValuesOut: make([]StackMap, n),
		LiveIn:         make([]regset.Set, n),
		LiveOut:        make([]regset.Set, n),
		UDef:           make([]regset.Set, n),
	}
	for i := 0; i < n; i++ {
		f.RegValuesIn[i] = RegMap{}
		f.RegValuesOut[i] = RegMap{}
		f.StackValuesIn[i] = StackMap{}
		f.StackValuesOut[i] = StackMap{}
	}
	return f
}
