package analysis

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/dataflow"
	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/parser"
)

// discoverInterruptHandlers finds every label the program writes into the
// utvec CSR as a known address, so a second cfg.Build pass can mark that
// label's function entry as an interrupt handler (spec.md §4.3 step 6,
// §4.5). Resolving "known address" requires the available-value facts
// from a first, ordinary analysis pass — this is why the CFG is built
// twice.
func discoverInterruptHandlers(c *cfg.CFG, f *dataflow.Facts) map[string]bool {
	var handlers map[string]bool
	for i := 1; i < len(c.Nodes); i++ {
		p := c.Nodes[i].PNode
		if p.Kind != parser.KindCsr || p.Csr != isa.UTVEC || p.CsrIsImm {
			continue
		}
		v, ok := f.RegValuesIn[i][p.CsrSrcReg]
		if !ok || v.Kind != dataflow.VAddress {
			continue
		}
		if handlers == nil {
			handlers = map[string]bool{}
		}
		handlers[v.Label] = true
	}
	return handlers
}
