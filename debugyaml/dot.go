package debugyaml

import (
	"fmt"
	"strings"

	"github.com/viant/rvlint/cfg"
)

// DOT renders c as a Graphviz digraph, one record node per cfg.Node
// rather than per basic block. The original DOT exporter this is
// grounded on (dot_cfg.rs) first partitions the CFG into basic blocks
// (leaders/terminators derived from predecessor/successor counts and
// call/jump targets) and emits one record per block; this exporter skips
// that partitioning and gives every cfg.Node its own record, trading a
// denser graph for a direct 1:1 correspondence with Encode's NodeEntry
// indices (so the DOT and YAML dumps that lint --debug prints describe
// the same node set one-for-one, which matters more for this tool's
// debugging use case than block aggregation does).
func DOT(c *cfg.CFG) string {
	var b strings.Builder
	b.WriteString("digraph cfg {\n")
	b.WriteString("\tnode [shape=record, fontname=\"Courier\"];\n")
	for i, n := range c.Nodes {
		b.WriteString(fmt.Sprintf("\t%d [label=\"{%d:\\l|%s\\l}\"];\n", i, i, escapeDotLabel(n.PNode.Tok.Text)))
		for _, next := range n.Nexts {
			b.WriteString(fmt.Sprintf("\t%d -> %d;\n", i, next))
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// escapeDotLabel escapes the record-shape metacharacters Graphviz
// reserves (see https://graphviz.org/doc/info/shapes.html#record).
func escapeDotLabel(s string) string {
	r := strings.NewReplacer(
		"[", "\\[",
		"]", "\\]",
		"|", "\\|",
		"<", "\\<",
		">", "\\>",
		"\"", "\\\"",
	)
	return r.Replace(s)
}
