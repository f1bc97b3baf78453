package cfg

// wireCallReturnEdges adds the call-return edge spec.md §4.3 step 5
// describes: "an edge from the matching function's exit node back to the
// instruction textually following the call." This is deliberately not
// part of wireEdges in builder.go — it needs every function's Exit
// resolved first, including forward-referenced callees, so
// AnnotateFunctions runs it after each of its two lenient passes.
//
// The ret node that is a function's exit gets no out-edge from wireEdges;
// this adds an edge FROM that exit TO whatever follows each call that
// targets the owning function.
func wireCallReturnEdges(c *CFG) {
	for i := 1; i < len(c.Nodes); i++ {
		n := c.Nodes[i].PNode
		if !n.IsCall() {
			continue
		}
		fnIdx, ok := c.FunctionByLabel[n.TargetLabel]
		if !ok {
			continue
		}
		exit := c.Functions[fnIdx].Exit
		if i+1 < len(c.Nodes) {
			c.AddEdge(exit, i+1)
		}
	}
}
