// Package cfg builds the inter-procedural control-flow graph from a flat
// parser.Node sequence (spec.md §4.3). Rather than the teacher's graph
// package shape (not applicable here) or shared-pointer/interior-mutable
// nodes, the CFG is a flat arena: CFG owns every Node by index, and edges
// are index sets rather than shared references. This eliminates ownership
// cycles by construction — the arena is the only owner, and releasing it
// releases everything (spec.md §9 DESIGN NOTES).
package cfg

import (
	"sort"

	"github.com/viant/rvlint/parser"
)

// Node wraps one parser.Node with its CFG-level metadata: the labels that
// name it, which segment it lives in, and its edges as indices into the
// owning CFG's Nodes slice.
type Node struct {
	PNode       parser.Node
	Labels      []string
	DataSection bool

	Nexts []int
	Prevs []int

	// Functions lists the indices (into CFG.Functions) of every function
	// this node belongs to — ordinarily one, but a node reached by both
	// its own function's body and a fallthrough from a preceding function
	// belongs to more than one (spec.md §3 CFG node: "functions").
	Functions []int
}

// IsFunctionEntry reports whether n is a synthetic function-entry node.
func (n *Node) IsFunctionEntry() bool { return n.PNode.Kind == parser.KindFunctionEntry }

// IsProgramEntry reports whether n is the synthetic program-entry node.
func (n *Node) IsProgramEntry() bool { return n.PNode.Kind == parser.KindProgramEntry }

func (n *Node) addNext(i int) {
	for _, x := range n.Nexts {
		if x == i {
			return
		}
	}
	n.Nexts = append(n.Nexts, i)
}

func (n *Node) addPrev(i int) {
	for _, x := range n.Prevs {
		if x == i {
			return
		}
	}
	n.Prevs = append(n.Prevs, i)
}

// CFG is the arena: every Node lives at a stable index for the lifetime
// of one analysis. NodeIndex 0 is always the synthetic program entry.
type CFG struct {
	Nodes           []*Node
	LabelIndex      map[string]int
	Functions       []*Function
	FunctionByLabel map[string]int
}

// Node returns the node at i.
func (c *CFG) Node(i int) *Node { return c.Nodes[i] }

// AddEdge records a directed edge a->b, keeping Nexts/Prevs symmetric
// (invariant i of spec.md §3: nexts(a) contains b iff prevs(b) contains a).
func (c *CFG) AddEdge(a, b int) {
	c.Nodes[a].addNext(b)
	c.Nodes[b].addPrev(a)
}

// RemoveAllOutEdges clears every outgoing edge from node i, used by the
// ecall-termination post-pass (a program-exit ecall has no successors).
func (c *CFG) RemoveAllOutEdges(i int) {
	n := c.Nodes[i]
	for _, next := range n.Nexts {
		p := c.Nodes[next].Prevs
		for j, x := range p {
			if x == i {
				c.Nodes[next].Prevs = append(p[:j], p[j+1:]...)
				break
			}
		}
	}
	n.Nexts = nil
}

// SourceOrder returns node indices 1..len(Nodes)-1 (everything but the
// synthetic program entry) in arena order, which is source order.
func (c *CFG) SourceOrder() []int {
	out := make([]int, 0, len(c.Nodes)-1)
	for i := 1; i < len(c.Nodes); i++ {
		out = append(out, i)
	}
	return out
}

// sortedStrings is a small helper used when a deterministic label
// ordering is needed for error messages.
func sortedStrings(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
