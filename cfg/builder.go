package cfg

import (
	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/parser"
)

// Build constructs a CFG from a flat parser.Node sequence (spec.md §4.3,
// steps 1-5). extraCallNames is nil on the first pass; the second,
// interrupt-handler-discovery pass (step 6) passes in the labels found
// written to the utvec CSR so their function entries get
// IsInterruptHandler set.
func Build(nodes []parser.Node, extraCallNames map[string]bool) (*CFG, *CfgError) {
	labelNames := map[string]bool{}
	for _, n := range nodes {
		if n.Kind == parser.KindLabel {
			labelNames[n.Label] = true
		}
	}

	callNames := map[string]bool{}
	jumpNames := map[string]bool{}
	loadNames := map[string]bool{}
	for _, n := range nodes {
		switch {
		case n.IsCall():
			callNames[n.TargetLabel] = true
		case n.Kind == parser.KindJump && n.Rd == isa.Zero:
			jumpNames[n.TargetLabel] = true
		case n.Kind == parser.KindBranch:
			jumpNames[n.TargetLabel] = true
		case n.Kind == parser.KindLoadAddr:
			loadNames[n.TargetLabel] = true
		}
	}

	undefined := map[string]bool{}
	for _, set := range []map[string]bool{callNames, jumpNames, loadNames} {
		for lbl := range set {
			if !labelNames[lbl] {
				undefined[lbl] = true
			}
		}
	}
	if len(undefined) > 0 {
		return nil, &CfgError{Kind: LabelsNotDefined, Labels: sortedStrings(undefined)}
	}

	effectiveCallNames := map[string]bool{}
	for l := range callNames {
		effectiveCallNames[l] = true
	}
	for l := range extraCallNames {
		effectiveCallNames[l] = true
	}

	c := &CFG{
		LabelIndex:      map[string]int{},
		FunctionByLabel: map[string]int{},
	}
	c.Nodes = append(c.Nodes, &Node{PNode: parser.Node{Kind: parser.KindProgramEntry}})

	segment := textSegment
	var currentLabels []string
	seenLabels := map[string]bool{}

	for _, n := range nodes {
		switch n.Kind {
		case parser.KindLabel:
			if seenLabels[n.Label] {
				return nil, &CfgError{Kind: DuplicateLabel, Labels: []string{n.Label}}
			}
			seenLabels[n.Label] = true
			currentLabels = append(currentLabels, n.Label)
			continue
		case parser.KindDirective:
			switch n.Directive {
			case isa.DirText:
				segment = textSegment
			case isa.DirData:
				segment = dataSegment
			}
			continue
		}

		isFuncEntry := false
		isInterrupt := false
		for _, l := range currentLabels {
			if effectiveCallNames[l] {
				isFuncEntry = true
			}
			if extraCallNames[l] {
				isInterrupt = true
			}
		}

		if isFuncEntry {
			entry := &Node{
				PNode:       parser.Node{Kind: parser.KindFunctionEntry, Tok: n.Tok, IsInterruptHandler: isInterrupt},
				Labels:      currentLabels,
				DataSection: segment == dataSegment,
			}
			idx := len(c.Nodes)
			c.Nodes = append(c.Nodes, entry)
			for _, l := range currentLabels {
				c.LabelIndex[l] = idx
			}
			currentLabels = nil
		}

		node := &Node{PNode: n, Labels: currentLabels, DataSection: segment == dataSegment}
		idx := len(c.Nodes)
		c.Nodes = append(c.Nodes, node)
		for _, l := range currentLabels {
			c.LabelIndex[l] = idx
		}
		currentLabels = nil
	}

	wireEdges(c)
	return c, nil
}

type segmentKind int

const (
	textSegment segmentKind = iota
	dataSegment
)

func wireEdges(c *CFG) {
	if len(c.Nodes) > 1 {
		c.AddEdge(0, 1)
	}
	for i := 1; i < len(c.Nodes); i++ {
		n := c.Nodes[i].PNode
		switch {
		case n.Kind == parser.KindBranch:
			if target, ok := c.LabelIndex[n.TargetLabel]; ok {
				c.AddEdge(i, target)
			}
			if i+1 < len(c.Nodes) {
				c.AddEdge(i, i+1)
			}
		case n.Kind == parser.KindJump:
			// Both bare jumps and calls (Rd != x0) point only at their
			// target here; the edge from a called function's exit back to
			// the instruction after the call is added later by
			// wireCallReturnEdges (calledges.go), once exits are known.
			if target, ok := c.LabelIndex[n.TargetLabel]; ok {
				c.AddEdge(i, target)
			}
		case n.Kind == parser.KindJumpReg:
			// ret and computed jr get no out-edge here; a function's
			// exit ret later gains an edge to the instruction after each
			// call of that function (wireCallReturnEdges).
		default:
			if i+1 < len(c.Nodes) {
				c.AddEdge(i, i+1)
			}
		}
	}
}
