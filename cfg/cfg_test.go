package cfg_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/parser"
)

func build(t *testing.T, src string) *cfg.CFG {
	t.Helper()
	reader := parser.NewMemoryReader(map[string]string{"a.s": src})
	p := parser.NewParser(context.Background(), reader)
	nodes, perrs, err := p.ParseFile("a.s")
	require.NoError(t, err)
	require.Empty(t, perrs)
	c, cerr := cfg.Build(nodes, nil)
	require.Nil(t, cerr)
	return c
}

func TestBuildReportsUndefinedLabel(t *testing.T) {
	reader := parser.NewMemoryReader(map[string]string{"a.s": "j nowhere\n"})
	p := parser.NewParser(context.Background(), reader)
	nodes, perrs, err := p.ParseFile("a.s")
	require.NoError(t, err)
	require.Empty(t, perrs)
	_, cerr := cfg.Build(nodes, nil)
	if assert.NotNil(t, cerr) {
		assert.Equal(t, cfg.LabelsNotDefined, cerr.Kind)
		assert.Equal(t, []string{"nowhere"}, cerr.Labels)
	}
}

func TestBuildReportsDuplicateLabel(t *testing.T) {
	src := "loop:\n  nop\nloop:\n  nop\n"
	reader := parser.NewMemoryReader(map[string]string{"a.s": src})
	p := parser.NewParser(context.Background(), reader)
	nodes, perrs, err := p.ParseFile("a.s")
	require.NoError(t, err)
	require.Empty(t, perrs)
	_, cerr := cfg.Build(nodes, nil)
	if assert.NotNil(t, cerr) {
		assert.Equal(t, cfg.DuplicateLabel, cerr.Kind)
		assert.Equal(t, []string{"loop"}, cerr.Labels)
	}
}

// A label that nothing ever calls via jal with a link register never
// becomes a function entry, mirroring the Rust original's no_function case.
func TestLabelWithNoCallerIsNotAFunction(t *testing.T) {
	src := "loop:\n  beq a0, zero, loop\n  ret\n"
	c := build(t, src)
	assert.Empty(t, c.Functions)
	idx, ok := c.LabelIndex["loop"]
	require.True(t, ok)
	assert.False(t, c.Nodes[idx].IsFunctionEntry())
}

// A label that is the target of a call (jal with a non-zero rd) becomes
// a synthetic function entry, mirroring the Rust original's single_function.
func TestLabelCalledByJalBecomesFunctionEntry(t *testing.T) {
	src := "" +
		"main:\n" +
		"  call foo\n" +
		"  ret\n" +
		"foo:\n" +
		"  addi a0, a0, 1\n" +
		"  ret\n"
	c := build(t, src)
	idx, ok := c.LabelIndex["foo"]
	require.True(t, ok)
	assert.True(t, c.Nodes[idx].IsFunctionEntry())

	require.Nil(t, cfg.AnnotateFunctions(c))
	// main is never the target of a jal, so only foo registers as a
	// function (mirroring the Rust original's single_function case).
	assert.Len(t, c.Functions, 1)
}

func TestBranchGetsTargetAndFallthroughEdges(t *testing.T) {
	src := "beq a0, a1, target\n  nop\ntarget:\n  nop\n"
	c := build(t, src)
	branchIdx := 1
	targetIdx, ok := c.LabelIndex["target"]
	require.True(t, ok)
	nexts := c.Nodes[branchIdx].Nexts
	assert.ElementsMatch(t, []int{branchIdx + 1, targetIdx}, nexts)
}

func TestBareJumpGetsOnlyTargetEdgeNoFallthrough(t *testing.T) {
	src := "j target\n  nop\ntarget:\n  nop\n"
	c := build(t, src)
	jumpIdx := 1
	targetIdx, ok := c.LabelIndex["target"]
	require.True(t, ok)
	assert.Equal(t, []int{targetIdx}, c.Nodes[jumpIdx].Nexts)
}

func TestReturnGetsNoOutEdges(t *testing.T) {
	src := "main:\n  call foo\n  ret\nfoo:\n  ret\n"
	c := build(t, src)
	for i, n := range c.Nodes {
		if n.PNode.IsReturn() {
			assert.Empty(t, n.Nexts, "node %d (ret) should have no out edges", i)
		}
	}
}

func TestMultiReturnNormalizesToOneCanonicalExit(t *testing.T) {
	src := "" +
		"main:\n" +
		"  call f\n" +
		"  ret\n" +
		"f:\n" +
		"  beq a0, zero, alt\n" +
		"  addi a0, a0, 1\n" +
		"  ret\n" +
		"alt:\n" +
		"  addi a0, a0, 2\n" +
		"  ret\n"
	c := build(t, src)
	require.Nil(t, cfg.AnnotateFunctions(c))

	fnIdx, ok := c.FunctionByLabel["f"]
	require.True(t, ok)
	fn := c.Functions[fnIdx]

	returns := 0
	for _, i := range fn.Nodes {
		if c.Nodes[i].PNode.IsReturn() {
			returns++
		}
	}
	assert.Equal(t, 1, returns, "exactly one canonical jalr-return node should remain in the function body")

	// The other return was rewritten into a synthetic jump straight to the
	// canonical exit.
	altRetIdx := -1
	for _, i := range fn.Nodes {
		if c.Nodes[i].PNode.Kind == parser.KindJump && c.Nodes[i].PNode.Synthetic {
			altRetIdx = i
		}
	}
	require.NotEqual(t, -1, altRetIdx)
	assert.Contains(t, c.Nodes[altRetIdx].Nexts, fn.Exit)
}

func TestAnnotateFunctionsErrorsWhenNoReturn(t *testing.T) {
	src := "main:\n  call f\n  ret\nf:\n  j f\n"
	c := build(t, src)
	err := cfg.AnnotateFunctions(c)
	if assert.NotNil(t, err) {
		assert.Equal(t, cfg.NoLabelForReturn, err.Kind)
	}
}

func TestFindFirstWriterWalksBackThroughPrevs(t *testing.T) {
	src := "addi a0, x0, 1\n  nop\n  nop\n"
	c := build(t, src)
	writers := cfg.FindFirstWriter(c, 3, isa.X10)
	assert.Contains(t, writers, 1)
}

func TestFindFirstUseStopsAtFirstReader(t *testing.T) {
	src := "" +
		"addi a0, x0, 1\n" +
		"  addi a1, a0, 0\n" +
		"  addi a2, a0, 0\n"
	c := build(t, src)
	idx, ok := cfg.FindFirstUse(c, 1, isa.X10)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestFindFirstUseReportsNoneWhenUnused(t *testing.T) {
	src := "addi a0, x0, 1\n  nop\n"
	c := build(t, src)
	_, ok := cfg.FindFirstUse(c, 1, isa.X10)
	assert.False(t, ok)
}
