package dataflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/dataflow"
	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/parser"
	"github.com/viant/rvlint/regset"
)

func buildAndRun(t *testing.T, src string) (*cfg.CFG, *dataflow.Facts) {
	t.Helper()
	reader := parser.NewMemoryReader(map[string]string{"a.s": src})
	p := parser.NewParser(context.Background(), reader)
	nodes, perrs, err := p.ParseFile("a.s")
	require.NoError(t, err)
	require.Empty(t, perrs)
	c, cerr := cfg.Build(nodes, nil)
	require.Nil(t, cerr)
	require.Nil(t, cfg.AnnotateFunctions(c))
	return c, dataflow.RunAll(c)
}

// spec.md §4.7: constant folding when both operands are Constant.
func TestAvailableValueFoldsConstantArithmetic(t *testing.T) {
	src := "addi a0, x0, 3\n" +
		"addi a1, x0, 4\n" +
		"add a2, a0, a1\n"
	c, f := buildAndRun(t, src)
	_ = c
	// node 0 is the synthetic program entry; node 3 is `add a2, a0, a1`.
	v, ok := f.RegValuesOut[3][isa.X12]
	require.True(t, ok)
	assert.Equal(t, dataflow.VConstant, v.Kind)
	assert.Equal(t, int32(7), v.Constant)
}

// spec.md §4.7: la rd, label -> Address(label).
func TestAvailableValueLoadAddress(t *testing.T) {
	src := "la a0, buf\n" +
		".data\n" +
		"buf:\n" +
		" .word 0\n"
	c, f := buildAndRun(t, src)
	_ = c
	// node 0 is the synthetic program entry; node 1 is `la a0, buf`.
	v, ok := f.RegValuesOut[1][isa.X10]
	require.True(t, ok)
	assert.Equal(t, dataflow.VAddress, v.Kind)
	assert.Equal(t, "buf", v.Label)
}

// spec.md §8: available-value pass convergence is monotone — the final
// out-map for a fixpoint-reached node does not change under a second
// forward pass.
func TestAvailableValuePassConverges(t *testing.T) {
	src := "main: addi a0, x0, 1\n" +
		" beq a0, x0, main\n" +
		" li a7, 10\n" +
		" ecall\n"
	c, f := buildAndRun(t, src)
	before := make([]dataflow.RegMap, len(c.Nodes))
	for i := range c.Nodes {
		before[i] = f.RegValuesOut[i]
	}
	f2 := dataflow.RunAll(c)
	for i := range c.Nodes {
		assert.Equal(t, len(before[i]), len(f2.RegValuesOut[i]), "node %d reg map size changed on rerun", i)
	}
}

// spec.md §8: gen(n) subset live_in(n) subset gen(n) union live_out(n).
func TestLivenessGenKillInvariant(t *testing.T) {
	src := "main: addi a0, x0, 1\n" +
		" addi a1, a0, 2\n" +
		" li a7, 10\n" +
		" ecall\n"
	c, f := buildAndRun(t, src)
	for i := 1; i < len(c.Nodes); i++ {
		rd, writes := c.Nodes[i].PNode.Writes()
		for _, r := range c.Nodes[i].PNode.Reads() {
			if r.IsZero() {
				continue
			}
			assert.True(t, f.LiveIn[i].Contains(r), "node %d should have %s live-in since it reads it", i, r.ABI())
		}
		if writes && !rd.IsZero() {
			// live_in \ gen should be a subset of (live_out \ kill);
			// equivalently every live_in register not read here must be
			// in live_out unless this node kills it.
			for _, r := range f.LiveIn[i].Registers() {
				readsR := false
				for _, rr := range c.Nodes[i].PNode.Reads() {
					if rr == r {
						readsR = true
					}
				}
				if readsR {
					continue
				}
				if r == rd {
					continue
				}
				assert.True(t, f.LiveOut[i].Contains(r), "node %d: live_in register %s neither read nor killed should stay live_out", i, r.ABI())
			}
		}
	}
}

// spec.md §8: u_def(entry) = empty; u_def(n) superset kill(n) elsewhere.
func TestUDefEntryIsEmptyAndGrowsMonotonically(t *testing.T) {
	src := "main: call f\n" +
		" li a7, 10\n" +
		" ecall\n" +
		"f: addi a0, x0, 1\n" +
		" addi a1, a0, 2\n" +
		" ret\n"
	c, f := buildAndRun(t, src)
	require.NotEmpty(t, c.Functions)
	entry := c.Functions[0].Entry
	assert.True(t, f.UDef[entry].Empty())
	for i := 1; i < len(c.Nodes); i++ {
		if c.Nodes[i].PNode.IsCall() {
			// A call's kill set is the caller-saved registers, not its link register.
			assert.True(t, regset.CallerSaved.Diff(f.UDef[i]).Empty(), "node %d should unconditionally define every caller-saved register", i)
			continue
		}
		rd, writes := c.Nodes[i].PNode.Writes()
		if writes && !rd.IsZero() {
			assert.True(t, f.UDef[i].Contains(rd), "node %d should unconditionally define its own write", i)
		}
	}
}

// spec.md §4.7: div/divu/rem/remu by zero follow RISC-V semantics rather
// than trapping.
func TestDivisionByZeroFollowsRiscVSemantics(t *testing.T) {
	src := "addi a0, x0, 7\n" +
		"addi a1, x0, 0\n" +
		"div a2, a0, a1\n" +
		"divu a3, a0, a1\n" +
		"rem a4, a0, a1\n"
	c, f := buildAndRun(t, src)
	_ = c
	// node 0 is the synthetic program entry; nodes 1-2 are the two addi
	// setup instructions, so div/divu/rem land at nodes 3/4/5.
	div, ok := f.RegValuesOut[3][isa.X12]
	require.True(t, ok)
	assert.Equal(t, int32(-1), div.Constant)

	divu, ok := f.RegValuesOut[4][isa.X13]
	require.True(t, ok)
	assert.Equal(t, int32(-1), divu.Constant)

	rem, ok := f.RegValuesOut[5][isa.X14]
	require.True(t, ok)
	assert.Equal(t, int32(7), rem.Constant)
}
