package regset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/regset"
)

func TestWithWithoutContains(t *testing.T) {
	var s regset.Set
	s = s.With(isa.X10)
	assert.True(t, s.Contains(isa.X10))
	assert.False(t, s.Contains(isa.X11))
	s = s.Without(isa.X10)
	assert.False(t, s.Contains(isa.X10))
}

func TestUnionIntersectDiff(t *testing.T) {
	a := regset.Of(isa.X10, isa.X11, isa.X12)
	b := regset.Of(isa.X11, isa.X12, isa.X13)

	assert.Equal(t, regset.Of(isa.X10, isa.X11, isa.X12, isa.X13), a.Union(b))
	assert.Equal(t, regset.Of(isa.X11, isa.X12), a.Intersect(b))
	assert.Equal(t, regset.Of(isa.X10), a.Diff(b))
}

func TestRegistersIterateInAscendingOrder(t *testing.T) {
	s := regset.Of(isa.X17, isa.X5, isa.X0)
	assert.Equal(t, []isa.Register{isa.X0, isa.X5, isa.X17}, s.Registers())
}

func TestEmptyAndLen(t *testing.T) {
	var s regset.Set
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Len())

	s = s.With(isa.X1).With(isa.X2)
	assert.False(t, s.Empty())
	assert.Equal(t, 2, s.Len())
}

// spec.md §4.4's named groups.
func TestNamedRegisterGroups(t *testing.T) {
	assert.True(t, regset.Arguments.Contains(isa.X10))
	assert.True(t, regset.Arguments.Contains(isa.X17))
	assert.False(t, regset.Arguments.Contains(isa.X5))

	assert.True(t, regset.Temps.Contains(isa.X5))
	assert.True(t, regset.Temps.Contains(isa.X28))
	assert.False(t, regset.Temps.Contains(isa.X8))

	assert.True(t, regset.Saved.Contains(isa.X8))
	assert.True(t, regset.Saved.Contains(isa.X18))
	assert.False(t, regset.Saved.Contains(isa.RA))

	assert.True(t, regset.CallerSaved.Equal(regset.Temps.Union(regset.Arguments)))
	assert.True(t, regset.CalleeSaved.Contains(isa.RA))
	assert.True(t, regset.CalleeSaved.Contains(isa.SP))
	assert.True(t, regset.CalleeSaved.Contains(isa.X9))

	assert.True(t, regset.EcallType.Contains(isa.A7))
	assert.Equal(t, 1, regset.EcallType.Len())
}

func TestCallerAndCalleeSavedArePartitionedCorrectly(t *testing.T) {
	// Every register except x0 is either caller-saved, callee-saved, or
	// neither (gp/tp), but never both.
	overlap := regset.CallerSaved.Intersect(regset.CalleeSaved)
	assert.True(t, overlap.Empty())
}
