package isa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/rvlint/isa"
)

func TestEcallKnownSelectorSignature(t *testing.T) {
	sig, ok := isa.Ecall(4)
	require.True(t, ok)
	assert.Equal(t, "print_string", sig.Name)
	assert.Equal(t, []isa.Register{isa.X10}, sig.Args)
	assert.False(t, sig.Terminates)
}

func TestEcallUnknownSelector(t *testing.T) {
	_, ok := isa.Ecall(999)
	assert.False(t, ok)
}

func TestIsTerminatingSelector(t *testing.T) {
	assert.True(t, isa.IsTerminatingSelector(10))
	assert.True(t, isa.IsTerminatingSelector(93))
	assert.False(t, isa.IsTerminatingSelector(4))
}

func TestExitSelectorsHaveNoArgsOrReturns(t *testing.T) {
	for _, selector := range []int{10, 93} {
		sig, ok := isa.Ecall(selector)
		require.True(t, ok)
		assert.Empty(t, sig.Args)
		assert.Empty(t, sig.Returns)
		assert.True(t, sig.Terminates)
	}
}
