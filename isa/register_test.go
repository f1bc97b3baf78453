package isa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/rvlint/isa"
)

func TestRegisterABINames(t *testing.T) {
	assert.Equal(t, "zero", isa.X0.ABI())
	assert.Equal(t, "ra", isa.X1.ABI())
	assert.Equal(t, "sp", isa.X2.ABI())
	assert.Equal(t, "a0", isa.X10.ABI())
	assert.Equal(t, "a7", isa.X17.ABI())
	assert.Equal(t, "t6", isa.X31.ABI())
}

func TestParseRegisterNumericAndABI(t *testing.T) {
	r, ok := isa.ParseRegister("x10")
	assert.True(t, ok)
	assert.Equal(t, isa.X10, r)

	r, ok = isa.ParseRegister("a0")
	assert.True(t, ok)
	assert.Equal(t, isa.X10, r)

	r, ok = isa.ParseRegister("sp")
	assert.True(t, ok)
	assert.Equal(t, isa.X2, r)
}

func TestParseRegisterAcceptsFpAliasForS0(t *testing.T) {
	r, ok := isa.ParseRegister("fp")
	assert.True(t, ok)
	assert.Equal(t, isa.X8, r)
}

func TestParseRegisterRejectsUnknown(t *testing.T) {
	_, ok := isa.ParseRegister("notareg")
	assert.False(t, ok)

	_, ok = isa.ParseRegister("x32")
	assert.False(t, ok)

	_, ok = isa.ParseRegister("")
	assert.False(t, ok)
}

func TestWellKnownRegisterConstants(t *testing.T) {
	assert.True(t, isa.Zero.IsZero())
	assert.Equal(t, isa.X0, isa.Zero)
	assert.Equal(t, isa.X1, isa.RA)
	assert.Equal(t, isa.X2, isa.SP)
	assert.Equal(t, isa.X17, isa.A7)
}

func TestAllRegistersCoversX0ThroughX31(t *testing.T) {
	all := isa.AllRegisters()
	assert.Len(t, all, 32)
	assert.Equal(t, isa.X0, all[0])
	assert.Equal(t, isa.X31, all[31])
}
