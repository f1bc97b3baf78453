package isa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/rvlint/isa"
)

func TestCanonicalizeLowercasesMnemonic(t *testing.T) {
	assert.Equal(t, isa.ADD, isa.Canonicalize("ADD"))
	assert.Equal(t, isa.PMv, isa.Canonicalize("Mv"))
}

func TestIsPseudoDistinguishesRealFromPseudo(t *testing.T) {
	assert.True(t, isa.IsPseudo(isa.PLi))
	assert.True(t, isa.IsPseudo(isa.PRet))
	assert.False(t, isa.IsPseudo(isa.ADD))
	assert.False(t, isa.IsPseudo(isa.ECALL))
}

func TestAllMnemonicsIncludesRealAndPseudo(t *testing.T) {
	all := isa.AllMnemonics()
	assert.Contains(t, all, isa.ADD)
	assert.Contains(t, all, isa.PLi)
	assert.Contains(t, all, isa.PRet)
}
