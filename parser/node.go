// Package parser turns the lexer's []lexer.Token into a flat sequence of
// ParserNodes: one value per logical instruction, pseudo-instruction
// expansion already applied. It is a single-pass, one-token-lookahead
// recursive-descent parser (spec.md §4.2).
package parser

import (
	"github.com/google/uuid"
	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/token"
)

// NodeID is a freshly-minted identity distinct from a Node's structural
// content — two Nodes can compare equal in every field yet have
// different NodeIDs (spec.md §3: "Each node owns a freshly-minted
// identity UUID distinct from equality-by-content").
type NodeID uuid.UUID

func newNodeID() NodeID { return NodeID(uuid.New()) }

func (id NodeID) String() string { return uuid.UUID(id).String() }

// Kind tags the variant a Node represents. Go has no sum types, so Kind
// plus a flat field set stands in for one; every consumer is expected to
// exhaustively switch on Kind (see cfg and dataflow packages) rather than
// type-assert.
type Kind int

const (
	KindProgramEntry Kind = iota
	KindFunctionEntry
	KindLabel
	KindArith    // R-type or I-type arithmetic: Rd, Rs1, [Rs2 | Imm]
	KindUpperImm // auipc: Rd, Imm (lui lowers to addi, see parser.go)
	KindLoad     // lw rd, Imm(Rs1)
	KindStore    // sw Rs2, Imm(Rs1)
	KindLoadAddr // la rd, label
	KindBranch   // beq rs1, rs2, label
	KindJump     // jal rd, label (rd==x0 for bare jumps)
	KindJumpReg  // jalr rd, rs1, imm (rd==x0, rs1==ra, imm==0 for ret)
	KindCsr      // csrrw/csrrs/csrrc[,i] rd, csr, (rs1 | imm)
	KindDirective
	KindBasic // ecall / ebreak / uret
)

// Node is one parsed logical statement. Fields not relevant to Kind are
// left at their zero value.
type Node struct {
	ID  NodeID
	Tok token.RawToken
	Kind

	// KindLabel
	Label string

	// KindFunctionEntry
	IsInterruptHandler bool

	Mnemonic isa.Mnemonic

	Rd, Rs1, Rs2 isa.Register
	Imm          isa.Immediate
	HasRs2       bool // true when an R-type form supplied rs2 instead of Imm

	// KindLoad / KindStore: Imm(Rs1)
	// KindBranch / KindJump / KindLoadAddr
	TargetLabel string

	// KindCsr
	Csr       isa.CsrImmediate
	CsrIsImm  bool // true: source operand is CsrSrcImm, false: CsrSrcReg
	CsrSrcReg isa.Register
	CsrSrcImm isa.Immediate

	// KindDirective
	Directive     isa.DirectiveKind
	DirectiveArgs []string

	// Synthetic marks nodes manufactured by pseudo-instruction lowering or
	// by later passes (e.g. the multi-return normalization jump in
	// cfg/function.go) rather than parsed directly from one token.
	Synthetic bool
}

func newNode(kind Kind, tok token.RawToken) Node {
	return Node{ID: newNodeID(), Tok: tok, Kind: kind}
}

// IsReturn reports whether n is the canonical `ret` expansion
// (jalr x0, ra, 0).
func (n Node) IsReturn() bool {
	return n.Kind == KindJumpReg && n.Rd == isa.X0 && n.Rs1 == isa.RA && n.Imm == 0
}

// IsCall reports whether n is a `jal` with a non-zero link register,
// i.e. a function call rather than a bare jump.
func (n Node) IsCall() bool {
	return n.Kind == KindJump && n.Rd != isa.X0
}

// IsUnconditionalJump reports whether n is a bare jump (j, or jr/jalr
// with rd x0 other than ret). The CFG builder does not call it; it picks
// fallthrough edges by Kind directly.
func (n Node) IsUnconditionalJump() bool {
	return (n.Kind == KindJump && n.Rd == isa.X0) ||
		(n.Kind == KindJumpReg && n.Rd == isa.X0 && !n.IsReturn())
}

// Writes reports the register n unconditionally writes, if any.
func (n Node) Writes() (isa.Register, bool) {
	switch n.Kind {
	case KindArith, KindUpperImm, KindLoad, KindLoadAddr, KindJump, KindJumpReg, KindCsr:
		return n.Rd, true
	}
	return 0, false
}

// Reads reports the registers n reads as sources (not including any
// implicit liveness from calls/ecalls, which the dataflow engine handles
// separately).
func (n Node) Reads() []isa.Register {
	switch n.Kind {
	case KindArith:
		if n.HasRs2 {
			return []isa.Register{n.Rs1, n.Rs2}
		}
		return []isa.Register{n.Rs1}
	case KindLoad:
		return []isa.Register{n.Rs1}
	case KindStore:
		return []isa.Register{n.Rs1, n.Rs2}
	case KindBranch:
		return []isa.Register{n.Rs1, n.Rs2}
	case KindJumpReg:
		return []isa.Register{n.Rs1}
	case KindCsr:
		if !n.CsrIsImm {
			return []isa.Register{n.CsrSrcReg}
		}
	}
	return nil
}
