package dataflow

import (
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/parser"
	"github.com/viant/rvlint/regset"
)

const maxFixpointIterations = 10000

// RunAvailableValues runs the forward available-value pass (spec.md §4.7)
// to a fixpoint over c, writing into f. Must run after cfg.AnnotateFunctions
// so function entries and exits are known.
func RunAvailableValues(c *cfg.CFG, f *Facts) {
	order := c.SourceOrder()
	// The synthetic program entry (node 0) is not in order; it starts from
	// the same initial conditions as a function entry.
	f.RegValuesIn[0], f.StackValuesIn[0] = entryValues()
	f.RegValuesOut[0], f.StackValuesOut[0] = entryValues()
	for iter := 0; iter < maxFixpointIterations; iter++ {
		changed := false
		for _, i := range order {
			n := c.Nodes[i]

			var regIn RegMap
			var stackIn StackMap
			if n.IsFunctionEntry() {
				regIn, stackIn = entryValues()
			} else {
				regIn = meetRegMaps(collectRegOuts(c, f, n.Prevs))
				stackIn = meetStackMaps(collectStackOuts(c, f, n.Prevs))
			}

			regOut, stackOut := transferAvailable(c, f, i, n, regIn, stackIn)

			if !f.RegValuesIn[i].Equal(regIn) || !f.RegValuesOut[i].Equal(regOut) ||
				!f.StackValuesIn[i].Equal(stackIn) || !f.StackValuesOut[i].Equal(stackOut) {
				changed = true
			}
			f.RegValuesIn[i] = regIn
			f.RegValuesOut[i] = regOut
			f.StackValuesIn[i] = stackIn
			f.StackValuesOut[i] = stackOut
		}
		if !changed {
			return
		}
	}
}

// entryValues are the initial conditions at a function entry (spec.md
// §4.7), also used for the program entry: every register holds its own
// original value, the stack map is empty.
func entryValues() (RegMap, StackMap) {
	m := make(RegMap, 32)
	for _, r := range isa.AllRegisters() {
		m[r] = VOriginal(r, 0)
	}
	return m, StackMap{}
}

func collectRegOuts(c *cfg.CFG, f *Facts, idxs []int) []RegMap {
	out := make([]RegMap, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, f.RegValuesOut[i])
	}
	return out
}

func collectStackOuts(c *cfg.CFG, f *Facts, idxs []int) []StackMap {
	out := make([]StackMap, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, f.StackValuesOut[i])
	}
	return out
}

// spOffset reads the current stack-pointer-relative-to-entry offset out
// of in, if known.
func spOffset(in RegMap) (int32, bool) {
	v, ok := in[isa.SP]
	if !ok || v.Kind != VOriginalRegisterWithScalar || v.Reg != isa.SP {
		return 0, false
	}
	return v.Scalar, true
}

func constOf(in RegMap, r isa.Register) (int32, bool) {
	return ConstOf(in, r)
}

// ConstOf reads the constant value register r holds in in, if any,
// exported for lint passes (Ecall, terminate-selector checks elsewhere)
// that need to resolve a register to a known constant outside this
// package's own transfer functions.
func ConstOf(in RegMap, r isa.Register) (int32, bool) {
	if r.IsZero() {
		return 0, true
	}
	v, ok := in[r]
	if !ok || v.Kind != VConstant {
		return 0, false
	}
	return v.Constant, true
}

func transferAvailable(c *cfg.CFG, f *Facts, i int, n *cfg.Node, regIn RegMap, stackIn StackMap) (RegMap, StackMap) {
	p := n.PNode
	regOut := regIn.clone()
	stackOut := stackIn.clone()

	switch p.Kind {
	case parser.KindArith:
		v, ok := evalArith(p, regIn)
		if !p.Rd.IsZero() {
			if sp, spOK := spDelta(p, regIn); spOK && p.Rd == isa.SP {
				regOut[p.Rd] = VOriginal(isa.SP, sp)
			} else if ok {
				regOut[p.Rd] = v
			} else {
				delete(regOut, p.Rd)
			}
		}

	case parser.KindUpperImm:
		// auipc's value depends on the program counter, which this model
		// never tracks; its destination is always unknown.
		if !p.Rd.IsZero() {
			delete(regOut, p.Rd)
		}

	case parser.KindLoadAddr:
		if !p.Rd.IsZero() {
			regOut[p.Rd] = VAddr(p.TargetLabel)
		}

	case parser.KindLoad:
		if !p.Rd.IsZero() {
			if p.Rs1 == isa.SP {
				if off, ok := spOffset(regIn); ok {
					if v, ok := stackIn[off+int32(p.Imm)]; ok {
						regOut[p.Rd] = v
						break
					}
				}
			}
			regOut[p.Rd] = VMemAtReg(p.Rs1, int32(p.Imm))
		}

	case parser.KindStore:
		if p.Rs1 == isa.SP {
			if off, ok := spOffset(regIn); ok {
				stackOut[off+int32(p.Imm)] = VReg(p.Rs2, 0)
			}
		}

	case parser.KindCsr:
		if !p.Rd.IsZero() {
			delete(regOut, p.Rd)
		}

	case parser.KindJump:
		if p.IsCall() {
			regOut, stackOut = transferCall(c, f, regIn, stackIn, p.TargetLabel)
		}
		// bare jumps carry register state through unchanged

	case parser.KindJumpReg:
		// ret/jr have Rd==x0; a computed jalr with a real destination
		// register writes an unknowable return address.
		if !p.Rd.IsZero() {
			delete(regOut, p.Rd)
		}

	case parser.KindBasic:
		if p.Mnemonic == isa.ECALL {
			if selector, ok := constOf(regIn, isa.A7); ok {
				if sig, known := isa.Ecall(int(selector)); known {
					for _, r := range sig.Returns {
						delete(regOut, r)
					}
				}
			}
		}
	}

	return regOut, stackOut
}

// spDelta reports the new sp-relative-to-entry offset, if p is an
// addi/add/sub on the stack pointer with a statically known delta
// (spec.md §4.7 "addi/add/sub on the stack pointer...").
func spDelta(p parser.Node, regIn RegMap) (int32, bool) {
	if p.Rd != isa.SP || p.Rs1 != isa.SP {
		return 0, false
	}
	base, ok := spOffset(regIn)
	if !ok {
		return 0, false
	}
	switch p.Mnemonic {
	case isa.ADDI:
		return base + int32(p.Imm), true
	case isa.ADD:
		if p.HasRs2 {
			if k, ok := constOf(regIn, p.Rs2); ok {
				return base + k, true
			}
		}
	case isa.SUB:
		if p.HasRs2 {
			if k, ok := constOf(regIn, p.Rs2); ok {
				return base - k, true
			}
		}
	}
	return 0, false
}

// evalArith implements the spec.md §4.7 transfer-function table for
// KindArith nodes: constant folding, x0-operand special cases, and
// full evaluation when both operands are known constants.
func evalArith(p parser.Node, regIn RegMap) (AvailableValue, bool) {
	if p.Rs1.IsZero() && !p.HasRs2 {
		switch p.Mnemonic {
		case isa.ADDI:
			return VConst(int32(p.Imm)), true
		case isa.ANDI, isa.SLLI, isa.SRLI, isa.SRAI:
			return VConst(0), true
		}
	}
	if p.HasRs2 && p.Rs1.IsZero() && p.Rs2.IsZero() {
		switch p.Mnemonic {
		case isa.ADD, isa.SUB, isa.XOR, isa.OR, isa.AND, isa.SLL, isa.SRL, isa.SRA,
			isa.SLT, isa.SLTU, isa.MUL, isa.MULH, isa.MULHSU, isa.MULHU:
			return VConst(0), true
		}
	}

	a, aOK := constOf(regIn, p.Rs1)
	if !aOK {
		return AvailableValue{}, false
	}
	var b int32
	if p.HasRs2 {
		v, ok := constOf(regIn, p.Rs2)
		if !ok {
			return AvailableValue{}, false
		}
		b = v
	} else {
		b = int32(p.Imm)
	}

	switch p.Mnemonic {
	case isa.ADD, isa.ADDI:
		return VConst(a + b), true
	case isa.SUB:
		return VConst(a - b), true
	case isa.XOR, isa.XORI:
		return VConst(a ^ b), true
	case isa.OR, isa.ORI:
		return VConst(a | b), true
	case isa.AND, isa.ANDI:
		return VConst(a & b), true
	case isa.SLL, isa.SLLI:
		return VConst(a << (uint32(b) & 31)), true
	case isa.SRL, isa.SRLI:
		return VConst(int32(uint32(a) >> (uint32(b) & 31))), true
	case isa.SRA, isa.SRAI:
		return VConst(a >> (uint32(b) & 31)), true
	case isa.SLT, isa.SLTI:
		return VConst(boolToInt32(a < b)), true
	case isa.SLTU, isa.SLTIU:
		return VConst(boolToInt32(uint32(a) < uint32(b))), true
	case isa.MUL:
		return VConst(a * b), true
	case isa.MULH:
		return VConst(int32((int64(a) * int64(b)) >> 32)), true
	case isa.MULHU:
		return VConst(int32((uint64(uint32(a)) * uint64(uint32(b))) >> 32)), true
	case isa.MULHSU:
		// Open question in spec.md DESIGN NOTES, resolved: high 32 bits of
		// signed x unsigned, sign-extended to width.
		return VConst(int32((int64(a) * int64(uint32(b))) >> 32)), true
	case isa.DIV:
		if b == 0 {
			return VConst(-1), true
		}
		return VConst(a / b), true
	case isa.DIVU:
		if b == 0 {
			return VConst(-1), true // 2^32-1 as i32
		}
		return VConst(int32(uint32(a) / uint32(b))), true
	case isa.REM:
		if b == 0 {
			return VConst(a), true
		}
		return VConst(a % b), true
	case isa.REMU:
		if b == 0 {
			return VConst(a), true
		}
		return VConst(int32(uint32(a) % uint32(b))), true
	}
	return AvailableValue{}, false
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// transferCall implements the call transfer function (spec.md §4.7):
// every caller-saved register is removed except those the callee
// reveals as defined with a known value at its exit; the stack pointer
// is preserved.
func transferCall(c *cfg.CFG, f *Facts, regIn RegMap, stackIn StackMap, target string) (RegMap, StackMap) {
	out := regIn.clone()
	fnIdx, ok := c.FunctionByLabel[target]
	var calleeExit RegMap
	if ok {
		calleeExit = f.RegValuesOut[c.Functions[fnIdx].Exit]
	}
	for _, r := range regset.CallerSaved.Registers() {
		if r == isa.SP {
			continue
		}
		if calleeExit != nil {
			if v, ok := calleeExit[r]; ok {
				out[r] = v
				continue
			}
		}
		delete(out, r)
	}
	return out, stackIn.clone()
}
