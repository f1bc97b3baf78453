// Package dataflow runs the three fixed-point passes over a built cfg.CFG:
// available-value (forward), liveness (backward), and unconditional-definition
// (forward). Facts live in parallel arrays indexed by cfg node index rather
// than on cfg.Node itself, so this package can import cfg without cfg ever
// importing it back (spec.md §3 "interior-mutable fact cells", reformulated
// as the arena's fact-store half).
package dataflow

import (
	"fmt"

	"github.com/viant/rvlint/isa"
)

// ValueKind tags an AvailableValue variant (spec.md §3 Symbolic values).
type ValueKind int

const (
	VConstant ValueKind = iota
	VAddress
	VOriginalRegisterWithScalar
	VRegisterWithScalar
	VMemoryAtRegister
	VMemoryAtOriginalOffset
)

// AvailableValue is the available-value lattice's element type: a tagged
// variant, Go idiom for the sum type the source expresses as an enum.
type AvailableValue struct {
	Kind ValueKind

	Constant int32

	Label string // VAddress

	Reg    isa.Register // VOriginalRegisterWithScalar, VRegisterWithScalar, VMemoryAtRegister, VMemoryAtOriginalOffset
	Scalar int32        // VOriginalRegisterWithScalar, VRegisterWithScalar
	Offset int32        // VMemoryAtRegister, VMemoryAtOriginalOffset
}

func VConst(v int32) AvailableValue { return AvailableValue{Kind: VConstant, Constant: v} }

func VAddr(label string) AvailableValue { return AvailableValue{Kind: VAddress, Label: label} }

func VOriginal(r isa.Register, k int32) AvailableValue {
	return AvailableValue{Kind: VOriginalRegisterWithScalar, Reg: r, Scalar: k}
}

func VReg(r isa.Register, k int32) AvailableValue {
	return AvailableValue{Kind: VRegisterWithScalar, Reg: r, Scalar: k}
}

func VMemAtReg(r isa.Register, off int32) AvailableValue {
	return AvailableValue{Kind: VMemoryAtRegister, Reg: r, Offset: off}
}

func VMemAtOriginalOffset(r isa.Register, off int32) AvailableValue {
	return AvailableValue{Kind: VMemoryAtOriginalOffset, Reg: r, Offset: off}
}

// IsOriginal reports whether v is exactly "register r's value at function
// entry plus zero", the value a never-touched callee-saved register holds.
func (v AvailableValue) IsOriginal(r isa.Register) bool {
	return v.Kind == VOriginalRegisterWithScalar && v.Reg == r && v.Scalar == 0
}

func (v AvailableValue) String() string {
	switch v.Kind {
	case VConstant:
		return fmt.Sprintf("const(%d)", v.Constant)
	case VAddress:
		return fmt.Sprintf("addr(%s)", v.Label)
	case VOriginalRegisterWithScalar:
		return fmt.Sprintf("orig(%s+%d)", v.Reg, v.Scalar)
	case VRegisterWithScalar:
		return fmt.Sprintf("reg(%s+%d)", v.Reg, v.Scalar)
	case VMemoryAtRegister:
		return fmt.Sprintf("mem(%s+%d)", v.Reg, v.Offset)
	case VMemoryAtOriginalOffset:
		return fmt.Sprintf("mem(orig(%s)+%d)", v.Reg, v.Offset)
	default:
		return "?"
	}
}

// RegMap is the register half of the available-value lattice: missing keys
// mean "unknown" (lattice top).
type RegMap map[isa.Register]AvailableValue

func (m RegMap) clone() RegMap {
	out := make(RegMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Equal reports whether m and o agree on every key (used by the fixpoint
// loop to detect convergence).
func (m RegMap) Equal(o RegMap) bool {
	if len(m) != len(o) {
		return false
	}
	for k, v := range m {
		if ov, ok := o[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// meetRegMaps intersects every map in ins point-wise: a key survives only
// if every predecessor agrees on the exact same value (spec.md §4.7).
func meetRegMaps(ins []RegMap) RegMap {
	if len(ins) == 0 {
		return RegMap{}
	}
	out := ins[0].clone()
	for _, other := range ins[1:] {
		for k, v := range out {
			if ov, ok := other[k]; !ok || ov != v {
				delete(out, k)
			}
		}
	}
	return out
}

// StackMap is the stack half of the lattice: offsets relative to the stack
// pointer at function entry.
type StackMap map[int32]AvailableValue

func (m StackMap) clone() StackMap {
	out := make(StackMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m StackMap) Equal(o StackMap) bool {
	if len(m) != len(o) {
		return false
	}
	for k, v := range m {
		if ov, ok := o[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func meetStackMaps(ins []StackMap) StackMap {
	if len(ins) == 0 {
		return StackMap{}
	}
	out := ins[0].clone()
	for _, other := range ins[1:] {
		for k, v := range out {
			if ov, ok := other[k]; !ok || ov != v {
				delete(out, k)
			}
		}
	}
	return out
}
