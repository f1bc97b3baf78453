// Package regset implements the 32-bit bitmap register set used by both
// the dataflow engine (live-in/live-out, unconditionally-defined sets)
// and the lint passes (callee-saved checks).
package regset

import (
	"math/bits"

	"github.com/viant/rvlint/isa"
)

// Set is a bitmap over the 32 integer registers, one bit per register
// number. The zero value is the empty set.
type Set uint32

// Of builds a Set from a list of registers.
func Of(regs ...isa.Register) Set {
	var s Set
	for _, r := range regs {
		s = s.With(r)
	}
	return s
}

// With returns a copy of s with r added.
func (s Set) With(r isa.Register) Set {
	return s | (1 << uint(r))
}

// Without returns a copy of s with r removed.
func (s Set) Without(r isa.Register) Set {
	return s &^ (1 << uint(r))
}

// Contains reports whether r is a member of s.
func (s Set) Contains(r isa.Register) bool {
	return s&(1<<uint(r)) != 0
}

// Union returns the set union of s and o.
func (s Set) Union(o Set) Set { return s | o }

// Intersect returns the set intersection of s and o.
func (s Set) Intersect(o Set) Set { return s & o }

// Diff returns the set difference s \ o.
func (s Set) Diff(o Set) Set { return s &^ o }

// Equal reports whether s and o contain exactly the same registers.
func (s Set) Equal(o Set) bool { return s == o }

// Empty reports whether s has no members.
func (s Set) Empty() bool { return s == 0 }

// Len returns the number of registers in s.
func (s Set) Len() int { return bits.OnesCount32(uint32(s)) }

// Registers returns the members of s in ascending register order.
func (s Set) Registers() []isa.Register {
	out := make([]isa.Register, 0, s.Len())
	for r := 0; r < 32; r++ {
		if s.Contains(isa.Register(r)) {
			out = append(out, isa.Register(r))
		}
	}
	return out
}

// Named register groups from spec.md §4.4.
var (
	Arguments = rangeSet(10, 17)
	Return    = rangeSet(10, 17)
	Temps     = rangeSet(5, 7).Union(rangeSet(28, 31))
	Saved     = rangeSet(8, 9).Union(rangeSet(18, 27))

	CallerSaved = Temps.Union(Arguments)
	CalleeSaved = Saved.Union(Of(isa.RA, isa.SP))

	EcallType = Of(isa.A7)
)

func rangeSet(lo, hi int) Set {
	var s Set
	for i := lo; i <= hi; i++ {
		s = s.With(isa.Register(i))
	}
	return s
}
