package isa

import "strconv"

// CsrImmediate is a 12-bit (stored as 32-bit unsigned) CSR number.
type CsrImmediate uint32

// csrNames maps the symbolic spellings recognized by the assembler to
// their numeric CSR address. Listed in address order by group (user
// status/trap, then counters), with the *Low aliases last.
var csrNames = map[string]CsrImmediate{
	"ustatus":   0x000,
	"uie":       0x004,
	"utvec":     0x005,
	"uscratch":  0x040,
	"uepc":      0x041,
	"ucause":    0x042,
	"utval":     0x043,
	"uip":       0x044,
	"cycle":     0xC00,
	"time":      0xC01,
	"instret":   0xC02,
	"cycleh":    0xC80,
	"timeh":     0xC81,
	"instreth":  0xC82,
	"cycleLow":  0xC00,
	"timeLow":   0xC01,
	"instretLow": 0xC02,
}

// csrCanonical lists one canonical spelling per CSR number in a fixed
// order; Name returns the first entry whose number matches, so
// diagnostics are stable. The *Low aliases are not listed.
var csrCanonical = []string{
	"ustatus", "uie", "utvec", "uscratch", "uepc", "ucause", "utval", "uip",
	"cycle", "time", "instret", "cycleh", "timeh", "instreth",
}

// CSRNames returns the canonical CSR spellings, in the same fixed order
// as csrCanonical, for the LSP completion-item surface (SPEC_FULL.md
// supplemented feature #2). The cycleLow/timeLow/instretLow aliases that
// ParseCSR also accepts are not included.
func CSRNames() []string {
	out := make([]string, len(csrCanonical))
	copy(out, csrCanonical)
	return out
}

// ParseCSR resolves a symbolic CSR name or a literal immediate (decimal
// or 0x-hex) into a CsrImmediate.
func ParseCSR(s string) (CsrImmediate, bool) {
	if n, ok := csrNames[s]; ok {
		return n, true
	}
	if v, err := ParseImmediate(s); err == nil {
		return CsrImmediate(uint32(v)), true
	}
	return 0, false
}

// Name returns the canonical symbolic spelling for a CSR number, or the
// numeric spelling if none is known.
func (c CsrImmediate) Name() string {
	for _, name := range csrCanonical {
		if csrNames[name] == c {
			return name
		}
	}
	return "0x" + strconv.FormatUint(uint64(c), 16)
}

// UTVEC is the interrupt-vector CSR the CFG builder watches writes to in
// order to discover interrupt handler labels (spec.md §4.3 step 6).
const UTVEC = CsrImmediate(0x005)
