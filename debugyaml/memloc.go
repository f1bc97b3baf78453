package debugyaml

import "fmt"

// Memory locations serialize as one of three string shapes (spec.md §6
// Persisted state layout): `so±N` for a stack slot at offset N from the
// function-entry stack pointer, `csr+N` for a CSR tracked as "its
// original value plus N", and `csro+N+K` for a CSR-relative memory
// access (the CSR's original value plus N, then offset by K). Only
// `so±N` has a live producer today — StackMap keys are exactly these
// offsets; the CSR forms describe a lattice extension (symbolic CSR
// values) this analyzer's dataflow pass does not yet compute, since
// every KindCsr node's destination is transferred as unknown (spec.md
// §4.7 names no CSR transfer function). They are implemented here so the
// format is exercised in both directions and ready for that extension.

// EncodeStackOffset renders a stack-slot key as `so±N`.
func EncodeStackOffset(n int32) string {
	if n < 0 {
		return fmt.Sprintf("so-%d", -n)
	}
	return fmt.Sprintf("so+%d", n)
}

// DecodeStackOffset parses a `so±N` string back into its offset.
func DecodeStackOffset(s string) (int32, bool) {
	if len(s) < 4 || s[:2] != "so" {
		return 0, false
	}
	return parseSigned(s[2:])
}

// EncodeCsr renders a CSR-relative-to-original value as `csr+N`.
func EncodeCsr(n int32) string {
	return "csr" + signed(n)
}

// DecodeCsr parses a `csr+N` string back into its offset.
func DecodeCsr(s string) (int32, bool) {
	if len(s) < 5 || s[:3] != "csr" {
		return 0, false
	}
	return parseSigned(s[3:])
}

// EncodeCsrOffset renders a CSR-relative memory access as `csro+N+K`.
func EncodeCsrOffset(n, k int32) string {
	return "csro" + signed(n) + signed(k)
}

// DecodeCsrOffset parses a `csro+N+K` string back into its two offsets.
func DecodeCsrOffset(s string) (n int32, k int32, ok bool) {
	if len(s) < 7 || s[:4] != "csro" {
		return 0, 0, false
	}
	rest := s[4:]
	split := -1
	for i := 1; i < len(rest); i++ {
		if rest[i] == '+' || rest[i] == '-' {
			split = i
			break
		}
	}
	if split < 0 {
		return 0, 0, false
	}
	n, ok1 := parseSigned(rest[:split])
	k, ok2 := parseSigned(rest[split:])
	return n, k, ok1 && ok2
}

func signed(n int32) string {
	if n < 0 {
		return fmt.Sprintf("-%d", -n)
	}
	return fmt.Sprintf("+%d", n)
}

func parseSigned(s string) (int32, bool) {
	if len(s) < 2 {
		return 0, false
	}
	neg := false
	switch s[0] {
	case '+':
	case '-':
		neg = true
	default:
		return 0, false
	}
	var v int32
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int32(c-'0')
	}
	if neg {
		v = -v
	}
	return v, true
}
