// Package lint reads the fixed-point facts the dataflow package computed
// and turns them into diagnostics (spec.md §4.10, Component 10). Every
// pass here is a pure function of a built, annotated cfg.CFG plus its
// dataflow.Facts; none mutates either.
package lint

import (
	"sort"

	"github.com/viant/rvlint/token"
)

// Severity classifies how serious a Diagnostic is (spec.md §7).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Code is the stable, kebab-case identifier for a diagnostic kind, printed
// by the CLI and used by test assertions (spec.md §8's
// literal names such as "save-to-zero", "invalid-use-after-call").
type Code string

const (
	CodeSaveToZero                 Code = "save-to-zero"
	CodeDeadAssignment             Code = "dead-assignment"
	CodeUnreachableCode            Code = "unreachable-code"
	CodeFirstInstructionIsFunction Code = "first-instruction-is-function"
	CodeInvalidJumpToFunction      Code = "invalid-jump-to-function"
	CodeNodeInManyFunctions        Code = "node-in-many-functions"
	CodeInvalidUseBeforeAssignment Code = "invalid-use-before-assignment"
	CodeOverwriteCalleeSaved       Code = "overwrite-callee-saved-register"
	CodeLostRegisterValue          Code = "lost-register-value"
	CodeUnknownStack               Code = "unknown-stack"
	CodeInvalidStackPointer        Code = "invalid-stack-pointer"
	CodeInvalidStackPosition       Code = "invalid-stack-position"
	CodeUnknownEcall               Code = "unknown-ecall"
	CodeInvalidUseAfterCall        Code = "invalid-use-after-call"
)

// warningCodes are emitted at SeverityWarning; every other Code is an
// error (spec.md §7 tier 3).
var warningCodes = map[Code]bool{
	CodeSaveToZero:                 true,
	CodeDeadAssignment:             true,
	CodeUnreachableCode:            true,
	CodeFirstInstructionIsFunction: true,
	CodeInvalidJumpToFunction:      true,
	CodeLostRegisterValue:          true,
	CodeNodeInManyFunctions:        true,
}

func severityFor(c Code) Severity {
	if warningCodes[c] {
		return SeverityWarning
	}
	return SeverityError
}

// Related points a Diagnostic at a second location relevant to
// understanding it (e.g. the call site for an InvalidUseAfterCall).
type Related struct {
	File    token.FileID
	Range   token.Range
	Message string
}

// Diagnostic is the unit every lint pass, and the CFG/parse error tiers
// above it, is surfaced as (spec.md §7).
type Diagnostic struct {
	Code        Code
	Severity    Severity
	File        token.FileID
	Range       token.Range
	Title       string
	Description string
	LongDesc    string
	Related     []Related
}

func newDiag(code Code, file token.FileID, rng token.Range, title, desc string) Diagnostic {
	return Diagnostic{
		Code: code, Severity: severityFor(code), File: file, Range: rng,
		Title: title, Description: desc,
	}
}

// Sort orders diagnostics by (file, start line, start column) as spec.md
// §5/§8 require for stable output.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File.String() < b.File.String()
		}
		return a.Range.Less(b.Range)
	})
}
