// Package lsp is the documented contract for the language-server surface
// named in spec.md §6. The JSON-RPC transport itself is explicitly out of
// scope (spec.md §1): this package exposes the two pure functions a
// transport adapter would call, mirroring how `inspector.Inspector`
// (inspector/inspector.go in the teacher) is a transport-free contract
// that some outer server wires up to actual requests.
package lsp

import (
	"context"

	"github.com/viant/rvlint/analysis"
	"github.com/viant/rvlint/isa"
	"github.com/viant/rvlint/lint"
	"github.com/viant/rvlint/parser"
	"github.com/viant/rvlint/token"
)

// Document is one open editor buffer, keyed by its URI.
type Document struct {
	URI  string
	Text string
}

// Severity mirrors spec.md §6's four-level diagnostic severity. It has
// the same four levels as lint.Severity but is its own type, since the
// LSP surface is allowed to diverge from the core's own vocabulary.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
	SeverityHint
)

func fromLintSeverity(s lint.Severity) Severity {
	switch s {
	case lint.SeverityWarning:
		return SeverityWarning
	case lint.SeverityInformation:
		return SeverityInformation
	case lint.SeverityHint:
		return SeverityHint
	default:
		return SeverityError
	}
}

// Position is the 0-indexed line/column pair spec.md §6 specifies for
// the LSP surface (distinct from token.Position, which also carries a
// byte offset the wire format does not need).
type Position struct {
	Line   int
	Column int
}

// Range is a start/end Position pair.
type Range struct {
	Start Position
	End   Position
}

func fromTokenRange(r token.Range) Range {
	return Range{
		Start: Position{Line: r.Start.Line, Column: r.Start.Column},
		End:   Position{Line: r.End.Line, Column: r.End.Column},
	}
}

// RelatedItem points a Diagnostic at a second, related location, e.g. the
// call site for an invalid-use-after-call diagnostic.
type RelatedItem struct {
	URI     string
	Range   Range
	Message string
}

// Diagnostic is one finding surfaced to an editor, per spec.md §6's
// field list.
type Diagnostic struct {
	Severity    Severity
	Range       Range
	Title       string
	Description string
	LongDesc    string
	Related     []RelatedItem
}

// DocumentDiagnostics pairs one input Document's URI with the
// diagnostics found in it.
type DocumentDiagnostics struct {
	URI         string
	Diagnostics []Diagnostic
}

// GetDiagnostics analyzes each document independently (spec.md §5: "one
// per open editor document... independent and can run on separate OS
// threads without coordination"). Each document is its own root file for
// a fresh in-memory FileReader, so `.include` directives resolve against
// the set of documents currently open rather than the real filesystem —
// the editor frontend is expected to keep `documents` in sync with every
// buffer that might be `.include`d.
func GetDiagnostics(documents []Document) []DocumentDiagnostics {
	files := make(map[string]string, len(documents))
	for _, d := range documents {
		files[d.URI] = d.Text
	}

	out := make([]DocumentDiagnostics, 0, len(documents))
	for _, d := range documents {
		reader := parser.NewMemoryReader(files)
		engine := analysis.New(context.Background(), analysis.WithFileReader(reader))
		result, _ := engine.Analyze(context.Background(), d.URI)

		dd := DocumentDiagnostics{URI: d.URI}
		if result != nil {
			for _, diag := range result.Diagnostics {
				dd.Diagnostics = append(dd.Diagnostics, toLSPDiagnostic(diag, reader, d.URI))
			}
		}
		out = append(out, dd)
	}
	return out
}

func toLSPDiagnostic(d lint.Diagnostic, reader parser.FileReader, fallbackURI string) Diagnostic {
	out := Diagnostic{
		Severity:    fromLintSeverity(d.Severity),
		Range:       fromTokenRange(d.Range),
		Title:       d.Title,
		Description: d.Description,
		LongDesc:    d.LongDesc,
	}
	for _, rel := range d.Related {
		uri := fallbackURI
		if reader != nil {
			if name, ok := reader.Filename(rel.File); ok {
				uri = name
			}
		}
		out.Related = append(out.Related, RelatedItem{
			URI:     uri,
			Range:   fromTokenRange(rel.Range),
			Message: rel.Message,
		})
	}
	return out
}

// CompletionItemKind roughly follows the LSP spec's own completion kinds
// (Keyword for mnemonics, Variable for registers, Property for CSRs) —
// spec.md §6/SPEC_FULL.md's supplemented-feature #2 only asks for a
// static list, not a wire-protocol-exact enum, so this is kept small.
type CompletionItemKind int

const (
	KindKeyword CompletionItemKind = iota
	KindVariable
	KindProperty
)

// CompletionItem is one entry in the static completion list spec.md
// §6's second LSP function returns.
type CompletionItem struct {
	Label  string
	Kind   CompletionItemKind
	Detail string
}

// CompletionItems returns every ABI register name, canonical CSR name
// (not the *Low aliases), and mnemonic (real and pseudo) this analyzer
// recognizes, grounded on
// isa.AllRegisters / isa.CSRNames / isa.AllMnemonics (SPEC_FULL.md
// supplemented feature #2).
func CompletionItems() []CompletionItem {
	var items []CompletionItem

	for _, r := range isa.AllRegisters() {
		items = append(items, CompletionItem{Label: r.ABI(), Kind: KindVariable, Detail: "register " + r.Numeric()})
	}
	for _, name := range isa.CSRNames() {
		items = append(items, CompletionItem{Label: name, Kind: KindProperty, Detail: "CSR"})
	}
	for _, m := range isa.AllMnemonics() {
		detail := "instruction"
		if isa.IsPseudo(m) {
			detail = "pseudo-instruction"
		}
		items = append(items, CompletionItem{Label: string(m), Kind: KindKeyword, Detail: detail})
	}
	return items
}
