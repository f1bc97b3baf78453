// Package analysis orchestrates the whole pipeline — lex, parse, build
// CFG, annotate functions, run dataflow to fixpoint, discover
// interrupt-handler entries, re-run with that knowledge, lint — behind
// one entry point (spec.md §4, Component "analysis"). Construction
// follows the teacher's functional-options style (analyzer/option.go's
// `Option` over `*Analyzer`): an `Engine` built with `...Option`, each
// option a closure over the unexported struct.
package analysis

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/rvlint/cfg"
	"github.com/viant/rvlint/dataflow"
	"github.com/viant/rvlint/lint"
	"github.com/viant/rvlint/parser"
	"github.com/viant/rvlint/token"
)

// Engine holds the configuration needed to run an analysis: how to read
// source files, and what the caller considers the project's entry
// points (mirrors analyzer.Analyzer's projectFiles/fs fields).
type Engine struct {
	reader       parser.FileReader
	projectFiles []string
}

// Option configures an Engine, following analyzer/option.go's `Option`.
type Option func(*Engine)

// WithFileReader overrides the default afs-backed reader, e.g. with an
// in-memory reader for tests.
func WithFileReader(r parser.FileReader) Option {
	return func(e *Engine) { e.reader = r }
}

// WithProjectFiles records root entry-point filenames the caller treats
// as the top of an analysis (naming convention only — analysis.Analyze
// always takes an explicit root path; this exists so a future directory
// walker has a marker set to key off of, as analyzer.WithProjectFiles
// does for project-root detection).
func WithProjectFiles(files ...string) Option {
	return func(e *Engine) { e.projectFiles = files }
}

// New builds an Engine, defaulting to an afs-backed FileReader over the
// local/cloud filesystem exactly as analyzer.NewAnalyzer defaults its
// fs field to afs.New().
func New(ctx context.Context, options ...Option) *Engine {
	e := &Engine{reader: parser.NewAFSReader(ctx, afs.New())}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Result is everything one Analyze call produced: the final CFG and
// facts (for debugyaml snapshotting or the LSP server), plus the
// diagnostics across all three error tiers (spec.md §7).
type Result struct {
	CFG         *cfg.CFG
	Facts       *dataflow.Facts
	Diagnostics []lint.Diagnostic
	Reader      parser.FileReader
}

// Analyze runs the full pipeline against rootPath and anything it
// `.include`s (spec.md §4.2-§4.10). A root-file read failure, or a
// CFG-build failure, is returned as a non-nil error together with a
// Result whose Diagnostics hold every parse diagnostic collected so far
// (plus the CFG error's own diagnostic); lint diagnostics are always
// additive and never themselves produce a non-nil error.
func (e *Engine) Analyze(ctx context.Context, rootPath string) (*Result, error) {
	p := parser.NewParser(ctx, e.reader)
	nodes, parseErrs, err := p.ParseFile(rootPath)

	var diags []lint.Diagnostic
	for _, pe := range parseErrs {
		diags = append(diags, parseErrorDiagnostic(pe))
	}
	if err != nil {
		lint.Sort(diags)
		return &Result{Diagnostics: diags, Reader: e.reader}, fmt.Errorf("parsing %s: %w", rootPath, err)
	}

	graph, facts, cerr := buildAndAnalyze(nodes, nil)
	if cerr != nil {
		diags = append(diags, cfgErrorDiagnostic(cerr))
		lint.Sort(diags)
		return &Result{Diagnostics: diags, Reader: e.reader}, fmt.Errorf("building cfg for %s: %w", rootPath, cerr)
	}

	if handlers := discoverInterruptHandlers(graph, facts); len(handlers) > 0 {
		graph2, facts2, cerr2 := buildAndAnalyze(nodes, handlers)
		if cerr2 != nil {
			diags = append(diags, cfgErrorDiagnostic(cerr2))
			lint.Sort(diags)
			return &Result{Diagnostics: diags, Reader: e.reader}, fmt.Errorf("rebuilding cfg for %s: %w", rootPath, cerr2)
		}
		graph, facts = graph2, facts2
	}

	diags = append(diags, lint.RunAll(graph, facts)...)
	lint.Sort(diags)
	return &Result{CFG: graph, Facts: facts, Diagnostics: diags, Reader: e.reader}, nil
}

func buildAndAnalyze(nodes []parser.Node, extraCallNames map[string]bool) (*cfg.CFG, *dataflow.Facts, *cfg.CfgError) {
	graph, cerr := cfg.Build(nodes, extraCallNames)
	if cerr != nil {
		return nil, nil, cerr
	}
	if cerr := cfg.AnnotateFunctions(graph); cerr != nil {
		return nil, nil, cerr
	}
	facts := dataflow.RunAll(graph)
	return graph, facts, nil
}

func parseErrorDiagnostic(e *parser.ParseError) lint.Diagnostic {
	severity := lint.SeverityError
	title := "parse error"
	if e.Kind == parser.UnsupportedConstruct {
		// spec.md §4.2: .globl/.extern/.eqv/.section are recognized but
		// unsupported — a warning, not an error, unlike every other
		// ParseError kind (spec.md §7 tier 1).
		severity = lint.SeverityWarning
		title = "unsupported directive"
	}
	return lint.Diagnostic{
		Code:        lint.Code("parse-error"),
		Severity:    severity,
		File:        e.File,
		Range:       e.Range,
		Title:       title,
		Description: e.Message,
	}
}

func cfgErrorDiagnostic(e *cfg.CfgError) lint.Diagnostic {
	return lint.Diagnostic{
		Code:        lint.Code("cfg-error"),
		Severity:    lint.SeverityError,
		File:        token.FileID{},
		Range:       token.Range{},
		Title:       "control-flow error",
		Description: e.Error(),
	}
}
