// Command rvlint is the CLI surface named in spec.md §6: `lint`,
// `debug_parse`, and the reserved `fix` subcommand. Like the teacher's
// own example binaries (inspector/coder/example/main.go), it is a plain
// main.go reaching for stdlib `flag` and `fmt` rather than a CLI
// framework — no environment variables are consulted, matching §6.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/viant/afs"

	"github.com/viant/rvlint/analysis"
	"github.com/viant/rvlint/debugyaml"
	"github.com/viant/rvlint/parser"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "lint":
		err = runLint(os.Args[2:])
	case "debug_parse":
		err = runDebugParse(os.Args[2:])
	case "fix":
		err = runFix(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "rvlint: %s\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rvlint <lint|debug_parse|fix> ...")
}

func runLint(args []string) error {
	fs := flag.NewFlagSet("lint", flag.ExitOnError)
	debug := fs.Bool("debug", false, "print the annotated CFG (YAML and DOT) to stderr before the diagnostics")
	emitYAML := fs.Bool("yaml", false, "print a debugyaml snapshot of the analyzed CFG to stdout")
	noOutput := fs.Bool("no-output", false, "suppress diagnostic printing; only the exit code is meaningful")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("lint: expected exactly one file argument")
	}
	path := fs.Arg(0)

	ctx := context.Background()
	engine := analysis.New(ctx)
	result, err := engine.Analyze(ctx, path)
	if err != nil && result.CFG == nil {
		printDiagnostics(result, *noOutput)
		return err
	}

	if *debug {
		snap := debugyaml.Encode(result.CFG, result.Facts)
		dump, _ := debugyaml.Marshal(snap)
		fmt.Fprintln(os.Stderr, string(dump))
		fmt.Fprintln(os.Stderr, debugyaml.DOT(result.CFG))
	}
	if *emitYAML {
		snap := debugyaml.Encode(result.CFG, result.Facts)
		dump, merr := debugyaml.Marshal(snap)
		if merr != nil {
			return merr
		}
		os.Stdout.Write(dump)
	}

	printDiagnostics(result, *noOutput)
	if len(result.Diagnostics) > 0 {
		os.Exit(1)
	}
	return nil
}

func runDebugParse(args []string) error {
	fs := flag.NewFlagSet("debug_parse", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("debug_parse: expected exactly one file argument")
	}
	path := fs.Arg(0)

	ctx := context.Background()
	reader := parser.NewAFSReader(ctx, afs.New())
	p := parser.NewParser(ctx, reader)
	_, parseErrs, err := p.ParseFile(path)
	if err != nil {
		return err
	}
	for _, pe := range parseErrs {
		name, _ := reader.Filename(pe.File)
		fmt.Printf("%s:%d:%d: %s\n", name, pe.Range.Start.Line, pe.Range.Start.Column, pe.Message)
	}
	if len(parseErrs) > 0 {
		os.Exit(1)
	}
	return nil
}

func runFix([]string) error {
	fmt.Println("fix: not implemented")
	return nil
}

func printDiagnostics(result *analysis.Result, suppress bool) {
	if suppress || result == nil {
		return
	}
	for _, d := range result.Diagnostics {
		name := d.File.String()
		if result.Reader != nil {
			if n, ok := result.Reader.Filename(d.File); ok {
				name = n
			}
		}
		fmt.Printf("%s:%d:%d: %s: %s: %s\n",
			name, d.Range.Start.Line, d.Range.Start.Column, d.Severity, d.Code, d.Title)
		if d.Description != "" {
			fmt.Printf("    %s\n", d.Description)
		}
		for _, rel := range d.Related {
			relName := rel.File.String()
			if result.Reader != nil {
				if n, ok := result.Reader.Filename(rel.File); ok {
					relName = n
				}
			}
			fmt.Printf("    related: %s:%d:%d: %s\n", relName, rel.Range.Start.Line, rel.Range.Start.Column, rel.Message)
		}
	}
}
