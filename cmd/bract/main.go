// Command bract is the compiler driver: compile builds a source file,
// parse dumps the tree for a snippet or file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
	"github.com/bract-lang/bract/internal/driver"
	"github.com/bract-lang/bract/internal/parser"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bract <command> [options]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  compile <file>   Compile a Bract source file\n")
		fmt.Fprintf(os.Stderr, "  parse <snippet>  Print the parsed tree for a snippet or file\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "compile":
		os.Exit(runCompile(flag.Args()[1:]))
	case "parse":
		os.Exit(runParse(flag.Args()[1:]))
	default:
		badFlag("unknown command: " + flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}

func badFlag(msg string) {
	diag.NewFormatter(os.Stderr).Format(diag.Diagnostic{
		Stage:    diag.StageDriver,
		Severity: diag.SeverityError,
		Code:     diag.CodeDriverBadFlag,
		Message:  msg,
	})
}

func runCompile(args []string) int {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	out := fs.String("o", "", "output path")
	o0 := fs.Bool("O0", false, "no optimization")
	o1 := fs.Bool("O1", false, "basic optimization")
	o2 := fs.Bool("O2", false, "standard optimization")
	o3 := fs.Bool("O3", false, "aggressive optimization")
	debug := fs.Bool("debug", false, "keep intermediates and debug info")
	verbose := fs.Bool("v", false, "verbose output")
	fs.BoolVar(verbose, "verbose", false, "verbose output")
	stats := fs.Bool("s", false, "print front-end statistics")
	fs.BoolVar(stats, "stats", false, "print front-end statistics")
	objectOnly := fs.Bool("c", false, "stop after writing the object file")
	fs.BoolVar(objectOnly, "object-only", false, "stop after writing the object file")
	strip := fs.Bool("strip", false, "strip symbols from the executable")
	noLTO := fs.Bool("no-lto", false, "disable link-time optimization")
	jit := fs.Bool("j", false, "run in-process instead of linking")
	fs.BoolVar(jit, "jit", false, "run in-process instead of linking")

	if err := fs.Parse(args); err != nil {
		badFlag(err.Error())
		return 1
	}
	if fs.NArg() != 1 {
		badFlag("compile takes exactly one input file")
		return 1
	}

	cfg := driver.NewBuildConfig(fs.Arg(0)).
		WithOutput(*out).
		WithOptLevel(optLevel(*o0, *o1, *o2, *o3)).
		WithDebug(*debug).
		WithVerbose(*verbose).
		WithStats(*stats).
		WithObjectOnly(*objectOnly).
		WithStrip(*strip).
		WithJIT(*jit)
	if *noLTO {
		cfg.WithoutLTO()
	}

	// the native back-end registers itself here when linked in; without
	// one the driver stops after semantic analysis
	result := driver.New(cfg, nil).Compile()
	diag.NewFormatter(os.Stderr).FormatAll(result.Diagnostics)
	return result.ExitCode()
}

func optLevel(o0, o1, o2, o3 bool) int {
	switch {
	case o3:
		return 3
	case o2:
		return 2
	case o1:
		return 1
	case o0:
		return 0
	default:
		return 0
	}
}

// runParse prints the tree for a file or an inline snippet. Snippets
// that do not form a module are retried as a single expression.
func runParse(args []string) int {
	if len(args) != 1 {
		badFlag("parse takes exactly one snippet or file")
		return 1
	}

	src := []byte(args[0])
	filename := "<snippet>"
	if data, err := os.ReadFile(args[0]); err == nil {
		src = data
		filename = args[0]
	}

	p := parser.New(src, parser.WithFilename(filename))
	mod := p.ParseModule()
	if len(p.Errors()) == 0 {
		ast.Fprint(os.Stdout, mod, p.Interner())
		return 0
	}

	ep := parser.New(src, parser.WithFilename(filename))
	expr := ep.ParseExpression()
	if len(ep.Errors()) == 0 && expr != nil {
		ast.Fprint(os.Stdout, expr, ep.Interner())
		return 0
	}

	diag.NewFormatter(os.Stderr).FormatAll(p.Errors())
	return 1
}
