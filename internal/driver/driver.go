// Package driver sequences a compilation: read source, lex and parse,
// analyze, hand the annotated tree to a code generator, write the object
// and invoke the platform linker. The driver owns all per-unit state; two
// compilations never share an interner or a symbol table.
package driver

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
	"github.com/bract-lang/bract/internal/intern"
	"github.com/bract-lang/bract/internal/sema"
)

// CodeGenerator turns an analyzed module into object code. The native
// back-end lives outside this module; tests plug in stubs.
type CodeGenerator interface {
	Generate(mod *ast.Module, analysis *sema.Result, interner *intern.Interner) ([]byte, error)
}

// BuildConfig carries everything one compilation needs. Construct with
// NewBuildConfig and refine with the chainable setters.
type BuildConfig struct {
	Input     string
	Output    string // final artifact path; derived from Input when empty
	OutputDir string

	OptLevel   int // 0..3
	Debug      bool
	Verbose    bool
	Stats      bool
	ObjectOnly bool
	Strip      bool
	LTO        bool
	JIT        bool

	// RuntimeObject is the prebuilt runtime passed to the linker.
	RuntimeObject string
}

// NewBuildConfig returns the defaults for compiling input.
func NewBuildConfig(input string) *BuildConfig {
	return &BuildConfig{
		Input:         input,
		OutputDir:     "target",
		LTO:           true,
		RuntimeObject: "runtime.o",
	}
}

func (c *BuildConfig) WithOutput(path string) *BuildConfig  { c.Output = path; return c }
func (c *BuildConfig) WithOptLevel(n int) *BuildConfig      { c.OptLevel = n; return c }
func (c *BuildConfig) WithDebug(on bool) *BuildConfig       { c.Debug = on; return c }
func (c *BuildConfig) WithVerbose(on bool) *BuildConfig     { c.Verbose = on; return c }
func (c *BuildConfig) WithStats(on bool) *BuildConfig       { c.Stats = on; return c }
func (c *BuildConfig) WithObjectOnly(on bool) *BuildConfig  { c.ObjectOnly = on; return c }
func (c *BuildConfig) WithStrip(on bool) *BuildConfig       { c.Strip = on; return c }
func (c *BuildConfig) WithoutLTO() *BuildConfig             { c.LTO = false; return c }
func (c *BuildConfig) WithJIT(on bool) *BuildConfig         { c.JIT = on; return c }

// stem is the input filename without directory or extension.
func (c *BuildConfig) stem() string {
	base := filepath.Base(c.Input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (c *BuildConfig) objectPath() string {
	return filepath.Join(c.OutputDir, c.stem()+".o")
}

func (c *BuildConfig) executablePath() string {
	if c.Output != "" {
		return c.Output
	}
	name := c.stem()
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(c.OutputDir, name)
}

// Result is the outcome of one driver run. Success is true iff no
// error-severity diagnostic was produced and every IO step succeeded.
type Result struct {
	Diagnostics []diag.Diagnostic
	Success     bool
	// Internal marks an invariant violation rather than a user error.
	Internal bool

	Module   *ast.Module
	Analysis *sema.Result
	Interner *intern.Interner

	// OutputPath names the artifact written, empty on failure or when
	// compilation stopped before code generation.
	OutputPath string

	// Err aggregates the per-stage failures for programmatic callers; the
	// Diagnostics list is the user-facing view of the same information.
	Err error
}

// ExitCode maps the result onto the process exit convention: 0 success,
// 1 compilation failure, 2 internal invariant violation.
func (r *Result) ExitCode() int {
	switch {
	case r.Internal:
		return 2
	case !r.Success:
		return 1
	default:
		return 0
	}
}

// Driver runs compilations. The zero value is not usable; construct with
// New.
type Driver struct {
	cfg *BuildConfig
	gen CodeGenerator

	// execute runs the linker. Swapped out by tests.
	execute func(name string, args []string) (stderr []byte, err error)
	logf    func(format string, args ...interface{})
}

// New creates a driver. gen may be nil for front-end-only runs.
func New(cfg *BuildConfig, gen CodeGenerator) *Driver {
	d := &Driver{cfg: cfg, gen: gen, execute: runLinker}
	if cfg.Verbose || os.Getenv("BRACT_LOG") == "debug" {
		d.logf = log.New(os.Stderr, "bract: ", 0).Printf
	} else {
		d.logf = func(string, ...interface{}) {}
	}
	return d
}

func (d *Driver) readFailed(r *Result, err error) *Result {
	r.Diagnostics = append(r.Diagnostics, diag.Diagnostic{
		Stage:    diag.StageDriver,
		Severity: diag.SeverityError,
		Code:     diag.CodeDriverReadFailed,
		Message:  fmt.Sprintf("cannot read '%s': %v", d.cfg.Input, err),
	})
	r.Err = errors.Wrapf(err, "read %s", d.cfg.Input)
	return r
}

func (d *Driver) writeFailed(r *Result, path string, err error) *Result {
	r.Diagnostics = append(r.Diagnostics, diag.Diagnostic{
		Stage:    diag.StageDriver,
		Severity: diag.SeverityError,
		Code:     diag.CodeDriverWriteFailed,
		Message:  fmt.Sprintf("cannot write '%s': %v", path, err),
	})
	r.Err = errors.Wrapf(err, "write %s", path)
	return r
}
