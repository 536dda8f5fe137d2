package driver

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/bract-lang/bract/internal/diag"
	"github.com/bract-lang/bract/internal/memory"
	"github.com/bract-lang/bract/internal/parser"
	"github.com/bract-lang/bract/internal/sema"
)

// Check runs the front end only: read, parse, analyze. No artifacts are
// written.
func (d *Driver) Check() *Result {
	r := &Result{}
	r.Success = d.frontend(r)
	return r
}

// Compile runs the full pipeline and links an executable unless the
// configuration stops earlier.
func (d *Driver) Compile() *Result {
	r := &Result{}
	if !d.frontend(r) {
		return r
	}
	if d.gen == nil {
		// front-end-only build, nothing to emit
		r.Success = true
		return r
	}

	d.logf("generating code for %s (O%d)", d.cfg.Input, d.cfg.OptLevel)
	object, err := d.gen.Generate(r.Module, r.Analysis, r.Interner)
	if err != nil {
		r.Err = multierr.Append(r.Err, errors.Wrap(err, "code generation"))
		if isInvariantViolation(err) {
			r.Internal = true
		}
		r.Diagnostics = append(r.Diagnostics, diag.Diagnostic{
			Stage:    diag.StageLowering,
			Severity: diag.SeverityError,
			Code:     codeForGenError(err),
			Message:  err.Error(),
		})
		return r
	}

	if err := os.MkdirAll(d.cfg.OutputDir, 0o755); err != nil {
		return d.writeFailed(r, d.cfg.OutputDir, err)
	}
	objPath := d.cfg.objectPath()
	if err := os.WriteFile(objPath, object, 0o644); err != nil {
		return d.writeFailed(r, objPath, err)
	}
	d.logf("wrote %s (%d bytes)", objPath, len(object))

	if d.cfg.ObjectOnly {
		r.OutputPath = objPath
		r.Success = true
		return r
	}

	exePath := d.cfg.executablePath()
	if err := d.link(r, exePath, objPath); err != nil {
		r.Err = multierr.Append(r.Err, err)
		return r
	}

	// the object is an intermediate once the executable exists
	if !d.cfg.Debug {
		if err := os.Remove(objPath); err != nil {
			d.logf("leaving intermediate %s: %v", objPath, err)
		}
	}

	r.OutputPath = exePath
	r.Success = true
	return r
}

// frontend reads, parses and analyzes the input. It reports true when
// compilation may continue to code generation.
func (d *Driver) frontend(r *Result) bool {
	src, err := os.ReadFile(d.cfg.Input)
	if err != nil {
		d.readFailed(r, err)
		return false
	}

	d.logf("parsing %s (%d bytes)", d.cfg.Input, len(src))
	p := parser.New(src, parser.WithFilename(d.cfg.Input))
	r.Module = p.ParseModule()
	r.Interner = p.Interner()
	r.Diagnostics = append(r.Diagnostics, p.Errors()...)
	if n := len(p.Errors()); n > 0 {
		r.Err = multierr.Append(r.Err, errors.Errorf("%d syntax errors in %s", n, d.cfg.Input))
	}

	analyzer := sema.NewAnalyzer(r.Interner, sema.Config{Filename: d.cfg.Input})
	r.Analysis = analyzer.Analyze(r.Module)
	r.Diagnostics = append(r.Diagnostics, r.Analysis.Diagnostics...)
	if r.Analysis.HasErrors() {
		r.Err = multierr.Append(r.Err, errors.Errorf("semantic analysis of %s failed", d.cfg.Input))
	}

	if d.cfg.Stats {
		s := r.Analysis.Stats
		d.logf("symbols=%d scopes=%d exprs=%d functions=%d",
			s.SymbolsDefined, s.ScopesCreated, s.ExpressionsTyped, s.FunctionsAnalyzed)
	}

	return !diag.HasErrors(r.Diagnostics)
}

// isInvariantViolation distinguishes compiler bugs from user errors so
// the process can exit with the internal-failure code.
func isInvariantViolation(err error) bool {
	return errors.Is(err, memory.ErrUnresolvedStrategy) ||
		errors.Is(err, memory.ErrRegionNotFound) ||
		errors.Is(err, memory.ErrUnknownHandle)
}

func codeForGenError(err error) diag.Code {
	switch {
	case errors.Is(err, memory.ErrUnsupportedConversion):
		return diag.CodeUnsupportedConversion
	case errors.Is(err, memory.ErrSharedUnwrap):
		return diag.CodeSharedUnwrap
	case errors.Is(err, memory.ErrRegionNotFound):
		return diag.CodeRegionNotFound
	default:
		return diag.CodeGenFailed
	}
}
