package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/bract-lang/bract/internal/ast"
	"github.com/bract-lang/bract/internal/diag"
	"github.com/bract-lang/bract/internal/intern"
	"github.com/bract-lang/bract/internal/memory"
	"github.com/bract-lang/bract/internal/sema"
)

type stubGen struct {
	object []byte
	err    error
	calls  int
}

func (g *stubGen) Generate(*ast.Module, *sema.Result, *intern.Interner) ([]byte, error) {
	g.calls++
	return g.object, g.err
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.bract")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T, source string) *BuildConfig {
	t.Helper()
	cfg := NewBuildConfig(writeSource(t, source))
	cfg.OutputDir = filepath.Join(t.TempDir(), "target")
	return cfg
}

const validProgram = "fn main() -> i32 { return 0; }\n"

func TestCheckOnCleanProgram(t *testing.T) {
	d := New(testConfig(t, validProgram), nil)
	r := d.Check()
	if len(r.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", r.Diagnostics)
	}
	if !r.Success || r.ExitCode() != 0 {
		t.Fatalf("Success=%v exit=%d, want a passing check", r.Success, r.ExitCode())
	}
	if r.Module == nil || r.Analysis == nil || r.Interner == nil {
		t.Fatal("front-end outputs missing from result")
	}
}

func TestCheckOnBrokenProgramFails(t *testing.T) {
	d := New(testConfig(t, "fn main() -> i32 { return nope; }\n"), nil)
	r := d.Check()
	if r.Success || r.ExitCode() != 1 {
		t.Fatalf("Success=%v exit=%d, want a failing check", r.Success, r.ExitCode())
	}
}

func TestCompileWithoutGeneratorIsFrontendOnly(t *testing.T) {
	d := New(testConfig(t, validProgram), nil)
	r := d.Compile()
	if !r.Success || r.ExitCode() != 0 {
		t.Fatalf("Success=%v exit=%d, want success", r.Success, r.ExitCode())
	}
	if r.OutputPath != "" {
		t.Fatalf("no generator, but OutputPath = %q", r.OutputPath)
	}
}

func TestUnreadableInputReportsDriverDiagnostic(t *testing.T) {
	cfg := NewBuildConfig(filepath.Join(t.TempDir(), "missing.bract"))
	r := New(cfg, nil).Compile()
	if r.Success {
		t.Fatal("compilation of a missing file succeeded")
	}
	if r.ExitCode() != 1 {
		t.Fatalf("exit code = %d, want 1", r.ExitCode())
	}
	if len(r.Diagnostics) != 1 || r.Diagnostics[0].Code != diag.CodeDriverReadFailed {
		t.Fatalf("diagnostics = %v, want one DRIVER_READ_FAILED", r.Diagnostics)
	}
	if r.Err == nil {
		t.Fatal("result carries no error")
	}
}

func TestSemanticErrorsStopBeforeCodegen(t *testing.T) {
	gen := &stubGen{object: []byte("obj")}
	d := New(testConfig(t, "fn main() -> i32 { return missing; }\n"), gen)
	r := d.Compile()
	if r.Success {
		t.Fatal("compilation with semantic errors succeeded")
	}
	if gen.calls != 0 {
		t.Fatal("code generator invoked despite front-end errors")
	}
	found := false
	for _, dg := range r.Diagnostics {
		if dg.Code == diag.CodeUnresolvedName {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics = %v, want an unresolved-name error", r.Diagnostics)
	}
}

func TestObjectOnlyBuildWritesTheObject(t *testing.T) {
	cfg := testConfig(t, validProgram).WithObjectOnly(true)
	gen := &stubGen{object: []byte("object bytes")}
	r := New(cfg, gen).Compile()
	if !r.Success {
		t.Fatalf("compile failed: %v / %v", r.Diagnostics, r.Err)
	}
	if r.OutputPath != cfg.objectPath() {
		t.Fatalf("OutputPath = %q, want %q", r.OutputPath, cfg.objectPath())
	}
	data, err := os.ReadFile(r.OutputPath)
	if err != nil {
		t.Fatalf("object not written: %v", err)
	}
	if string(data) != "object bytes" {
		t.Fatalf("object content = %q", data)
	}
}

func TestLinkedBuildRemovesTheIntermediateObject(t *testing.T) {
	cfg := testConfig(t, validProgram)
	gen := &stubGen{object: []byte("obj")}
	d := New(cfg, gen)
	var linked []string
	d.execute = func(name string, args []string) ([]byte, error) {
		linked = append(linked, name)
		return nil, nil
	}

	r := d.Compile()
	if !r.Success {
		t.Fatalf("compile failed: %v / %v", r.Diagnostics, r.Err)
	}
	if len(linked) != 1 {
		t.Fatalf("linker invoked %d times", len(linked))
	}
	if r.OutputPath != cfg.executablePath() {
		t.Fatalf("OutputPath = %q, want %q", r.OutputPath, cfg.executablePath())
	}
	if _, err := os.Stat(cfg.objectPath()); !os.IsNotExist(err) {
		t.Fatalf("intermediate object still present: %v", err)
	}
}

func TestDebugBuildKeepsTheObject(t *testing.T) {
	cfg := testConfig(t, validProgram).WithDebug(true)
	d := New(cfg, &stubGen{object: []byte("obj")})
	d.execute = func(string, []string) ([]byte, error) { return nil, nil }

	if r := d.Compile(); !r.Success {
		t.Fatalf("compile failed: %v", r.Err)
	}
	if _, err := os.Stat(cfg.objectPath()); err != nil {
		t.Fatalf("debug build removed the object: %v", err)
	}
}

func TestLinkerFailureCarriesStderrVerbatim(t *testing.T) {
	cfg := testConfig(t, validProgram)
	d := New(cfg, &stubGen{object: []byte("obj")})
	d.execute = func(string, []string) ([]byte, error) {
		return []byte("undefined symbol: _bract_start"), errors.New("exit status 1")
	}

	r := d.Compile()
	if r.Success || r.ExitCode() != 1 {
		t.Fatalf("Success=%v exit=%d, want link failure", r.Success, r.ExitCode())
	}
	var link *diag.Diagnostic
	for i := range r.Diagnostics {
		if r.Diagnostics[i].Code == diag.CodeDriverLinkFailed {
			link = &r.Diagnostics[i]
		}
	}
	if link == nil {
		t.Fatalf("diagnostics = %v, want DRIVER_LINK_FAILED", r.Diagnostics)
	}
	if !strings.Contains(link.Message, "undefined symbol: _bract_start") {
		t.Fatalf("linker stderr not reproduced: %q", link.Message)
	}
}

func TestGeneratorInvariantViolationIsInternal(t *testing.T) {
	cfg := testConfig(t, validProgram)
	gen := &stubGen{err: errors.Wrap(memory.ErrUnresolvedStrategy, "lowering main")}
	r := New(cfg, gen).Compile()
	if !r.Internal || r.ExitCode() != 2 {
		t.Fatalf("Internal=%v exit=%d, want internal failure", r.Internal, r.ExitCode())
	}
}

func TestGeneratorUserErrorMapsToLoweringDiagnostic(t *testing.T) {
	cfg := testConfig(t, validProgram)
	gen := &stubGen{err: errors.Wrap(memory.ErrSharedUnwrap, "refcount 2")}
	r := New(cfg, gen).Compile()
	if r.Internal {
		t.Fatal("shared unwrap misclassified as internal")
	}
	if len(r.Diagnostics) != 1 || r.Diagnostics[0].Code != diag.CodeSharedUnwrap {
		t.Fatalf("diagnostics = %v, want one MEM_SHARED_UNWRAP", r.Diagnostics)
	}
}

func TestOutputPathDerivation(t *testing.T) {
	cfg := NewBuildConfig(filepath.Join("src", "game.bract"))
	if got := cfg.objectPath(); got != filepath.Join("target", "game.o") {
		t.Fatalf("objectPath = %q", got)
	}
	cfg.WithOutput("dist/game-final")
	if got := cfg.executablePath(); got != "dist/game-final" {
		t.Fatalf("executablePath = %q, want the explicit output", got)
	}
}

func TestChainableConfig(t *testing.T) {
	cfg := NewBuildConfig("in.bract").
		WithOptLevel(3).
		WithStrip(true).
		WithoutLTO().
		WithStats(true)
	if cfg.OptLevel != 3 || !cfg.Strip || cfg.LTO || !cfg.Stats {
		t.Fatalf("config not applied: %+v", cfg)
	}
}
