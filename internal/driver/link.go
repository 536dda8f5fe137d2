package driver

import (
	"bytes"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pkg/errors"

	"github.com/bract-lang/bract/internal/diag"
)

// linkCommand picks the platform linker and assembles its argument list.
func (d *Driver) linkCommand(out, obj string) (string, []string) {
	if runtime.GOOS == "windows" {
		linker := "lld-link"
		if _, err := exec.LookPath(linker); err != nil {
			linker = "link"
		}
		return linker, []string{
			"/ENTRY:main", "/SUBSYSTEM:CONSOLE", "/OUT:" + out,
			obj, d.cfg.RuntimeObject, "msvcrt.lib", "kernel32.lib",
		}
	}
	return "ld", []string{"-o", out, obj, d.cfg.RuntimeObject, "-lc"}
}

// link invokes the external linker and reports its failure, stderr
// included verbatim, as a driver diagnostic.
func (d *Driver) link(r *Result, out, obj string) error {
	name, args := d.linkCommand(out, obj)
	d.logf("linking: %s %v", name, args)

	stderr, err := d.execute(name, args)
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf("linker '%s' failed: %v", name, err)
	if len(stderr) > 0 {
		msg += "\n" + string(stderr)
	}
	r.Diagnostics = append(r.Diagnostics, diag.Diagnostic{
		Stage:    diag.StageDriver,
		Severity: diag.SeverityError,
		Code:     diag.CodeDriverLinkFailed,
		Message:  msg,
	})
	return errors.Wrapf(err, "link %s", out)
}

// runLinker spawns the linker and waits for it.
func runLinker(name string, args []string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}
