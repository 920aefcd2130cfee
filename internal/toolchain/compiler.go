package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"javelin/internal/diag"
)

const maxCompilerDiagnostics = 100

// CompilationError reports a failed compiler invocation: the subprocess exit
// code, the raw diagnostic stream, and the diagnostics parsed out of it.
type CompilationError struct {
	ExitCode    int
	Diagnostics string
	Bag         *diag.Bag
}

func (e *CompilationError) Error() string {
	first := strings.TrimSpace(e.Diagnostics)
	if e.Bag != nil && e.Bag.Len() > 0 {
		first = e.Bag.Items()[0].String()
	}
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	return fmt.Sprintf("compilation failed (exit %d): %s", e.ExitCode, first)
}

// Invoker shells out to the external compiler.
type Invoker struct {
	cfg Config
}

// NewInvoker returns an Invoker for the given toolchain.
func NewInvoker(cfg Config) *Invoker {
	return &Invoker{cfg: cfg}
}

// Compile runs the compiler on unitPath with the joined search path. The call
// blocks until the compiler exits. A zero exit status is success regardless of
// diagnostic-stream content; a non-zero status surfaces as *CompilationError
// with the full captured stream.
func (i *Invoker) Compile(ctx context.Context, unitPath string, searchPath []string) error {
	args := []string{}
	if joined := JoinSearchPath(searchPath); joined != "" {
		args = append(args, i.cfg.SearchPathFlag, joined)
	}
	args = append(args, unitPath)

	cmd := exec.CommandContext(ctx, i.cfg.Compiler, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("failed to invoke compiler %q: %w", i.cfg.Compiler, err)
	}
	text := stderr.String()
	return &CompilationError{
		ExitCode:    exitErr.ExitCode(),
		Diagnostics: text,
		Bag:         diag.ParseJavac(text, maxCompilerDiagnostics),
	}
}
