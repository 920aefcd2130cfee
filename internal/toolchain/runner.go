package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// RunOutput captures one runner invocation.
type RunOutput struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes compiled units as subprocesses of the guest runtime.
type Runner struct {
	cfg Config
}

// NewRunner returns a Runner for the given toolchain.
func NewRunner(cfg Config) *Runner {
	return &Runner{cfg: cfg}
}

// Run executes artifactName with the joined search path and captures both
// output streams. A non-zero exit is reported through RunOutput.ExitCode, not
// as an error; the error return covers spawn failures only.
func (r *Runner) Run(ctx context.Context, artifactName string, searchPath []string) (RunOutput, error) {
	args := []string{}
	if joined := JoinSearchPath(searchPath); joined != "" {
		args = append(args, r.cfg.SearchPathFlag, joined)
	}
	args = append(args, artifactName)

	cmd := exec.CommandContext(ctx, r.cfg.Runner, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := RunOutput{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return out, fmt.Errorf("failed to invoke runner %q: %w", r.cfg.Runner, err)
		}
		out.ExitCode = exitErr.ExitCode()
	}
	return out, nil
}
