package loader

import (
	"context"
	"fmt"
	"strings"

	"javelin/internal/toolchain"
)

// Value is the outcome of invoking a loaded unit's entry point. Absent values
// (void evaluations) are a distinct valid state.
type Value struct {
	Text    string
	Present bool
}

// InvocationError wraps a failure raised while running a loaded unit,
// unwrapped to its innermost guest-level cause.
type InvocationError struct {
	Cause error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invocation failed: %v", e.Cause)
}

func (e *InvocationError) Unwrap() error { return e.Cause }

// LoadedUnit is a handle to a compiled artifact loaded into a namespace.
type LoadedUnit struct {
	name      string
	namespace *Namespace
}

// Name returns the artifact name the unit was loaded under.
func (u *LoadedUnit) Name() string { return u.name }

// Invoke runs the unit's designated entry point through the runner process
// and parses the marker-framed value off its stdout. Guest faults surface as
// *InvocationError carrying the innermost cause reported by the runtime.
func (u *LoadedUnit) Invoke(ctx context.Context) (Value, error) {
	out, err := u.namespace.runner.Run(ctx, u.name, u.namespace.SearchPath())
	if err != nil {
		return Value{}, err
	}
	if out.ExitCode != 0 {
		return Value{}, &InvocationError{Cause: innermostCause(out.Stderr, out.ExitCode)}
	}
	return parseValue(out.Stdout)
}

func parseValue(stdout string) (Value, error) {
	if i := strings.LastIndex(stdout, toolchain.ResultMarker); i >= 0 {
		text := strings.TrimSuffix(stdout[i+len(toolchain.ResultMarker):], "\n")
		return Value{Text: text, Present: true}, nil
	}
	if strings.Contains(stdout, toolchain.VoidMarker) {
		return Value{}, nil
	}
	return Value{}, fmt.Errorf("runner produced no result marker")
}

// innermostCause digs the deepest `Caused by:` entry out of a guest stack
// trace so callers see the actual fault instead of the harness envelope.
func innermostCause(stderr string, exitCode int) error {
	var cause string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "Caused by: "); ok {
			cause = rest
			continue
		}
		if rest, ok := strings.CutPrefix(line, "Exception in thread "); ok {
			if cause == "" {
				if _, msg, found := strings.Cut(rest, " "); found {
					cause = msg
				}
			}
		}
	}
	if cause == "" {
		cause = strings.TrimSpace(stderr)
	}
	if cause == "" {
		return fmt.Errorf("runner exited with status %d", exitCode)
	}
	return fmt.Errorf("%s", cause)
}
