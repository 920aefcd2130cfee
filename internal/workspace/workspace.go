package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the per-session scratch directory where synthesized units are
// written and compiled. One workspace per session; Remove tears it down
// recursively.
type Workspace struct {
	dir string
}

// New creates a fresh temporary workspace directory.
func New() (*Workspace, error) {
	dir, err := os.MkdirTemp("", "javelin-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// WriteUnit writes unit source under the workspace as <name><ext> and returns
// the full path.
func (w *Workspace) WriteUnit(name, ext, source string) (string, error) {
	path := filepath.Join(w.dir, name+ext)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return "", fmt.Errorf("failed to write unit %s: %w", name, err)
	}
	return path, nil
}

// Remove deletes the workspace directory and everything in it.
func (w *Workspace) Remove() error {
	if w.dir == "" {
		return nil
	}
	err := os.RemoveAll(w.dir)
	w.dir = ""
	return err
}
