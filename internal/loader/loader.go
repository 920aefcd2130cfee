// Package loader owns the per-session load namespace: which compiled
// artifacts have been loaded, which guest-level type names have been declared,
// and the search-path entries visible to the runner. One namespace per
// session; it is discarded wholesale on reset together with its workspace.
package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"javelin/internal/toolchain"
)

// LoadError reports a failure to load a compiled artifact.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load unit %s: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Namespace tracks loaded units and declared type names. The loading cache
// and the redefinition policy are deliberately separate structures: loading is
// idempotent for any name, while redefinition of a declared guest type is
// banned by the engine on top of this.
type Namespace struct {
	runner        *toolchain.Runner
	dir           string
	units         map[string]*LoadedUnit
	declaredTypes map[string]struct{}
	extraEntries  []string
}

// NewNamespace returns an empty namespace rooted at the workspace directory,
// which is always the first search-path entry.
func NewNamespace(runner *toolchain.Runner, dir string) *Namespace {
	return &Namespace{
		runner:        runner,
		dir:           dir,
		units:         make(map[string]*LoadedUnit),
		declaredTypes: make(map[string]struct{}),
	}
}

// IsLoaded reports whether name has been loaded in this namespace. Once true,
// it stays true for the life of the namespace.
func (n *Namespace) IsLoaded(name string) bool {
	_, ok := n.units[name]
	return ok
}

// Load resolves name to a loaded unit. Loading an already-loaded name returns
// the existing handle without touching the filesystem.
func (n *Namespace) Load(name string) (*LoadedUnit, error) {
	if unit, ok := n.units[name]; ok {
		return unit, nil
	}
	artifact := filepath.Join(n.dir, name+".class")
	if _, err := os.Stat(artifact); err != nil {
		return nil, &LoadError{Name: name, Err: err}
	}
	unit := &LoadedUnit{name: name, namespace: n}
	n.units[name] = unit
	return unit, nil
}

// AddSearchPathEntry makes entry visible to subsequent compilations and runs.
func (n *Namespace) AddSearchPathEntry(entry string) {
	for _, e := range n.extraEntries {
		if e == entry {
			return
		}
	}
	n.extraEntries = append(n.extraEntries, entry)
}

// SearchPath returns the workspace directory followed by every added entry.
func (n *Namespace) SearchPath() []string {
	path := make([]string, 0, len(n.extraEntries)+1)
	path = append(path, n.dir)
	path = append(path, n.extraEntries...)
	return path
}

// DeclareType records name as a declared guest type.
func (n *Namespace) DeclareType(name string) {
	n.declaredTypes[name] = struct{}{}
}

// HasDeclaredType reports whether name denotes an already-declared guest type.
func (n *Namespace) HasDeclaredType(name string) bool {
	_, ok := n.declaredTypes[name]
	return ok
}
