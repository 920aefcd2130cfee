// Package toolchain drives the external guest-language toolchain: the
// compiler that turns synthesized units into loadable artifacts and the
// runner process that executes them.
package toolchain

import (
	"os"
	"strings"
)

// Result framing on the runner's stdout. The synthesized unit prints exactly
// one marker line as its last output; everything after the marker on that line
// is the rendered value.
const (
	// ResultMarker prefixes a present value.
	ResultMarker = "javelin:result "
	// VoidMarker is printed when the evaluation produced no value.
	VoidMarker = "javelin:void"
)

// Config describes the external toolchain commands and conventions.
type Config struct {
	// Compiler is the compiler executable, e.g. "javac".
	Compiler string
	// Runner is the runner executable, e.g. "java".
	Runner string
	// SourceExt is the generated-unit file extension, e.g. ".java".
	SourceExt string
	// SearchPathFlag is the flag carrying the joined search path, e.g. "-cp".
	SearchPathFlag string
	// Classpath holds extra search-path entries always passed along.
	Classpath []string
}

// Default returns the stock Java toolchain configuration.
func Default() Config {
	return Config{
		Compiler:       "javac",
		Runner:         "java",
		SourceExt:      ".java",
		SearchPathFlag: "-cp",
	}
}

// JoinSearchPath joins path entries with the platform list separator.
func JoinSearchPath(entries []string) string {
	return strings.Join(entries, string(os.PathListSeparator))
}
