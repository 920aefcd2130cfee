package main

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"

	"javelin/internal/engine"
	"javelin/internal/pipeline"
	"javelin/internal/project"
	"javelin/internal/toolchain"
)

// sessionOptions assembles engine options from the nearest javelin.toml and
// environment overrides (loaded from .env when present).
func sessionOptions() (engine.Options, *project.Manifest, error) {
	// Missing .env is fine; only real read errors matter and those surface
	// again when the variables are consulted.
	_ = godotenv.Load()

	cfg := toolchain.Default()
	var opts engine.Options

	manifest, ok, err := project.Load(".")
	if err != nil {
		return opts, nil, err
	}
	if ok {
		tc := manifest.Config.Toolchain
		if tc.Compiler != "" {
			cfg.Compiler = tc.Compiler
		}
		if tc.Runner != "" {
			cfg.Runner = tc.Runner
		}
		for _, entry := range tc.Classpath {
			if !filepath.IsAbs(entry) {
				entry = filepath.Join(manifest.Root, entry)
			}
			opts.Classpath = append(opts.Classpath, entry)
		}
		opts.SessionImports = manifest.Config.Session.Imports
	}

	if compiler := os.Getenv("JAVELIN_COMPILER"); compiler != "" {
		cfg.Compiler = compiler
	}
	if runner := os.Getenv("JAVELIN_RUNNER"); runner != "" {
		cfg.Runner = runner
	}
	if cp := os.Getenv("JAVELIN_CLASSPATH"); cp != "" {
		opts.Classpath = append(opts.Classpath, strings.Split(cp, string(os.PathListSeparator))...)
	}

	opts.Toolchain = cfg
	return opts, manifest, nil
}

// progressRelay is a pipeline sink whose target can be swapped per
// evaluation, so a fresh progress UI can attach to a long-lived engine.
type progressRelay struct {
	mu   sync.Mutex
	sink pipeline.Sink
}

func (r *progressRelay) OnEvent(evt pipeline.Event) {
	r.mu.Lock()
	sink := r.sink
	r.mu.Unlock()
	if sink != nil {
		sink.OnEvent(evt)
	}
}

func (r *progressRelay) setTarget(ch chan<- pipeline.Event) {
	r.mu.Lock()
	r.sink = pipeline.ChannelSink{Ch: ch}
	r.mu.Unlock()
}

func (r *progressRelay) clear() {
	r.mu.Lock()
	r.sink = nil
	r.mu.Unlock()
}
