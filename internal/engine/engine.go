// Package engine orchestrates incremental snippet evaluation: classify the
// snippet, synthesize a compilable unit around it, compile it with the
// external toolchain, load and invoke the artifact, and fold the outcome back
// into the session context.
package engine

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"javelin/internal/fragment"
	"javelin/internal/loader"
	"javelin/internal/pipeline"
	"javelin/internal/render"
	"javelin/internal/session"
	"javelin/internal/toolchain"
	"javelin/internal/workspace"
)

// Compiler invokes the external compiler on a unit path.
type Compiler interface {
	Compile(ctx context.Context, unitPath string, searchPath []string) error
}

// Renderer synthesizes unit source text from the session context.
type Renderer interface {
	Render(sctx session.Context, unitName string, frag fragment.Fragment) string
	RenderContextUnit() string
}

// Unit is a loaded artifact handle.
type Unit interface {
	Invoke(ctx context.Context) (loader.Value, error)
}

// UnitLoader is the per-session load namespace the engine drives.
type UnitLoader interface {
	IsLoaded(name string) bool
	Load(name string) (Unit, error)
	AddSearchPathEntry(entry string)
	SearchPath() []string
	DeclareType(name string)
	HasDeclaredType(name string) bool
}

// Options configures an Engine. Zero fields get working defaults; the
// Compiler, Renderer, and NewLoader hooks exist so hosts and tests can swap
// the external collaborators.
type Options struct {
	Toolchain      toolchain.Config
	SessionImports []string
	Classpath      []string
	Progress       pipeline.Sink

	Compiler  Compiler
	Renderer  Renderer
	NewLoader func(workspaceDir string) UnitLoader
}

// Engine evaluates snippets against one session. A single evaluation owns the
// context, workspace, and load namespace for its duration; calls are not safe
// to issue concurrently against the same Engine.
type Engine struct {
	opts Options

	sctx         session.Context
	ws           *workspace.Workspace
	ldr          UnitLoader
	contextReady bool
	timings      pipeline.Timings
}

// namespaceLoader adapts the concrete loader.Namespace to the UnitLoader
// seam.
type namespaceLoader struct {
	*loader.Namespace
}

func (l namespaceLoader) Load(name string) (Unit, error) {
	return l.Namespace.Load(name)
}

// New creates an engine with an empty context, a fresh workspace, and a fresh
// load namespace.
func New(opts Options) (*Engine, error) {
	if opts.Toolchain.Compiler == "" {
		opts.Toolchain = toolchain.Default()
	}
	if opts.Compiler == nil {
		opts.Compiler = toolchain.NewInvoker(opts.Toolchain)
	}
	if opts.Renderer == nil {
		opts.Renderer = render.New(opts.SessionImports...)
	}
	if opts.NewLoader == nil {
		runner := toolchain.NewRunner(opts.Toolchain)
		opts.NewLoader = func(dir string) UnitLoader {
			return namespaceLoader{loader.NewNamespace(runner, dir)}
		}
	}
	e := &Engine{opts: opts}
	if err := e.initialize(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) initialize() error {
	ws, err := workspace.New()
	if err != nil {
		return err
	}
	e.ws = ws
	e.ldr = e.opts.NewLoader(ws.Dir())
	// The support unit's name is taken; a user type declared under it would
	// clobber the class every evaluation unit is constructed with.
	e.ldr.DeclareType(render.ContextUnitName)
	for _, entry := range append(e.opts.Classpath, e.opts.Toolchain.Classpath...) {
		e.ldr.AddSearchPathEntry(entry)
	}
	e.sctx = session.NewContext()
	e.contextReady = false
	return nil
}

// Evaluate runs one snippet through the pipeline and, on success, grows the
// session context by exactly one evaluation. Submitting text that was already
// evaluated in this session returns the recorded evaluation with no side
// effects. A snippet that fails to compile as a value expression is retried
// once as a bare statement; no further fallback is attempted.
func (e *Engine) Evaluate(ctx context.Context, text string) (session.Evaluation, error) {
	e.timings = pipeline.Timings{}
	if ev, ok := e.sctx.EvaluationFor(text); ok {
		return ev, nil
	}

	frag := fragment.Classify(text)
	ev, err := e.evaluateFragment(ctx, frag)
	if err != nil && frag.Kind == fragment.KindValue {
		var compErr *toolchain.CompilationError
		if errors.As(err, &compErr) {
			ev, err = e.evaluateFragment(ctx, fragment.AsStatement(text))
		}
	}
	if err != nil {
		return session.Evaluation{}, err
	}

	e.sctx = e.sctx.AddEvaluation(ev)
	return ev, nil
}

func (e *Engine) evaluateFragment(ctx context.Context, frag fragment.Fragment) (session.Evaluation, error) {
	if frag.Kind == fragment.KindTypeDecl {
		return e.evaluateTypeDecl(ctx, frag)
	}
	return e.evaluateUnit(ctx, frag)
}

// evaluateTypeDecl compiles and loads a type declaration under its declared
// name. There is no invocation step: declarations produce no runtime value.
func (e *Engine) evaluateTypeDecl(ctx context.Context, frag fragment.Fragment) (session.Evaluation, error) {
	name := frag.Key
	if e.ldr.HasDeclaredType(name) || e.ldr.IsLoaded(name) {
		return session.Evaluation{}, &RedefinitionError{Name: name}
	}

	source := e.renderUnit(name, frag)
	if err := e.compileUnit(ctx, name, source); err != nil {
		return session.Evaluation{}, err
	}
	if err := e.loadUnit(name); err != nil {
		return session.Evaluation{}, err
	}
	e.ldr.DeclareType(name)
	return session.NewEvaluation(name, source, frag), nil
}

// evaluateUnit compiles, loads, and invokes a synthesized evaluation unit
// under a freshly generated artifact name.
func (e *Engine) evaluateUnit(ctx context.Context, frag fragment.Fragment) (session.Evaluation, error) {
	if err := e.ensureContextUnit(ctx); err != nil {
		return session.Evaluation{}, err
	}

	name := e.freshUnitName()
	source := e.renderUnit(name, frag)
	if err := e.compileUnit(ctx, name, source); err != nil {
		return session.Evaluation{}, err
	}

	var unit Unit
	if err := e.stage(name, pipeline.StageLoad, func() error {
		var err error
		unit, err = e.ldr.Load(name)
		return err
	}); err != nil {
		return session.Evaluation{}, err
	}

	var value loader.Value
	if err := e.stage(name, pipeline.StageInvoke, func() error {
		var err error
		value, err = unit.Invoke(ctx)
		return err
	}); err != nil {
		return session.Evaluation{}, err
	}

	if !value.Present {
		return session.NewEvaluation(name, source, frag), nil
	}
	key := frag.Key
	if !frag.HasKey() {
		key = e.sctx.NextResultKey()
	}
	res := session.Result{Key: key, Value: value.Text}
	return session.NewEvaluationWithResult(name, source, frag, res), nil
}

// ensureContextUnit compiles the session-context support unit once per
// session before the first evaluation unit needs it.
func (e *Engine) ensureContextUnit(ctx context.Context) error {
	if e.contextReady {
		return nil
	}
	source := e.opts.Renderer.RenderContextUnit()
	path, err := e.ws.WriteUnit(render.ContextUnitName, e.opts.Toolchain.SourceExt, source)
	if err != nil {
		return err
	}
	if err := e.opts.Compiler.Compile(ctx, path, e.ldr.SearchPath()); err != nil {
		return err
	}
	e.contextReady = true
	return nil
}

// renderUnit synthesizes unit source under the render stage. Rendering cannot
// fail; the stage exists so sinks see the full pipeline.
func (e *Engine) renderUnit(name string, frag fragment.Fragment) string {
	var source string
	_ = e.stage(name, pipeline.StageRender, func() error {
		source = e.opts.Renderer.Render(e.sctx, name, frag)
		return nil
	})
	return source
}

func (e *Engine) compileUnit(ctx context.Context, name, source string) error {
	path, err := e.ws.WriteUnit(name, e.opts.Toolchain.SourceExt, source)
	if err != nil {
		return err
	}
	return e.stage(name, pipeline.StageCompile, func() error {
		return e.opts.Compiler.Compile(ctx, path, e.ldr.SearchPath())
	})
}

func (e *Engine) loadUnit(name string) error {
	return e.stage(name, pipeline.StageLoad, func() error {
		_, err := e.ldr.Load(name)
		return err
	})
}

// stage runs one pipeline step, reporting progress to the configured sink.
func (e *Engine) stage(unit string, st pipeline.Stage, f func() error) error {
	sink := e.opts.Progress
	if sink != nil {
		sink.OnEvent(pipeline.Event{Unit: unit, Stage: st, Status: pipeline.StatusWorking})
	}
	start := time.Now()
	err := f()
	elapsed := time.Since(start)
	e.timings.Set(st, elapsed)
	if sink != nil {
		status := pipeline.StatusDone
		if err != nil {
			status = pipeline.StatusError
		}
		sink.OnEvent(pipeline.Event{Unit: unit, Stage: st, Status: status, Err: err, Elapsed: elapsed})
	}
	return err
}

// freshUnitName generates a collision-free synthetic artifact name.
func (e *Engine) freshUnitName() string {
	for {
		var b [4]byte
		if _, err := rand.Read(b[:]); err != nil {
			panic(fmt.Sprintf("failed to read random bytes: %v", err))
		}
		name := "Evaluation" + hex.EncodeToString(b[:])
		if !e.ldr.IsLoaded(name) && !e.ldr.HasDeclaredType(name) {
			return name
		}
	}
}

// LastEvaluation returns the most recent evaluation, if any.
func (e *Engine) LastEvaluation() (session.Evaluation, bool) {
	return e.sctx.LastEvaluation()
}

// Results returns every result produced so far, in submission order.
func (e *Engine) Results() []session.Result {
	return e.sctx.Results()
}

// Evaluations returns the full evaluation history in submission order.
func (e *Engine) Evaluations() []session.Evaluation {
	return e.sctx.Evaluations()
}

// EvaluationsOfKind returns the evaluations of one fragment kind, in
// submission order.
func (e *Engine) EvaluationsOfKind(kind fragment.Kind) []session.Evaluation {
	return e.sctx.EvaluationsOfKind(kind)
}

// LastTimings returns the per-stage durations recorded by the most recent
// Evaluate call. A cache hit runs no stages and records nothing.
func (e *Engine) LastTimings() pipeline.Timings {
	return e.timings
}

// Context returns the current session context value.
func (e *Engine) Context() session.Context {
	return e.sctx
}

// AddSearchPathEntry makes entry visible to subsequent compilations and runs.
func (e *Engine) AddSearchPathEntry(entry string) {
	e.ldr.AddSearchPathEntry(entry)
}

// Reset atomically discards the context, workspace, and load namespace and
// reinitializes all three to empty.
func (e *Engine) Reset() error {
	if err := e.ws.Remove(); err != nil {
		return fmt.Errorf("failed to clear workspace: %w", err)
	}
	return e.initialize()
}

// Close tears the session down, removing its workspace.
func (e *Engine) Close() error {
	return e.ws.Remove()
}
