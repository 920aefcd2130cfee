package pipeline

import "time"

// Stage describes a step of the evaluation pipeline.
type Stage string

const (
	// StageRender is unit-source synthesis.
	StageRender Stage = "render"
	// StageCompile is the external compiler invocation.
	StageCompile Stage = "compile"
	// StageLoad is artifact loading.
	StageLoad Stage = "load"
	// StageInvoke is execution of the loaded unit.
	StageInvoke Stage = "invoke"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusWorking indicates the stage is in progress.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished.
	StatusDone Status = "done"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Event reports progress for one evaluation step.
type Event struct {
	Unit    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Sink consumes progress events.
type Sink interface {
	OnEvent(Event)
}

// Timings holds per-stage durations for one evaluation.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set records the duration of a stage.
func (t *Timings) Set(stage Stage, d time.Duration) {
	t.ensure()
	t.stages[stage] = d
}

// Get returns the recorded duration of a stage.
func (t *Timings) Get(stage Stage) time.Duration {
	return t.stages[stage]
}

// Total returns the sum of all recorded stage durations.
func (t *Timings) Total() time.Duration {
	var total time.Duration
	for _, d := range t.stages {
		total += d
	}
	return total
}
