package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"javelin/internal/engine"
	"javelin/internal/pipeline"
	"javelin/internal/session"
	"javelin/internal/ui"
)

type evalOutcome struct {
	ev  session.Evaluation
	err error
}

// evaluateWithUI runs one evaluation while a progress model renders the
// pipeline stages. The relay is pointed at a per-call channel and detached
// again before the channel closes.
func evaluateWithUI(ctx context.Context, eng *engine.Engine, relay *progressRelay, text string) (session.Evaluation, error) {
	events := make(chan pipeline.Event, 64)
	relay.setTarget(events)
	outcomeCh := make(chan evalOutcome, 1)

	go func() {
		ev, err := eng.Evaluate(ctx, text)
		relay.clear()
		close(events)
		outcomeCh <- evalOutcome{ev: ev, err: err}
	}()

	model := ui.NewProgressModel(text, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.ev, uiErr
	}
	return outcome.ev, outcome.err
}
