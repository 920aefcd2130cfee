// Package ui renders evaluation-pipeline progress while a snippet compiles.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"javelin/internal/pipeline"
)

type progressModel struct {
	snippet    string
	events     <-chan pipeline.Event
	spinner    spinner.Model
	stageLabel string
	failed     bool
	width      int
	done       bool
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders pipeline progress
// for one snippet until the event channel closes.
func NewProgressModel(snippet string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return &progressModel{
		snippet: snippet,
		events:  events,
		spinner: sp,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.applyEvent(pipeline.Event(msg))
		return m, m.listenForEvent()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	}
	return m, nil
}

func (m *progressModel) View() string {
	if m.done {
		return ""
	}
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	label := m.stageLabel
	if label == "" {
		label = "starting"
	}
	if m.failed {
		label = "failed: " + label
	}
	line := fmt.Sprintf("%s %s %s", m.spinner.View(), labelStyle.Render(label), truncate(m.snippet, m.width-20))
	return line + "\n"
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) {
	if ev.Status == pipeline.StatusError {
		m.failed = true
	}
	m.stageLabel = string(ev.Stage)
}

func truncate(s string, width int) string {
	if width < 4 {
		width = 4
	}
	s = strings.ReplaceAll(s, "\n", " ")
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width-1, "…")
}
