// Package console implements the diagnostic surface named in SPEC_FULL.md
// §11: a bubbletea/lipgloss program that renders whatever the ESC+key
// command surface (spec.md §6) pushes into it. It is purely passive —
// the engine never reads anything back from it, and runs fully headless
// if Console.Start is never called (engine.Engine.Console stays nil).
package console

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/capsicain-go/capsicain/internal/engine"
)

// StatusMsg, HelpMsg, KeyTableMsg, ErrorLogMsg and ConfigDumpMsg mirror the
// five engine.Console notifications one-for-one.
type StatusMsg struct{ Snapshot engine.StatusSnapshot }
type HelpMsg struct{}
type KeyTableMsg struct{}
type ErrorLogMsg struct{ Lines []string }
type ConfigDumpMsg struct{ Dump string }

// panel identifies which content the last message asked to display.
type panel int

const (
	panelNone panel = iota
	panelStatus
	panelHelp
	panelKeyTable
	panelErrorLog
	panelConfigDump
)

// Model is the bubbletea model backing the console window. It only ever
// shows the most recently pushed panel — there is no navigation state to
// track beyond that, since the engine drives content, not the keyboard
// focused on this window.
type Model struct {
	active   panel
	status   engine.StatusSnapshot
	errLines []string
	dump     string
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case StatusMsg:
		m.active = panelStatus
		m.status = msg.Snapshot
	case HelpMsg:
		m.active = panelHelp
	case KeyTableMsg:
		m.active = panelKeyTable
	case ErrorLogMsg:
		m.active = panelErrorLog
		m.errLines = msg.Lines
	case ConfigDumpMsg:
		m.active = panelConfigDump
		m.dump = msg.Dump
	}
	return m, nil
}
