package console

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/capsicain-go/capsicain/internal/engine"
)

func TestUpdateStatusShowsPanel(t *testing.T) {
	var m tea.Model = Model{}
	m, _ = m.Update(StatusMsg{Snapshot: engine.StatusSnapshot{ActiveConfig: 3}})
	mm := m.(Model)
	if mm.active != panelStatus || mm.status.ActiveConfig != 3 {
		t.Errorf("expected status panel with config 3, got %+v", mm)
	}
}

func TestUpdateQuitsOnQ(t *testing.T) {
	var m tea.Model = Model{}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
}

func TestUpdateErrorLogReplacesLines(t *testing.T) {
	var m tea.Model = Model{}
	m, _ = m.Update(ErrorLogMsg{Lines: []string{"a", "b"}})
	mm := m.(Model)
	if mm.active != panelErrorLog || len(mm.errLines) != 2 {
		t.Errorf("expected error log panel with 2 lines, got %+v", mm)
	}
}
