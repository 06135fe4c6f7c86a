package console

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/capsicain-go/capsicain/internal/engine"
)

// Console runs the bubbletea program in the background and forwards
// engine.Console notifications into it via tea.Program.Send, which is
// safe to call from any goroutine. It implements engine.Console.
type Console struct {
	program *tea.Program
	done    chan struct{}
}

// Start launches the console window's bubbletea event loop in a goroutine
// and returns immediately. Call Wait to block until the user closes it.
func Start() *Console {
	p := tea.NewProgram(Model{})
	c := &Console{program: p, done: make(chan struct{})}
	go func() {
		defer close(c.done)
		_, _ = p.Run()
	}()
	return c
}

// Wait blocks until the console window is closed.
func (c *Console) Wait() {
	<-c.done
}

func (c *Console) ShowStatus(s engine.StatusSnapshot) { c.program.Send(StatusMsg{Snapshot: s}) }
func (c *Console) ShowHelp()                          { c.program.Send(HelpMsg{}) }
func (c *Console) ShowKeyLabelTable()                 { c.program.Send(KeyTableMsg{}) }
func (c *Console) ShowErrorLog(lines []string)        { c.program.Send(ErrorLogMsg{Lines: lines}) }
func (c *Console) ShowConfigDump(dump string)          { c.program.Send(ConfigDumpMsg{Dump: dump}) }
