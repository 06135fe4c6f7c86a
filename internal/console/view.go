package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/capsicain-go/capsicain/internal/keycode"
)

var (
	gruvboxBg    = lipgloss.Color("#282828")
	gruvboxFg    = lipgloss.Color("#EBDBB2")
	gruvboxLabel = lipgloss.Color("#83A598")
	gruvboxOk    = lipgloss.Color("#B8BB26")
	gruvboxWarn  = lipgloss.Color("#FABD2F")
	gruvboxDim   = lipgloss.Color("#928374")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(gruvboxWarn).Background(gruvboxBg)
	labelStyle = lipgloss.NewStyle().Foreground(gruvboxLabel).Background(gruvboxBg).Bold(true)
	bodyStyle  = lipgloss.NewStyle().Foreground(gruvboxFg).Background(gruvboxBg)
	okStyle    = lipgloss.NewStyle().Foreground(gruvboxOk).Background(gruvboxBg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(gruvboxDim).Background(gruvboxBg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(gruvboxLabel).Padding(1, 2).Background(gruvboxBg)
)

func (m Model) View() string {
	var body string
	switch m.active {
	case panelStatus:
		body = m.viewStatus()
	case panelHelp:
		body = viewHelp()
	case panelKeyTable:
		body = viewKeyTable()
	case panelErrorLog:
		body = m.viewErrorLog()
	case panelConfigDump:
		body = m.viewConfigDump()
	default:
		body = dimStyle.Render("waiting for a command (ESC+S/H/C/E/I)...")
	}
	return boxStyle.Render(titleStyle.Render("capsicain") + "\n\n" + body + "\n\n" + dimStyle.Render("q to close"))
}

func (m Model) viewStatus() string {
	on := okStyle.Render("on")
	if !m.status.On {
		on = dimStyle.Render("off")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("engine:"), on)
	fmt.Fprintf(&b, "%s %d (%s)\n", labelStyle.Render("active config:"), m.status.ActiveConfig, m.status.ActiveConfigName)
	fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("previous config:"), m.status.PreviousConfig)
	fmt.Fprintf(&b, "%s %v\n", labelStyle.Render("apple keyboard:"), m.status.IsApple)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("device:"), bodyStyle.Render(m.status.DeviceID))
	fmt.Fprintf(&b, "%s %dms\n", labelStyle.Render("sequence delay:"), m.status.DelayMS)
	fmt.Fprintf(&b, "%s %v\n", labelStyle.Render("debug:"), m.status.Debug)
	return b.String()
}

func viewHelp() string {
	lines := []string{
		"X        exit",
		"0-9      switch to config N",
		"Backspace  reset (release all, resync LEDs)",
		"R        reload active config",
		"I        dump assembled config",
		"S        show status",
		"D        toggle debug logging",
		"E        show error log",
		"H        this help",
		"C        show key-label table",
		"W        toggle Apple Alt/Win flip",
		"Z        toggle Y/Z flip",
		",  .     decrease/increase sequence delay",
		"J        start/stop recording macro slot 0",
		"K        stop recording macro slot 0",
		"L        play macro slot 0",
		";        copy macro slot 0 to clipboard",
	}
	return bodyStyle.Render(strings.Join(lines, "\n"))
}

func viewKeyTable() string {
	var b strings.Builder
	for sc := keycode.Scancode(0); sc <= keycode.MaxScancode; sc++ {
		fmt.Fprintf(&b, "%3d  %s\n", sc, keycode.Label(keycode.FromScancode(sc)))
	}
	return bodyStyle.Render(b.String())
}

func (m Model) viewErrorLog() string {
	if len(m.errLines) == 0 {
		return dimStyle.Render("(empty)")
	}
	return bodyStyle.Render(strings.Join(m.errLines, "\n"))
}

func (m Model) viewConfigDump() string {
	return bodyStyle.Render(m.dump)
}
