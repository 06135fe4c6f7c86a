package engine

import (
	"fmt"

	"github.com/capsicain-go/capsicain/internal/keycode"
)

// Console is the always-available debug surface (SPEC_FULL.md §11:
// bubbletea/lipgloss, not the windowed UI spec.md §1 excludes as a
// non-goal). All methods are notifications; the engine never blocks on
// them and runs fully headless with a nil Console.
type Console interface {
	ShowStatus(StatusSnapshot)
	ShowHelp()
	ShowKeyLabelTable()
	ShowErrorLog(lines []string)
	ShowConfigDump(dump string)
}

// Clipboard binds the ESC+; "copy macro to clipboard" command (SPEC_FULL.md
// §11, github.com/atotto/clipboard).
type Clipboard interface {
	WriteMacro(body []keycode.KeyEvent) error
}

// StatusSnapshot is what ESC+S reports.
type StatusSnapshot struct {
	On               bool
	ActiveConfig     uint8
	ActiveConfigName string
	PreviousConfig   uint8
	IsApple          bool
	DeviceID         string
	DelayMS          int
	Debug            bool
}

// minDelayMS/maxDelayMS bound the ESC+,/. delay adjustment (spec.md §4.9:
// "1-100 ms, configurable").
const (
	minDelayMS = 1
	maxDelayMS = 100
)

// dispatchCommand implements the ESC+key command surface (spec.md §6). It
// is only reached while RealEscapeDown is true, on a downstroke of some
// other key (spec.md §4.1 step 6), and never propagates the triggering
// keystroke itself.
func (e *Engine) dispatchCommand(code uint8) (exit bool) {
	sc := keycode.Scancode(code)

	switch {
	case sc == keycode.SC_0 || (sc >= keycode.SC_1 && sc <= keycode.SC_9):
		n := configDigit(sc)
		if err := e.SwitchConfig(n); err != nil {
			e.logf("ESC+%d: switch config: %v", n, err)
		} else {
			e.logf("ESC+%d: switched to config %d (%s)", n, n, e.Global.ActiveConfigName)
		}
		return false
	}

	switch sc {
	case keycode.SC_X:
		e.logf("ESC+X: exit requested")
		return true

	case keycode.SC_BACKSPACE:
		e.logf("ESC+Backspace: reset")
		e.reset()
		return false

	case keycode.SC_R:
		e.logf("ESC+R: reload config %d", e.Global.ActiveConfig)
		if err := e.loadConfigNumber(e.Global.ActiveConfig); err != nil {
			e.logf("ESC+R: reload failed: %v", err)
		}
		return false

	case keycode.SC_I:
		e.logf("ESC+I: dump assembled config")
		if e.Console != nil {
			e.Console.ShowConfigDump(e.dumpConfig())
		}
		return false

	case keycode.SC_S:
		e.logf("ESC+S: status")
		if e.Console != nil {
			e.Console.ShowStatus(e.snapshot())
		}
		return false

	case keycode.SC_D:
		e.Debug = !e.Debug
		e.logf("ESC+D: debug %v", e.Debug)
		return false

	case keycode.SC_E:
		e.logf("ESC+E: error log")
		if e.Console != nil {
			e.Console.ShowErrorLog(e.Errors.Lines())
		}
		return false

	case keycode.SC_H:
		e.logf("ESC+H: help")
		if e.Console != nil {
			e.Console.ShowHelp()
		}
		return false

	case keycode.SC_C:
		e.logf("ESC+C: key-label table")
		if e.Console != nil {
			e.Console.ShowKeyLabelTable()
		}
		return false

	case keycode.SC_T:
		// Tray integration is a non-goal (spec.md §1); acknowledged only.
		e.logf("ESC+T: tray toggle requested (no tray integration)")
		return false

	case keycode.SC_W:
		e.tables.Options.FlipAltWinOnAppleKeyboards = !e.tables.Options.FlipAltWinOnAppleKeyboards
		e.logf("ESC+W: flip Alt/Win on Apple keyboards %v", e.tables.Options.FlipAltWinOnAppleKeyboards)
		return false

	case keycode.SC_Z:
		e.tables.Options.FlipZY = !e.tables.Options.FlipZY
		e.logf("ESC+Z: flip Y/Z %v", e.tables.Options.FlipZY)
		return false

	case keycode.SC_COMMA:
		e.adjustDelay(-1)
		return false

	case keycode.SC_DOT:
		e.adjustDelay(1)
		return false

	case keycode.SC_J:
		started, err := e.Macros.Start(0, false)
		if err != nil {
			e.logf("ESC+J: start macro: %v", err)
		} else if started {
			e.logf("ESC+J: recording macro slot 0")
		} else {
			e.logf("ESC+J: stopped macro slot 0 (second start)")
		}
		return false

	case keycode.SC_K:
		if !e.Macros.Recording {
			e.logf("ESC+K: nothing recording")
			return false
		}
		e.Macros.Stop()
		e.logf("ESC+K: stopped recording macro slot %d", e.Macros.Slot)
		return false

	case keycode.SC_L:
		body, recorded := e.Macros.Get(0)
		if !recorded {
			e.logf("ESC+L: nothing recorded in slot 0")
			return false
		}
		e.logf("ESC+L: playing macro slot 0")
		e.sequencr.Play(body)
		return false

	case keycode.SC_SEMICOLON:
		body, recorded := e.Macros.Get(0)
		if !recorded {
			e.logf("ESC+;: nothing recorded in slot 0")
			return false
		}
		if e.Clipboard == nil {
			e.logf("ESC+;: no clipboard collaborator attached")
			return false
		}
		if err := e.Clipboard.WriteMacro(body); err != nil {
			e.logf("ESC+;: copy macro to clipboard: %v", err)
			return false
		}
		e.logf("ESC+;: copied macro slot 0 to clipboard")
		return false

	case keycode.SC_A:
		e.logf("ESC+A: start helper process requested (AHK integration is a non-goal)")
		return false

	case keycode.SC_Y:
		e.logf("ESC+Y: stop helper process requested (AHK integration is a non-goal)")
		return false

	case keycode.SC_Q:
		if !e.DebugBuild {
			e.logf("ESC+Q: ignored (not a debug build)")
			return false
		}
		e.logf("ESC+Q: debug-build exit requested")
		return true

	case keycode.SC_B:
		e.logf("ESC+B: beta slot (reserved, no assigned behavior)")
		return false
	}

	e.logf("ESC+%s: no command bound", keycode.Label(keycode.FromScancode(sc)))
	return false
}

func configDigit(sc keycode.Scancode) uint8 {
	if sc == keycode.SC_0 {
		return 0
	}
	return uint8(sc - keycode.SC_1 + 1)
}

func (e *Engine) adjustDelay(delta int) {
	ms := e.sequencr.DelayMS + delta
	if ms < minDelayMS {
		ms = minDelayMS
	}
	if ms > maxDelayMS {
		ms = maxDelayMS
	}
	e.sequencr.DelayMS = ms
	e.logf("delay adjusted to %dms", ms)
}

func (e *Engine) snapshot() StatusSnapshot {
	return StatusSnapshot{
		On:               e.Global.On,
		ActiveConfig:     e.Global.ActiveConfig,
		ActiveConfigName: e.Global.ActiveConfigName,
		PreviousConfig:   e.Global.PreviousConfig,
		IsApple:          e.Global.IsApple,
		DeviceID:         e.Global.DeviceID,
		DelayMS:          e.sequencr.DelayMS,
		Debug:            e.Debug,
	}
}

func (e *Engine) dumpConfig() string {
	return fmt.Sprintf(
		"config %d (%s): delay=%dms flipZy=%v flipAltWin=%v lctrlLwinBlocksAlpha=%v debug=%v",
		e.Global.ActiveConfig, e.Global.ActiveConfigName, e.sequencr.DelayMS,
		e.tables.Options.FlipZY, e.tables.Options.FlipAltWinOnAppleKeyboards,
		e.tables.Options.LCtrlLWinBlocksAlpha, e.Debug,
	)
}
