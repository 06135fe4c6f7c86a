package engine

import (
	"github.com/capsicain-go/capsicain/internal/keycode"
	"github.com/capsicain-go/capsicain/internal/rawevent"
)

// messyOutcome is the result of canonicalizing one raw event (spec.md
// §4.2): either the event is dropped outright, retargeted to a vcode that
// bypasses the ordinary rewire table (it's a hardware-chord artifact, not
// a user-configured key), or left for ordinary processing.
type messyOutcome struct {
	Drop     bool
	Retarget bool
	Vcode    keycode.Vcode
}

// canonicalizeMessyKey implements spec.md §4.2. Two scancodes alias
// others in hardware depending on chord state, which is why this needs the
// raw extended/esc bits rather than anything already rewired:
//
//   - PrintScreen's Alt-chord ("ALTPRINT") is delivered as the same raw
//     code as the keypad-* key (0x37) but without the E0 prefix, the
//     non-extended form only ever occurring when Alt is physically held.
//   - Break (Ctrl+Pause) is delivered as ScrollLock's scancode with the E0
//     extended bit set, where plain ScrollLock never carries that bit.
//
// protectConsole mirrors the original's
// `globals.protectConsole && IsCapsicainForegroundWindow()` gate. Under an
// exclusive evdev grab there is no windowing system to query for
// "foreground" — the engine already owns every keystroke the whole time
// it runs, so grab-active stands in for "our window is foreground" and
// protectConsole alone decides whether the console-killing chords below
// get dropped.
func canonicalizeMessyKey(ev, prev1 rawevent.Event, modDown uint16, translate, protectConsole bool) messyOutcome {
	if !translate {
		return messyOutcome{}
	}

	ctrlDown := modDown&keycode.BitOf(keycode.VC_LCTRL) != 0

	switch {
	case ev.Code == uint8(keycode.SC_KPASTERISK) && !ev.Extended() &&
		modDown&keycode.BitOf(keycode.VC_LALT) != 0:
		// ALTPRINT: rewrite to plain PRINT.
		return messyOutcome{Retarget: true, Vcode: keycode.FromScancode(keycode.SC_PRINT)}

	case (ev.Code == uint8(keycode.SC_NUMLOCK) || (ev.Code == uint8(keycode.SC_SCROLLLOCK) && !ev.Extended())) && ctrlDown:
		// Ctrl+NumLock / Ctrl+ScrLock is the console "pause"/"exit"
		// signal; only discard it when protectConsole asked us to.
		if protectConsole {
			return messyOutcome{Drop: true}
		}
		return messyOutcome{}

	case ev.Code == uint8(keycode.SC_SCROLLLOCK) && ev.Extended():
		// BREAK (Ctrl+Pause): same gate as above, otherwise rewrite to
		// synthetic PAUSE.
		if protectConsole && ctrlDown {
			return messyOutcome{Drop: true}
		}
		return messyOutcome{Retarget: true, Vcode: keycode.VC_PAUSE}

	case ev.Code == uint8(keycode.SC_LEFTCTRL) && ev.Esc() != 0:
		// First half of Pause's E1-prefixed sequence: drop the LCtrl,
		// remembered via history so the NumLock half below can fire.
		return messyOutcome{Drop: true}

	case ev.Code == uint8(keycode.SC_NUMLOCK) && prev1.Code == uint8(keycode.SC_LEFTCTRL) && prev1.Esc() != 0:
		return messyOutcome{Retarget: true, Vcode: keycode.VC_PAUSE}
	}

	return messyOutcome{}
}
