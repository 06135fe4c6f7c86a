// Package inject implements send_vkey_event (spec.md §4.10): the single
// choke point between the pipeline and the OS, with keys_down_sent
// bookkeeping for idempotent releases, LED resync, and macro write-through.
package inject

import (
	"github.com/capsicain-go/capsicain/internal/keycode"
	"github.com/capsicain-go/capsicain/internal/macro"
	"github.com/capsicain-go/capsicain/internal/rawevent"
)

// Device is the OS-facing virtual keyboard, satisfied by
// internal/device.Keyboard.
type Device interface {
	Press(sc keycode.Scancode) error
	Release(sc keycode.Scancode) error
	SetLEDs(capsLock, numLock, scrollLock bool) error
}

// LogFunc logs one recovered error.
type LogFunc func(format string, args ...any)

// Tracker is the injector: it owns keys_down_sent and
// keys_down_temp_released (spec.md §3) and is the sole writer to Device.
// It satisfies internal/sequence.Injector.
type Tracker struct {
	Device Device
	Macros *macro.Store
	Log    LogFunc

	downSent     [keycode.MaxScancode + 1]bool
	tempReleased [keycode.MaxScancode + 1]bool
}

func (t *Tracker) logf(format string, args ...any) {
	if t.Log != nil {
		t.Log(format, args...)
	}
}

// Send is send_vkey_event (spec.md §4.10). A VC_PAUSE downstroke is
// injected as the four-event Pause chord and its upstroke is ignored; any
// other control opcode that reaches here (the sequencer consumes the ones
// it interprets) is refused and logged.
func (t *Tracker) Send(ev keycode.KeyEvent) {
	if ev.Vcode == keycode.VC_PAUSE {
		if ev.IsDown {
			t.Pause()
		}
		return
	}
	if keycode.IsControlOpcode(ev.Vcode) {
		t.logf("refusing to inject control opcode %s directly", keycode.Label(ev.Vcode))
		return
	}
	if ev.Vcode > 0xFF {
		t.logf("refusing to inject non-scancode-aliased vcode %s", keycode.Label(ev.Vcode))
		return
	}
	sc := keycode.ToScancode(ev.Vcode)

	if !ev.IsDown {
		// Idempotent release: dropping a release for a key that was never
		// sent down avoids a spurious OS-level key-up (spec.md §4.10).
		if !t.downSent[sc] {
			t.appendMacro(ev)
			return
		}
		if err := t.Device.Release(sc); err != nil {
			t.logf("release %s: %v", keycode.Label(ev.Vcode), err)
			return
		}
		t.downSent[sc] = false
		t.appendMacro(ev)
		t.resyncLEDs(sc)
		return
	}

	if err := t.Device.Press(sc); err != nil {
		t.logf("press %s: %v", keycode.Label(ev.Vcode), err)
		return
	}
	t.downSent[sc] = true
	t.appendMacro(ev)
	t.resyncLEDs(sc)
}

// appendMacro writes ev through to the active recording, if any (spec.md
// §4.12: macro bodies are captured at the injector, after rewiring).
func (t *Tracker) appendMacro(ev keycode.KeyEvent) {
	if t.Macros == nil {
		return
	}
	if t.Macros.Append(ev) {
		t.logf("macro recording auto-stopped: reached the maximum length")
	}
}

// resyncLEDs refreshes the lock-key LEDs after a Caps/Num/ScrollLock key
// passes through (SPEC_FULL.md §12 startup/ongoing LED resync).
func (t *Tracker) resyncLEDs(sc keycode.Scancode) {
	if sc != keycode.SC_CAPSLOCK && sc != keycode.SC_NUMLOCK && sc != keycode.SC_SCROLLLOCK {
		return
	}
	// The actual lock-light state lives with the OS; Device.SetLEDs is a
	// best-effort nudge so a remapped CapsLock doesn't leave a stale LED.
	if err := t.Device.SetLEDs(sc == keycode.SC_CAPSLOCK, sc == keycode.SC_NUMLOCK, sc == keycode.SC_SCROLLLOCK); err != nil {
		t.logf("resync LEDs: %v", err)
	}
}

// TempRelease emits a release for every scancode currently tracked down,
// moving it to keys_down_temp_released (spec.md §4.9 TEMPRELEASEKEYS).
func (t *Tracker) TempRelease() {
	for sc := keycode.Scancode(0); sc <= keycode.MaxScancode; sc++ {
		if !t.downSent[sc] {
			continue
		}
		if err := t.Device.Release(sc); err != nil {
			t.logf("temp release %s: %v", keycode.Label(keycode.FromScancode(sc)), err)
			continue
		}
		t.downSent[sc] = false
		t.tempReleased[sc] = true
	}
}

// TempRestore re-presses every scancode parked by TempRelease (spec.md
// §4.9 TEMPRESTOREKEYS).
func (t *Tracker) TempRestore() {
	for sc := keycode.Scancode(0); sc <= keycode.MaxScancode; sc++ {
		if !t.tempReleased[sc] {
			continue
		}
		t.tempReleased[sc] = false
		if err := t.Device.Press(sc); err != nil {
			t.logf("temp restore %s: %v", keycode.Label(keycode.FromScancode(sc)), err)
			continue
		}
		t.downSent[sc] = true
	}
}

// PauseSequence is the literal four raw events spec.md §4.11 scenario S6
// names for injecting PAUSE: PAUSE has no dedicated make/break pair on
// most keyboards, so a real Pause keypress arrives as LCtrl's and
// NumLock's halves of the old E1-prefixed escape chord. The two LCtrl
// events carry the Esc() marker that tags the 0xE1 prefix; NumLock's do
// not, matching capture's own encoding of the hardware chord.
func PauseSequence() [4]rawevent.Event {
	ctrl := uint8(keycode.SC_LEFTCTRL)
	num := uint8(keycode.SC_NUMLOCK)
	return [4]rawevent.Event{
		rawevent.Event{Code: ctrl}.WithEsc(1),
		{Code: num},
		rawevent.Event{Code: ctrl, State: rawevent.StateRelease}.WithEsc(1),
		{Code: num, State: rawevent.StateRelease},
	}
}

// Pause injects PauseSequence() directly against Device, bypassing Send:
// this is a raw hardware chord being synthesized, not a rewired vcode, so
// it skips keys_down_sent bookkeeping and macro write-through the way a
// captured Pause keypress would never touch them either.
func (t *Tracker) Pause() {
	for _, ev := range PauseSequence() {
		sc := keycode.Scancode(ev.Code)
		if ev.Down() {
			if err := t.Device.Press(sc); err != nil {
				t.logf("pause: press %s: %v", keycode.Label(keycode.FromScancode(sc)), err)
			}
			continue
		}
		if err := t.Device.Release(sc); err != nil {
			t.logf("pause: release %s: %v", keycode.Label(keycode.FromScancode(sc)), err)
		}
	}
}

// SetLEDs forwards directly to the device, for the startup and reset()
// LED baseline resyncs (spec.md §4.13) that happen outside of any single
// key press.
func (t *Tracker) SetLEDs(capsLock, numLock, scrollLock bool) error {
	return t.Device.SetLEDs(capsLock, numLock, scrollLock)
}

// ReleaseAll forces a release for every scancode still tracked down,
// used when a config switch or shutdown must not leave stuck keys
// (spec.md §4.13 reset()).
func (t *Tracker) ReleaseAll() {
	for sc := keycode.Scancode(0); sc <= keycode.MaxScancode; sc++ {
		if !t.downSent[sc] {
			continue
		}
		if err := t.Device.Release(sc); err != nil {
			t.logf("release-all %s: %v", keycode.Label(keycode.FromScancode(sc)), err)
		}
		t.downSent[sc] = false
	}
}
