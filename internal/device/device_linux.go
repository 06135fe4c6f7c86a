//go:build linux

package device

import (
	"fmt"

	"github.com/bendahl/uinput"

	"github.com/capsicain-go/capsicain/internal/keycode"
)

// uinputKeyboard adapts github.com/bendahl/uinput's virtual keyboard to
// Keyboard. uinput's key constants are numbered identically to the Linux
// evdev codes the rewire table's scancode axis already uses, so Press and
// Release are a direct pass-through.
type uinputKeyboard struct {
	kb uinput.Keyboard
}

// NewUinput creates a virtual keyboard named "capsicain" visible to the
// rest of the system as an ordinary USB-keyboard-class input device.
func NewUinput() (Keyboard, error) {
	kb, err := uinput.CreateKeyboard("/dev/uinput", []byte("capsicain"))
	if err != nil {
		return nil, fmt.Errorf("create uinput keyboard: %w", err)
	}
	return &uinputKeyboard{kb: kb}, nil
}

func (d *uinputKeyboard) Press(sc keycode.Scancode) error {
	if err := d.kb.KeyDown(int(sc)); err != nil {
		return fmt.Errorf("uinput key down %d: %w", sc, err)
	}
	return nil
}

func (d *uinputKeyboard) Release(sc keycode.Scancode) error {
	if err := d.kb.KeyUp(int(sc)); err != nil {
		return fmt.Errorf("uinput key up %d: %w", sc, err)
	}
	return nil
}

// SetLEDs is a no-op: uinput's virtual keyboard has no LED-feedback path,
// so CapsLock/NumLock/ScrollLock indicator state is left to whatever
// physical keyboard still owns the LEDs.
func (d *uinputKeyboard) SetLEDs(capsLock, numLock, scrollLock bool) error {
	return nil
}

func (d *uinputKeyboard) Close() error {
	return d.kb.Close()
}
