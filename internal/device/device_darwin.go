//go:build darwin

package device

import (
	"errors"

	"github.com/capsicain-go/capsicain/internal/keycode"
)

// ErrUnsupported is returned by NewUinput on platforms with no uinput-style
// virtual device API (spec.md Non-goals: "porting the injection path to
// non-Linux kernels is out of scope").
var ErrUnsupported = errors.New("device: virtual keyboard injection is only implemented on linux")

type unsupportedKeyboard struct{}

// NewUinput always fails on darwin; there is no uinput equivalent in the
// Darwin kernel.
func NewUinput() (Keyboard, error) {
	return nil, ErrUnsupported
}

func (unsupportedKeyboard) Press(sc keycode.Scancode) error   { return ErrUnsupported }
func (unsupportedKeyboard) Release(sc keycode.Scancode) error { return ErrUnsupported }
func (unsupportedKeyboard) SetLEDs(capsLock, numLock, scrollLock bool) error {
	return ErrUnsupported
}
func (unsupportedKeyboard) Close() error { return nil }
