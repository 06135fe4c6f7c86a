// Package device is the OS-facing virtual keyboard: the last hop between
// internal/inject and the operating system (spec.md §4.10). The
// cross-platform Keyboard interface is implemented per-OS in
// device_linux.go / device_darwin.go, mirroring the hotkey package's
// platform split in the teacher repo.
package device

import "github.com/capsicain-go/capsicain/internal/keycode"

// Keyboard presses and releases scancodes on a synthetic input device and
// reflects lock-key LED state back to the OS.
type Keyboard interface {
	Press(sc keycode.Scancode) error
	Release(sc keycode.Scancode) error
	SetLEDs(capsLock, numLock, scrollLock bool) error
	Close() error
}
