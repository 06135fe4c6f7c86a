//go:build !linux

package capture

import "errors"

// ErrUnsupported is returned by Open on platforms with no evdev-style
// grabbable keyboard device (spec.md Non-goals: "porting capture to
// non-Linux kernels is out of scope").
var ErrUnsupported = errors.New("capture: exclusive keyboard capture is only implemented on linux")

// Open always fails outside linux.
func Open(devicePath string) (Device, error) {
	return nil, ErrUnsupported
}
