// Package capture implements the capture collaborator (spec.md §3, §4.1
// step 1): opening the keyboard device, grabbing exclusive access so
// hardware events never reach the rest of the system unmodified, and
// reading raw {scancode,state} events.
package capture

import "github.com/capsicain-go/capsicain/internal/rawevent"

// Device reads raw hardware events from a grabbed keyboard and exposes
// the hardware id used by ESC+I diagnostics (spec.md §6).
type Device interface {
	// Read blocks for the next key event. It returns an error once the
	// device is closed or the underlying read fails permanently.
	Read() (rawevent.Event, error)
	HardwareID() string
	Close() error
}
