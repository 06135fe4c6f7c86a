//go:build linux

package capture

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	evdev "github.com/holoplot/go-evdev"

	"github.com/capsicain-go/capsicain/internal/rawevent"
)

// linuxDevice reads a grabbed evdev keyboard. Device discovery is
// grounded on the same /dev/input/event* scan and KEY_A/KEY_Z heuristic
// the teacher's FindKeyboard/isKeyboard use for hotkey listening; here
// the device is grabbed exclusively (create_context + set_filter, spec.md
// §3) so the kernel stops delivering the raw events to anything else.
type linuxDevice struct {
	dev *evdev.InputDevice
}

// Open implements create_context: it opens devicePath, or auto-detects a
// keyboard by scanning /dev/input/event* the way the teacher's
// FindKeyboard does, then grabs it exclusively.
func Open(devicePath string) (Device, error) {
	dev, err := findKeyboard(devicePath)
	if err != nil {
		return nil, err
	}
	if err := dev.Grab(); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("grab keyboard exclusively: %w", err)
	}
	return &linuxDevice{dev: dev}, nil
}

func findKeyboard(devicePath string) (*evdev.InputDevice, error) {
	if devicePath != "" {
		dev, err := evdev.Open(devicePath)
		if err != nil {
			return nil, fmt.Errorf("open device %s: %w", devicePath, err)
		}
		return dev, nil
	}

	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("glob /dev/input/event*: %w", err)
	}
	sort.Slice(matches, func(i, j int) bool {
		ni, _ := strconv.Atoi(strings.TrimPrefix(matches[i], "/dev/input/event"))
		nj, _ := strconv.Atoi(strings.TrimPrefix(matches[j], "/dev/input/event"))
		return ni < nj
	})

	for _, path := range matches {
		dev, err := evdev.Open(path)
		if err != nil {
			continue
		}
		if isKeyboard(dev) {
			return dev, nil
		}
		_ = dev.Close()
	}
	return nil, fmt.Errorf("no keyboard device found in /dev/input/event*")
}

func isKeyboard(dev *evdev.InputDevice) bool {
	for _, evType := range dev.CapableTypes() {
		if evType == evdev.EV_REL {
			return false
		}
	}
	keys := dev.CapableEvents(evdev.EV_KEY)
	hasA, hasZ := false, false
	for _, code := range keys {
		if code == 30 { // KEY_A
			hasA = true
		}
		if code == 44 { // KEY_Z
			hasZ = true
		}
	}
	return hasA && hasZ
}

// Read implements wait+receive: it blocks for the next EV_KEY event and
// translates it to a raw {code,state} pair (spec.md §3). Non-key events
// (EV_SYN, EV_MSC) are skipped transparently.
func (d *linuxDevice) Read() (rawevent.Event, error) {
	for {
		ev, err := d.dev.ReadOne()
		if err != nil {
			return rawevent.Event{}, fmt.Errorf("read key event: %w", err)
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		code := uint8(ev.Code)
		var state uint8
		if ev.Value == 0 {
			state |= rawevent.StateRelease
		}
		return rawevent.Event{Code: code, State: state}, nil
	}
}

func (d *linuxDevice) HardwareID() string {
	return d.dev.Path()
}

func (d *linuxDevice) Close() error {
	_ = d.dev.Ungrab()
	return d.dev.Close()
}
