// Package rewire implements the per-scancode rewire table and the
// tap/tap-hold rewrite state machine (spec.md §3 "Rewire table", §4.4).
package rewire

import "github.com/capsicain-go/capsicain/internal/keycode"

// Entry is one scancode's rewire record: `{ out, if_tapped, if_tap_held }`.
// HasOut false means pass-through.
type Entry struct {
	Out          keycode.Vcode
	HasOut       bool
	IfTapped     keycode.Vcode
	HasIfTapped  bool
	IfTapHeld    keycode.Vcode
	HasIfTapHeld bool
}

// Table is the dense array indexed by scancode (spec.md §3).
type Table struct {
	entries [keycode.MaxScancode + 1]Entry
}

// Set installs an entry for sc, logging a config conflict (spec.md §7) by
// returning false when sc already has an entry and ignoring the later
// definition, per spec.md §7 "Config conflict: duplicate rewire ...
// log warning and ignore the later definition."
func (t *Table) Set(sc keycode.Scancode, e Entry) (ok bool) {
	if int(sc) >= len(t.entries) {
		return false
	}
	if t.entries[sc].HasOut || t.entries[sc].HasIfTapped || t.entries[sc].HasIfTapHeld {
		return false
	}
	t.entries[sc] = e
	return true
}

// Get returns the entry for sc (zero value if scancode is out of range or
// has no entry — which is a valid pass-through, not an error).
func (t *Table) Get(sc keycode.Scancode) Entry {
	if int(sc) >= len(t.entries) {
		return Entry{}
	}
	return t.entries[sc]
}
