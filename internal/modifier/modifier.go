// Package modifier tracks the modifier bitmask and deadkey/tap-hold state
// threaded through the pipeline (spec.md §3 "Modifier state", §4.5).
package modifier

import "github.com/capsicain-go/capsicain/internal/keycode"

// NoTapAndHold is the sentinel "no tap-and-hold active" value for
// TapAndHoldScancode: real scancodes start at 1 (spec.md §3), so 0 is free.
const NoTapAndHold keycode.Scancode = 0

// State is `{ active_deadkey, mod_down, mod_tapped, mods_temp_altered,
// tap_and_hold_scancode }` from spec.md §3.
type State struct {
	ActiveDeadkey      keycode.Vcode
	ModDown            uint16
	ModTapped          uint16
	ModsTempAltered    []keycode.KeyEvent
	TapAndHoldScancode keycode.Scancode
}

// TapAndHoldActive reports whether a tap-and-hold is currently in progress
// (spec.md §3 invariant: at most one at a time).
func (s *State) TapAndHoldActive() bool { return s.TapAndHoldScancode != NoTapAndHold }

// Reset clears all per-session modifier state, preserving nothing
// (called from engine's reset(), spec.md §4.13).
func (s *State) Reset() {
	s.ActiveDeadkey = keycode.VC_NOP
	s.ModDown = 0
	s.ModTapped = 0
	s.ModsTempAltered = nil
	s.TapAndHoldScancode = NoTapAndHold
}

// Update applies spec.md §4.5 for one post-rewire event: OR/AND the
// modifier bit into mod_down on down/up, OR it into mod_tapped on a
// completed tap, and clear mod_tapped entirely on a slow-tap.
func (s *State) Update(v keycode.Vcode, isDown, tapped, slowTap bool) {
	b := keycode.BitOf(v)
	if isDown {
		s.ModDown |= b
	} else {
		s.ModDown &^= b
	}
	if tapped {
		s.ModTapped |= b
	}
	if slowTap {
		s.ModTapped = 0
	}
}

// ClearTapped zeroes mod_tapped. Called whenever a non-modifier key is
// processed (spec.md §4.1 step 11) or a combo consumes it (spec.md §4.6).
func (s *State) ClearTapped() {
	s.ModTapped = 0
}

// MatchAnd reports mod_down & mask == mask.
func (s *State) MatchAnd(mask uint16) bool { return s.ModDown&mask == mask }

// MatchOr reports mask == 0 || mod_down & mask != 0.
func (s *State) MatchOr(mask uint16) bool { return mask == 0 || s.ModDown&mask != 0 }

// MatchNot reports mod_down & mask == 0.
func (s *State) MatchNot(mask uint16) bool { return s.ModDown&mask == 0 }

// MatchTap reports mod_tapped & mask == mask.
func (s *State) MatchTap(mask uint16) bool { return s.ModTapped&mask == mask }
