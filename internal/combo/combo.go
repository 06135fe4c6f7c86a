// Package combo matches modifier+deadkey predicates against a keystroke
// and produces a multi-key output sequence (spec.md §3 "Combo", §4.6).
package combo

import (
	"github.com/capsicain-go/capsicain/internal/keycode"
	"github.com/capsicain-go/capsicain/internal/modifier"
)

// Combo is `{ trigger_vcode, deadkey, mod_and, mod_or, mod_not, mod_tap,
// output }` from spec.md §3.
type Combo struct {
	Trigger keycode.Vcode
	Deadkey keycode.Vcode // VC_NOP matches only while no deadkey is armed
	ModAnd  uint16
	ModOr   uint16
	ModNot  uint16
	ModTap  uint16
	Output  []keycode.KeyEvent
}

// Matches reports whether c matches the current trigger vcode and
// modifier state, per the predicate in spec.md §3.
func (c Combo) Matches(trigger keycode.Vcode, mods *modifier.State) bool {
	if c.Trigger != trigger {
		return false
	}
	if mods.ActiveDeadkey != c.Deadkey {
		return false
	}
	return mods.MatchAnd(c.ModAnd) && mods.MatchOr(c.ModOr) &&
		mods.MatchNot(c.ModNot) && mods.MatchTap(c.ModTap)
}

// List is an ordered set of combos; declaration order determines match
// priority (spec.md §8 property 5: "first match wins").
type List []Combo

// Match scans combos in declaration order and returns the first match's
// output sequence. Only meaningful on downstrokes (spec.md §4.6: "Only
// on downstrokes"); callers are responsible for only invoking Match on a
// down event.
func (l List) Match(trigger keycode.Vcode, mods *modifier.State) (output []keycode.KeyEvent, matched bool) {
	for _, c := range l {
		if c.Matches(trigger, mods) {
			return c.Output, true
		}
	}
	return nil, false
}
