// Package tapdetect classifies the last three raw events for one physical
// key as a tap, slow-tap, or tap-and-hold make (spec.md §4.3). Detect is a
// pure function: identical input triples always yield identical output
// (spec.md §8, property 8).
package tapdetect

import "github.com/capsicain-go/capsicain/internal/rawevent"

// Result carries the three temporal classifications derived from a single
// raw event in the context of its two predecessors.
type Result struct {
	Tapped      bool
	SlowTap     bool
	TapHoldMake bool
}

// Detect classifies current given the two raw events that preceded it, of
// whatever key. prev2 is two events ago, prev1 is the immediately preceding
// event; a classification only fires when the relevant events share a code.
func Detect(prev2, prev1, current rawevent.Event) Result {
	var r Result

	// tapped iff !down(current) && same(current, prev1) && down(prev1).
	r.Tapped = !current.Down() && rawevent.Same(current, prev1) && prev1.Down()

	// slow_tap iff tapped && same(current, prev2) && down(prev2) — the key
	// auto-repeated before release. When slow_tap, tapped is cleared.
	if r.Tapped && rawevent.Same(current, prev2) && prev2.Down() {
		r.SlowTap = true
		r.Tapped = false
	}

	// tap_hold_make iff same(prev2,prev1,current) && down(current) &&
	// !down(prev1) && down(prev2) — the down-up-down an OS produces when a
	// key is held past the auto-repeat threshold after first being tapped.
	if rawevent.Same(prev2, prev1) && rawevent.Same(prev1, current) &&
		current.Down() && !prev1.Down() && prev2.Down() {
		r.TapHoldMake = true
	}

	return r
}
