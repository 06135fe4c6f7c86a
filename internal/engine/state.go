// Package engine implements the capture & dispatch loop (spec.md §4.1):
// the single-threaded tick that turns one raw event into zero or more
// injected events, wiring together rewire, modifier, combo, alpha, and
// the output sequencer.
package engine

import (
	"strings"

	"github.com/capsicain-go/capsicain/internal/alpha"
	"github.com/capsicain-go/capsicain/internal/combo"
	"github.com/capsicain-go/capsicain/internal/config"
	"github.com/capsicain-go/capsicain/internal/keycode"
	"github.com/capsicain-go/capsicain/internal/rawevent"
	"github.com/capsicain-go/capsicain/internal/rewire"
)

// DisabledConfig is the reserved "config 0" that forwards every event
// verbatim (spec.md §4.1 step 7; SPEC_FULL.md §12's DISABLED_CONFIG_NUMBER).
const DisabledConfig = config.DisabledConfigNumber

// appleVIDSubstrings are the two observed spellings of Apple's USB vendor
// ID that the hardware id string may contain (spec.md §4.1 step 5).
var appleVIDSubstrings = []string{"VID_05AC", "VID&000205ac"}

// GlobalState is the process-lifetime state named in spec.md §3.
type GlobalState struct {
	On               bool
	ActiveConfig     uint8
	PreviousConfig   uint8
	ActiveConfigName string
	RealEscapeDown   bool
	DeviceID         string
	IsApple          bool
}

// LoopState is cleared at the start of every tick (spec.md §3).
type LoopState struct {
	Scancode       keycode.Scancode
	Vcode          keycode.Vcode
	IsDown         bool
	IsModifier     bool
	Tapped         bool
	TappedSlow     bool
	TapHoldMake    bool
	ResultSequence []keycode.KeyEvent
}

// reset clears the per-tick fields, keeping the struct around to avoid an
// allocation every event.
func (l *LoopState) reset() {
	*l = LoopState{}
}

// activeTables is the live, swappable set of compiled config tables
// (spec.md §6: config collaborator output `{rewires, combos, alpha_map,
// options, globals}`), installed by loadConfigNumber on startup and on
// CONFIGSWITCH/CONFIGPREVIOUS.
type activeTables struct {
	Rewire  rewire.Table
	Combos  combo.List
	Alpha   *alpha.Map
	Options config.Options
	Globals config.Globals
	Name    string
}

func isAppleHardwareID(id string) bool {
	for _, sub := range appleVIDSubstrings {
		if strings.Contains(id, sub) {
			return true
		}
	}
	return false
}

// history holds the current raw event and the two that preceded it, for the
// tap detector (spec.md §3 "Event history").
type history struct {
	prev2, prev1, current rawevent.Event
	primed                int // number of real events pushed so far, capped at 3
}

func (h *history) push(ev rawevent.Event) {
	h.prev2 = h.prev1
	h.prev1 = h.current
	h.current = ev
	if h.primed < 3 {
		h.primed++
	}
}
