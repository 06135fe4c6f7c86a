package rewire

import (
	"github.com/capsicain-go/capsicain/internal/keycode"
	"github.com/capsicain-go/capsicain/internal/modifier"
)

// Result is the outcome of processing one scancode through the rewire
// state machine (spec.md §4.4).
type Result struct {
	Vcode      keycode.Vcode
	IsModifier bool
	// Prepend holds events the rewire stage pushes into the result
	// sequence (the if-tapped release/press/release triple, and the
	// real-key press/release a tap-hold make/break injects). When the
	// sequence is non-empty the engine plays it instead of emitting Vcode.
	Prepend []keycode.KeyEvent
	// Rejected marks a second tap-and-hold activation attempt while one
	// is already in progress (spec.md §3 invariant, §7 "State violation").
	Rejected bool
}

// Process runs one scancode through the rewire table and the tap/tap-hold
// state machine, mutating mods in place per spec.md §4.4.
func (t *Table) Process(sc keycode.Scancode, isDown, tapped, tapHoldMake bool, mods *modifier.State) Result {
	entry := t.Get(sc)

	// Step 1: autorepeat suppression for the currently-held tap-and-hold key.
	if isDown && mods.TapAndHoldActive() && mods.TapAndHoldScancode == sc {
		return Result{Vcode: keycode.VC_NOP}
	}

	vcode := keycode.FromScancode(sc)

	// Step 2: out rewrite.
	if entry.HasOut {
		vcode = entry.Out
	}
	preTapVcode := vcode

	var prepend []keycode.KeyEvent

	// Step 3: if-tapped.
	if tapped && entry.HasIfTapped {
		mods.ClearTapped()
		prepend = append(prepend, keycode.Up(preTapVcode))
		if keycode.IsModifier(preTapVcode) {
			mods.ModDown &^= keycode.BitOf(preTapVcode)
		}
		prepend = append(prepend, keycode.Down(entry.IfTapped), keycode.Up(entry.IfTapped))
		vcode = entry.IfTapped
	}

	// Step 4: tap-hold make.
	if tapHoldMake && entry.HasIfTapHeld {
		if mods.TapAndHoldActive() {
			return Result{Vcode: keycode.VC_NOP, Rejected: true}
		}
		mods.TapAndHoldScancode = sc
		if entry.IfTapHeld <= 0xFF {
			prepend = append(prepend, keycode.Down(entry.IfTapHeld))
		}
		vcode = entry.IfTapHeld
		// Clear mod_tapped bits from either the out or if_tapped rewrite:
		// both could have fired when the key was first pressed.
		mods.ModTapped &^= keycode.BitOf(preTapVcode)
		if entry.HasIfTapped {
			mods.ModTapped &^= keycode.BitOf(entry.IfTapped)
		}
	}

	// Step 5: tap-hold break.
	if !isDown && mods.TapAndHoldActive() && mods.TapAndHoldScancode == sc {
		mods.TapAndHoldScancode = modifier.NoTapAndHold
		if entry.HasIfTapHeld {
			if entry.IfTapHeld <= 0xFF {
				prepend = append(prepend, keycode.Up(entry.IfTapHeld))
			}
			vcode = entry.IfTapHeld
		}
	}

	return Result{
		Vcode:      vcode,
		IsModifier: keycode.IsModifier(vcode),
		Prepend:    prepend,
	}
}
