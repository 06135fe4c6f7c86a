package rewire

import (
	"testing"

	"github.com/capsicain-go/capsicain/internal/keycode"
	"github.com/capsicain-go/capsicain/internal/modifier"
)

// TestSimpleRewire covers scenario S1 from spec.md §8: CapsLock -> LCtrl.
func TestSimpleRewire(t *testing.T) {
	var tbl Table
	tbl.Set(keycode.SC_CAPSLOCK, Entry{Out: keycode.VC_LCTRL, HasOut: true})

	var mods modifier.State
	res := tbl.Process(keycode.SC_CAPSLOCK, true, false, false, &mods)
	if res.Vcode != keycode.VC_LCTRL {
		t.Fatalf("expected LCTRL, got %v", res.Vcode)
	}
	if len(res.Prepend) != 0 {
		t.Fatalf("expected no prepended events for a plain rewire, got %v", res.Prepend)
	}
}

// TestTapToEscape covers scenario S2: rewire CAPS LCTRL ifTapped ESC.
func TestTapToEscape(t *testing.T) {
	var tbl Table
	tbl.Set(keycode.SC_CAPSLOCK, Entry{
		Out: keycode.VC_LCTRL, HasOut: true,
		IfTapped: keycode.FromScancode(keycode.SC_ESC), HasIfTapped: true,
	})
	var mods modifier.State
	mods.ModTapped = 0xFFFF // simulate some prior tap bits to verify clearing

	res := tbl.Process(keycode.SC_CAPSLOCK, false, true, false, &mods)

	if res.Vcode != keycode.FromScancode(keycode.SC_ESC) {
		t.Fatalf("expected ESC, got %v", res.Vcode)
	}
	if mods.ModTapped != 0 {
		t.Errorf("expected mod_tapped cleared, got %#x", mods.ModTapped)
	}
	want := []keycode.KeyEvent{
		keycode.Up(keycode.VC_LCTRL),
		keycode.Down(keycode.FromScancode(keycode.SC_ESC)),
		keycode.Up(keycode.FromScancode(keycode.SC_ESC)),
	}
	if len(res.Prepend) != len(want) {
		t.Fatalf("expected %d prepended events, got %d: %+v", len(want), len(res.Prepend), res.Prepend)
	}
	for i := range want {
		if res.Prepend[i] != want[i] {
			t.Errorf("prepend[%d] = %+v, want %+v", i, res.Prepend[i], want[i])
		}
	}
}

func TestTapHoldMakeAndBreak(t *testing.T) {
	var tbl Table
	realKey := keycode.FromScancode(keycode.SC_TAB)
	tbl.Set(keycode.SC_A, Entry{IfTapHeld: realKey, HasIfTapHeld: true})
	var mods modifier.State

	madeRes := tbl.Process(keycode.SC_A, true, false, true, &mods)
	if madeRes.Vcode != realKey {
		t.Fatalf("expected make vcode %v, got %v", realKey, madeRes.Vcode)
	}
	if !mods.TapAndHoldActive() || mods.TapAndHoldScancode != keycode.SC_A {
		t.Fatal("expected tap-and-hold to be active on SC_A")
	}
	if len(madeRes.Prepend) != 1 || madeRes.Prepend[0] != keycode.Down(realKey) {
		t.Errorf("expected a single down(realKey) prepend, got %+v", madeRes.Prepend)
	}

	// A second activation while one is already active must be rejected.
	tbl.Set(keycode.SC_Q, Entry{IfTapHeld: realKey, HasIfTapHeld: true})
	rej := tbl.Process(keycode.SC_Q, true, false, true, &mods)
	if !rej.Rejected {
		t.Error("expected second tap-and-hold activation to be rejected")
	}

	brk := tbl.Process(keycode.SC_A, false, false, false, &mods)
	if brk.Vcode != realKey {
		t.Fatalf("expected break vcode %v, got %v", realKey, brk.Vcode)
	}
	if mods.TapAndHoldActive() {
		t.Error("expected tap-and-hold cleared after break")
	}
	if len(brk.Prepend) != 1 || brk.Prepend[0] != keycode.Up(realKey) {
		t.Errorf("expected a single up(realKey) prepend on break, got %+v", brk.Prepend)
	}
}

func TestAutorepeatSuppression(t *testing.T) {
	var tbl Table
	realKey := keycode.FromScancode(keycode.SC_TAB)
	tbl.Set(keycode.SC_A, Entry{IfTapHeld: realKey, HasIfTapHeld: true})
	var mods modifier.State
	tbl.Process(keycode.SC_A, true, false, true, &mods)

	// Autorepeat downstroke while tap-and-hold is active must be suppressed to NOP.
	res := tbl.Process(keycode.SC_A, true, false, false, &mods)
	if res.Vcode != keycode.VC_NOP {
		t.Errorf("expected NOP suppression, got %v", res.Vcode)
	}
}

func TestDuplicateRewireIgnoresLater(t *testing.T) {
	var tbl Table
	if ok := tbl.Set(keycode.SC_CAPSLOCK, Entry{Out: keycode.VC_LCTRL, HasOut: true}); !ok {
		t.Fatal("expected first Set to succeed")
	}
	if ok := tbl.Set(keycode.SC_CAPSLOCK, Entry{Out: keycode.VC_LALT, HasOut: true}); ok {
		t.Fatal("expected duplicate Set to be rejected")
	}
	if got := tbl.Get(keycode.SC_CAPSLOCK).Out; got != keycode.VC_LCTRL {
		t.Errorf("expected original rewire to survive, got %v", got)
	}
}
