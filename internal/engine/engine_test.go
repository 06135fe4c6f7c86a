package engine

import (
	"testing"

	"github.com/capsicain-go/capsicain/internal/config"
	"github.com/capsicain-go/capsicain/internal/keycode"
	"github.com/capsicain-go/capsicain/internal/rawevent"
)

type fakeInjector struct {
	sent         []keycode.KeyEvent
	tempReleased int
	tempRestored int
	paused       int
	releasedAll  int
	leds         [][3]bool
}

func (f *fakeInjector) Send(ev keycode.KeyEvent) { f.sent = append(f.sent, ev) }
func (f *fakeInjector) TempRelease()             { f.tempReleased++ }
func (f *fakeInjector) TempRestore()             { f.tempRestored++ }
func (f *fakeInjector) Pause()                   { f.paused++ }
func (f *fakeInjector) ReleaseAll()               { f.releasedAll++ }
func (f *fakeInjector) SetLEDs(caps, num, scroll bool) error {
	f.leds = append(f.leds, [3]bool{caps, num, scroll})
	return nil
}

func down(code uint8) rawevent.Event { return rawevent.Event{Code: code} }
func up(code uint8) rawevent.Event   { return rawevent.Event{Code: code, State: rawevent.StateRelease} }

func loaderFor(cfg *config.Config) ConfigLoader {
	return func(n uint8) (*config.Config, error) { return cfg, nil }
}

func newTestEngine(t *testing.T, cfg *config.Config) (*Engine, *fakeInjector) {
	t.Helper()
	inj := &fakeInjector{}
	e, err := New(nil, inj, loaderFor(cfg), nil, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, inj
}

// TestScenarioS1SimpleRewire covers spec.md §8 S1: CapsLock -> LCtrl.
func TestScenarioS1SimpleRewire(t *testing.T) {
	cfg := config.Default()
	cfg.Rewire = []config.RewireSpec{{Scancode: "CAPSLOCK", Out: "LCTRL"}}
	e, inj := newTestEngine(t, cfg)

	for _, ev := range []rawevent.Event{down(58), down(30), up(30), up(58)} {
		e.Process(ev)
	}

	want := []keycode.KeyEvent{
		keycode.Down(keycode.VC_LCTRL),
		keycode.Down(keycode.FromScancode(keycode.SC_A)),
		keycode.Up(keycode.FromScancode(keycode.SC_A)),
		keycode.Up(keycode.VC_LCTRL),
	}
	if len(inj.sent) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(inj.sent), inj.sent)
	}
	for i := range want {
		if inj.sent[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, inj.sent[i], want[i])
		}
	}
	if e.Mods.ModDown != 0 {
		t.Errorf("expected mod_down cleared, got %#x", e.Mods.ModDown)
	}
}

// TestScenarioS2TapToEscape covers spec.md §8 S2.
func TestScenarioS2TapToEscape(t *testing.T) {
	cfg := config.Default()
	cfg.Rewire = []config.RewireSpec{{Scancode: "CAPSLOCK", Out: "LCTRL", IfTapped: "ESC"}}
	e, inj := newTestEngine(t, cfg)

	e.Process(down(58))
	e.Process(up(58))

	want := []keycode.KeyEvent{
		keycode.Down(keycode.VC_LCTRL),
		keycode.Up(keycode.VC_LCTRL),
		keycode.Down(keycode.FromScancode(keycode.SC_ESC)),
		keycode.Up(keycode.FromScancode(keycode.SC_ESC)),
	}
	if len(inj.sent) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(inj.sent), inj.sent)
	}
	for i := range want {
		if inj.sent[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, inj.sent[i], want[i])
		}
	}
	if e.Mods.ModTapped != 0 {
		t.Errorf("expected mod_tapped cleared, got %#x", e.Mods.ModTapped)
	}
}

// TestScenarioS3ComboShiftTwo covers spec.md §8 S3.
func TestScenarioS3ComboShiftTwo(t *testing.T) {
	cfg := config.Default()
	cfg.Combo = []config.ComboSpec{{
		Trigger: "2", ModAnd: []string{"LSHIFT"},
		Output: []config.KeyEventSpec{
			{Vcode: "LSHIFT", Down: true},
			{Vcode: "2", Down: false},
			{Vcode: "2", Down: true},
			{Vcode: "LSHIFT", Down: false},
		},
	}}
	e, inj := newTestEngine(t, cfg)

	e.Process(down(42)) // LSHIFT
	inj.sent = nil      // only care about the combo's own output
	e.Process(down(3))  // "2"

	want := []keycode.KeyEvent{
		keycode.Down(keycode.VC_LSHIFT),
		keycode.Up(keycode.FromScancode(keycode.SC_2)),
		keycode.Down(keycode.FromScancode(keycode.SC_2)),
		keycode.Up(keycode.VC_LSHIFT),
	}
	if len(inj.sent) != len(want) {
		t.Fatalf("expected %d events, got %d: %+v", len(want), len(inj.sent), inj.sent)
	}
	for i := range want {
		if inj.sent[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, inj.sent[i], want[i])
		}
	}
	if e.Mods.ModTapped != 0 {
		t.Error("expected mod_tapped cleared after combo match")
	}
}

// TestScenarioS4SlowTapClearsTapped covers spec.md §8 S4.
func TestScenarioS4SlowTapClearsTapped(t *testing.T) {
	cfg := config.Default()
	cfg.Rewire = []config.RewireSpec{{Scancode: "CAPSLOCK", Out: "LCTRL", IfTapped: "ESC"}}
	e, _ := newTestEngine(t, cfg)

	e.Process(down(58))
	e.Process(down(58)) // autorepeat
	e.Process(up(58))

	if e.loop.Tapped {
		t.Error("expected tapped=false once slow-tap fires")
	}
	if !e.loop.TappedSlow {
		t.Error("expected slow_tap=true")
	}
	if e.Mods.ModTapped != 0 {
		t.Error("expected mod_tapped cleared by slow-tap")
	}
}

func TestMasterOffForwardsVerbatim(t *testing.T) {
	cfg := config.Default()
	cfg.Rewire = []config.RewireSpec{{Scancode: "CAPSLOCK", Out: "LCTRL"}}
	e, inj := newTestEngine(t, cfg)
	e.Global.On = false

	e.Process(down(58))

	if len(inj.sent) != 1 || inj.sent[0] != keycode.Down(keycode.FromScancode(keycode.SC_CAPSLOCK)) {
		t.Errorf("expected verbatim CAPSLOCK down, got %+v", inj.sent)
	}
}

func TestOnOffKeyTogglesAndIsDropped(t *testing.T) {
	cfg := config.Default() // Globals.CapsicainOnOffKey == "PAUSE" by default
	e, inj := newTestEngine(t, cfg)
	if !e.Global.On {
		t.Fatal("expected engine to start on")
	}

	e.Process(down(uint8(keycode.SC_PAUSE)))

	if e.Global.On {
		t.Error("expected PAUSE downstroke to toggle on/off")
	}
	if len(inj.sent) != 0 {
		t.Errorf("expected the on/off keystroke itself to be dropped, got %+v", inj.sent)
	}
}

func TestDisabledConfigForwardsVerbatim(t *testing.T) {
	cfg := config.Default()
	e, inj := newTestEngine(t, cfg)
	e.Global.ActiveConfig = DisabledConfig

	e.Process(down(30))

	if len(inj.sent) != 1 || inj.sent[0] != keycode.Down(keycode.FromScancode(keycode.SC_A)) {
		t.Errorf("expected verbatim A down, got %+v", inj.sent)
	}
}

func TestEscXRequestsExit(t *testing.T) {
	cfg := config.Default()
	e, _ := newTestEngine(t, cfg)

	e.Process(down(uint8(keycode.SC_ESC)))
	if exit := e.Process(down(uint8(keycode.SC_X))); !exit {
		t.Error("expected ESC+X to request exit")
	}
}

func TestEscDigitSwitchesConfig(t *testing.T) {
	cfg2 := config.Default()
	cfg2.Options.ConfigName = "second"
	calls := map[uint8]int{}
	loader := func(n uint8) (*config.Config, error) {
		calls[n]++
		return cfg2, nil
	}
	inj := &fakeInjector{}
	e, err := New(nil, inj, loader, nil, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	e.Process(down(uint8(keycode.SC_ESC)))
	e.Process(down(uint8(keycode.SC_2)))

	if e.Global.ActiveConfig != 2 {
		t.Errorf("expected active config 2, got %d", e.Global.ActiveConfig)
	}
	if calls[2] == 0 {
		t.Error("expected config 2 to be loaded")
	}
	if inj.releasedAll == 0 {
		t.Error("expected ReleaseAll before switching configs")
	}
}

func TestEscCommaDotAdjustsDelay(t *testing.T) {
	cfg := config.Default()
	e, _ := newTestEngine(t, cfg)
	start := e.sequencr.DelayMS

	e.Process(down(uint8(keycode.SC_ESC)))
	e.Process(down(uint8(keycode.SC_DOT)))
	if e.sequencr.DelayMS != start+1 {
		t.Errorf("expected delay %d, got %d", start+1, e.sequencr.DelayMS)
	}

	e.Process(down(uint8(keycode.SC_COMMA)))
	e.Process(down(uint8(keycode.SC_COMMA)))
	if e.sequencr.DelayMS != start-1 {
		t.Errorf("expected delay %d, got %d", start-1, e.sequencr.DelayMS)
	}
}
