package engine

import (
	"fmt"
	"log"

	"github.com/capsicain-go/capsicain/internal/alpha"
	"github.com/capsicain-go/capsicain/internal/capture"
	"github.com/capsicain-go/capsicain/internal/config"
	"github.com/capsicain-go/capsicain/internal/keycode"
	"github.com/capsicain-go/capsicain/internal/macro"
	"github.com/capsicain-go/capsicain/internal/modifier"
	"github.com/capsicain-go/capsicain/internal/rawevent"
	"github.com/capsicain-go/capsicain/internal/sequence"
	"github.com/capsicain-go/capsicain/internal/tapdetect"
)

// Injector is what the engine needs beyond sequence.Injector: the
// synthetic PAUSE emitter and the teardown/LED-resync hooks used outside
// of ordinary per-key dispatch. Satisfied by internal/inject.Tracker.
type Injector interface {
	sequence.Injector
	Pause()
	ReleaseAll()
	SetLEDs(capsLock, numLock, scrollLock bool) error
}

// ConfigLoader resolves a config number to its parsed document (spec.md
// §6's config collaborator), e.g. reading `config<N>.toml` from a
// directory. Config 0 (DisabledConfig) is never loaded: it is handled as
// a built-in verbatim pass-through (spec.md §4.1 step 7).
type ConfigLoader func(n uint8) (*config.Config, error)

// Engine is the dispatch loop (spec.md §4.1): one instance owns the
// capture device, the injector, and every piece of compiled config state.
type Engine struct {
	Capture   capture.Device
	Injector  Injector
	Loader    ConfigLoader
	Log       *log.Logger
	Errors    ErrorLog
	Console   Console   // optional; ESC+S/H/C/I/E notifications
	Clipboard Clipboard // optional; ESC+;

	// Debug is the ESC+D toggle; it is reported by ESC+S and ESC+I and does
	// not change what logf writes. DebugBuild gates ESC+Q, the
	// debug-build-only exit spec.md §6 names; main sets it from a build
	// tag or flag, not a Go "debug build" concept.
	Debug      bool
	DebugBuild bool

	Global GlobalState
	Mods   modifier.State
	Macros macro.Store
	loop   LoopState
	hist   history

	tables   activeTables
	onOffVC  keycode.Vcode
	sequencr sequence.Sequencer
}

// New builds an Engine for configNumber as the startup active config
// (spec.md §3 `active_config`), performing the startup LED resync
// SPEC_FULL.md §12 calls out before the loop starts.
func New(capDev capture.Device, inj Injector, loader ConfigLoader, logger *log.Logger, startupConfig uint8) (*Engine, error) {
	e := &Engine{
		Capture:  capDev,
		Injector: inj,
		Loader:   loader,
		Log:      logger,
	}
	e.sequencr = sequence.Sequencer{
		Injector: inj,
		Configs:  e,
		Mods:     &e.Mods,
		Macros:   &e.Macros,
		Log:      e.logf,
		AHKDelay: sequence.DefaultAHKDelay,
	}
	if err := e.loadConfigNumber(startupConfig); err != nil {
		return nil, fmt.Errorf("load startup config %d: %w", startupConfig, err)
	}
	e.Global.On = true
	e.resyncLEDs()
	return e, nil
}

func (e *Engine) logf(format string, args ...any) {
	if e.Log != nil {
		e.Log.Printf(format, args...)
	}
	e.Errors.Append(format, args...)
}

// loadConfigNumber installs config n as active, recompiling the rewire/
// combo/alpha tables and resolving the on/off key (spec.md §6's
// `capsicainOnOffKey` global).
func (e *Engine) loadConfigNumber(n uint8) error {
	if n == DisabledConfig {
		e.tables = activeTables{Alpha: alpha.NewIdentity()}
		e.Global.ActiveConfig = n
		e.Global.ActiveConfigName = "disabled"
		return nil
	}

	cfg, err := e.Loader(n)
	if err != nil {
		return err
	}
	built, warnings, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build config %d: %w", n, err)
	}
	for _, w := range warnings {
		e.logf("config %d: %s", n, w)
	}

	onOff, err := config.VcodeByName(cfg.Globals.CapsicainOnOffKey)
	if err != nil {
		return fmt.Errorf("on/off key %q: %w", cfg.Globals.CapsicainOnOffKey, err)
	}

	e.tables = activeTables{
		Rewire:  built.Rewire,
		Combos:  built.Combos,
		Alpha:   built.Alpha,
		Options: cfg.Options,
		Globals: cfg.Globals,
		Name:    cfg.Options.ConfigName,
	}
	e.onOffVC = onOff
	e.Global.ActiveConfig = n
	e.Global.ActiveConfigName = cfg.Options.ConfigName
	e.sequencr.DelayMS = cfg.Options.DelayForKeySequenceMS
	return nil
}

// SwitchConfig implements sequence.ConfigSwitcher (CONFIGSWITCH, spec.md
// §6). It releases every currently-injected key first so a rewire/combo
// that doesn't exist under the new config can't leave a key stuck down.
func (e *Engine) SwitchConfig(n uint8) error {
	prev := e.Global.ActiveConfig
	e.Injector.ReleaseAll()
	if err := e.loadConfigNumber(n); err != nil {
		return err
	}
	e.Global.PreviousConfig = prev
	return nil
}

// SwitchToPrevious implements CONFIGPREVIOUS (SPEC_FULL.md §12): swap
// active and previous, then switch.
func (e *Engine) SwitchToPrevious() error {
	return e.SwitchConfig(e.Global.PreviousConfig)
}

// Run reads and dispatches raw events until Capture.Read returns an error
// (driver failure, spec.md §7) or a command requests exit.
func (e *Engine) Run() error {
	for {
		ev, err := e.Capture.Read()
		if err != nil {
			e.reset()
			return fmt.Errorf("capture read: %w", err)
		}
		if exit := e.Process(ev); exit {
			e.reset()
			return nil
		}
	}
}

// Process runs one raw event through the full dispatch loop (spec.md
// §4.1, steps 1-12), returning true when an ESC command requested exit.
func (e *Engine) Process(ev rawevent.Event) (exit bool) {
	e.hist.push(ev)

	// Step 1: sanity.
	if !rawevent.Valid(ev.Code) {
		e.logf("dropping invalid scancode %d", ev.Code)
		return false
	}

	// Step 2: on/off key.
	if e.checkOnOffKey(ev) {
		return false
	}

	// Step 3: master enable.
	if !e.Global.On {
		e.forwardVerbatim(ev)
		return false
	}

	// Step 4/5: device filter and identity refresh. This engine owns a
	// single capture.Device, so "process only first keyboard" is always
	// satisfied and RefreshDeviceIdentity (called once by main at
	// startup) already set Global.IsApple; see DESIGN.md for the
	// multi-device fan-in this doesn't attempt.

	// Step 6: ESC command handling.
	if ev.Code == uint8(keycode.SC_ESC) {
		e.Global.RealEscapeDown = ev.Down()
		if ev.Down() && e.Macros.Recording {
			body := e.Macros.Stop()
			e.sequencr.Play(body)
		}
		return false
	}
	if e.Global.RealEscapeDown && ev.Down() {
		return e.dispatchCommand(ev.Code)
	}

	// Step 7: disabled config forwards verbatim.
	if e.Global.ActiveConfig == DisabledConfig {
		e.forwardVerbatim(ev)
		return false
	}

	// Step 8: Apple ALT<->WIN flip.
	sc := keycode.Scancode(ev.Code)
	if e.tables.Options.FlipAltWinOnAppleKeyboards && e.Global.IsApple {
		sc = flipAppleAltWin(sc)
	}

	// Step 9: messy-key canonicalization.
	outcome := canonicalizeMessyKey(ev, e.hist.prev1, e.Mods.ModDown, e.tables.Globals.TranslateMessyKeys, e.tables.Globals.ProtectConsole)
	if outcome.Drop {
		return false
	}

	e.loop.reset()
	e.loop.Scancode = sc
	e.loop.IsDown = ev.Down()

	if outcome.Retarget {
		e.processRetargeted(outcome.Vcode)
	} else {
		e.processOrdinary(sc)
	}

	// Step 11: clear mod_tapped for non-modifiers.
	if !e.loop.IsModifier {
		e.Mods.ClearTapped()
	}

	// Step 12: emit.
	e.emit()
	return false
}

// processOrdinary runs steps 10a-10e (tap detect -> rewire -> modifier ->
// combo -> alpha) for a scancode going through the rewire table.
func (e *Engine) processOrdinary(sc keycode.Scancode) {
	td := tapdetect.Detect(e.hist.prev2, e.hist.prev1, e.hist.current)
	e.loop.Tapped, e.loop.TappedSlow, e.loop.TapHoldMake = td.Tapped, td.SlowTap, td.TapHoldMake

	res := e.tables.Rewire.Process(sc, e.loop.IsDown, td.Tapped, td.TapHoldMake, &e.Mods)
	if res.Rejected {
		e.logf("tap-and-hold already active, ignoring second activation on scancode %d", sc)
	}
	e.loop.ResultSequence = append(e.loop.ResultSequence, res.Prepend...)
	e.loop.Vcode = res.Vcode
	e.loop.IsModifier = res.IsModifier

	e.Mods.Update(e.loop.Vcode, e.loop.IsDown, td.Tapped, td.SlowTap)
	e.matchComboAndAlpha()
}

// processRetargeted handles a vcode forced by messy-key canonicalization:
// it bypasses the rewire table but still runs modifier/combo/alpha.
func (e *Engine) processRetargeted(v keycode.Vcode) {
	e.loop.Vcode = v
	e.loop.IsModifier = keycode.IsModifier(v)
	e.Mods.Update(v, e.loop.IsDown, false, false)
	e.matchComboAndAlpha()
}

func (e *Engine) matchComboAndAlpha() {
	if e.loop.IsDown {
		if out, matched := e.tables.Combos.Match(e.loop.Vcode, &e.Mods); matched {
			e.loop.ResultSequence = append([]keycode.KeyEvent{}, out...)
			e.Mods.ClearTapped()
			return
		}
		if !e.loop.IsModifier {
			e.Mods.ActiveDeadkey = keycode.VC_NOP
		}
	}

	alphaOpts := alpha.Options{
		LCtrlOrLWinBlocksAlpha: e.tables.Options.LCtrlLWinBlocksAlpha,
		FlipYZ:                 e.tables.Options.FlipZY,
	}
	e.loop.Vcode = e.tables.Alpha.Apply(e.loop.Vcode, e.loop.IsModifier, e.Mods.ModDown, alphaOpts)
}

// emit implements spec.md §4.8: play the scripted sequence if combo/
// rewire produced one, else inject the single transformed event.
func (e *Engine) emit() {
	if len(e.loop.ResultSequence) > 0 {
		e.sequencr.Play(e.loop.ResultSequence)
		return
	}
	e.Injector.Send(keycode.KeyEvent{Vcode: e.loop.Vcode, IsDown: e.loop.IsDown})
}

// forwardVerbatim sends a raw event through untransformed (spec.md §4.1
// steps 3 and 7: master-off and disabled-config both forward as-is).
func (e *Engine) forwardVerbatim(ev rawevent.Event) {
	v := keycode.FromScancode(keycode.Scancode(ev.Code))
	e.Injector.Send(keycode.KeyEvent{Vcode: v, IsDown: ev.Down()})
}

// checkOnOffKey implements spec.md §4.1 step 2. It recognizes either a
// plain configured scancode, or (when the on/off key is PAUSE) both the
// direct evdev KEY_PAUSE event and the legacy LCtrl[esc]+NumLock pair a
// non-evdev capture backend could deliver.
func (e *Engine) checkOnOffKey(ev rawevent.Event) (handled bool) {
	if e.onOffVC == keycode.VC_PAUSE {
		if ev.Code == uint8(keycode.SC_PAUSE) {
			if ev.Down() {
				e.Global.On = !e.Global.On
			}
			return true
		}
		if ev.Code == uint8(keycode.SC_LEFTCTRL) && ev.Esc() != 0 {
			return true
		}
		if ev.Code == uint8(keycode.SC_NUMLOCK) && e.hist.prev1.Code == uint8(keycode.SC_LEFTCTRL) && e.hist.prev1.Esc() != 0 {
			if ev.Down() {
				e.Global.On = !e.Global.On
			}
			return true
		}
		return false
	}

	if e.onOffVC <= 0xFF && ev.Code == uint8(keycode.ToScancode(e.onOffVC)) {
		if ev.Down() {
			e.Global.On = !e.Global.On
		}
		return true
	}
	return false
}

// flipAppleAltWin swaps LAlt<->LWin and RAlt<->RWin at the scancode level
// (spec.md §4.1 step 8; the only place a scancode itself is rewritten).
func flipAppleAltWin(sc keycode.Scancode) keycode.Scancode {
	switch sc {
	case keycode.SC_LEFTALT:
		return keycode.SC_LEFTMETA
	case keycode.SC_LEFTMETA:
		return keycode.SC_LEFTALT
	case keycode.SC_RIGHTALT:
		return keycode.SC_RIGHTMETA
	case keycode.SC_RIGHTMETA:
		return keycode.SC_RIGHTALT
	default:
		return sc
	}
}

// RefreshDeviceIdentity implements spec.md §4.1 step 5: called by the
// caller (typically main, once per newly observed device id) to set
// is_apple by substring match.
func (e *Engine) RefreshDeviceIdentity(id string) {
	e.Global.DeviceID = id
	e.Global.IsApple = isAppleHardwareID(id)
}

// resyncLEDs implements the startup LED resync SPEC_FULL.md §12 names:
// NumLock on, Caps off, ScrollLock off, unless the on/off key is one of
// those locks (in which case its LED instead reflects Global.On).
func (e *Engine) resyncLEDs() {
	caps, num, scroll := false, true, false
	switch e.onOffVC {
	case keycode.FromScancode(keycode.SC_CAPSLOCK):
		caps = e.Global.On
	case keycode.FromScancode(keycode.SC_NUMLOCK):
		num = e.Global.On
	case keycode.FromScancode(keycode.SC_SCROLLLOCK):
		scroll = e.Global.On
	}
	if err := e.Injector.SetLEDs(caps, num, scroll); err != nil {
		e.logf("LED resync: %v", err)
	}
}

// reset implements spec.md §4.13: release every held output, clear loop
// and modifier state, preserve active config and recorded macros, and
// resync lock-key LEDs to baseline.
func (e *Engine) reset() {
	e.Injector.ReleaseAll()
	e.loop.reset()
	e.Mods.Reset()
	e.hist = history{}
	e.resyncLEDs()
}
