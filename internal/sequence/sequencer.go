// Package sequence implements the output sequencer: playback of a
// result_sequence of KeyEvents with embedded control opcodes (spec.md
// §4.8-§4.9).
package sequence

import (
	"time"

	"github.com/capsicain-go/capsicain/internal/keycode"
	"github.com/capsicain-go/capsicain/internal/macro"
	"github.com/capsicain-go/capsicain/internal/modifier"
)

// Injector is the sink for ordinary (non-opcode) events. It owns the
// keys_down_sent / keys_down_temp_released bookkeeping (spec.md §3,
// §4.10) — satisfied by internal/inject.Tracker.
type Injector interface {
	Send(ev keycode.KeyEvent)
	TempRelease()
	TempRestore()
	SetLEDs(capsLock, numLock, scrollLock bool) error
}

// ConfigSwitcher loads a different active config (CONFIGSWITCH /
// CONFIGPREVIOUS), reassembling the rewire/combo/alpha tables.
type ConfigSwitcher interface {
	SwitchConfig(n uint8) error
	SwitchToPrevious() error
}

// LogFunc logs one recovered error (spec.md §7: "errors are recovered
// locally... A persistent error log string is appended to").
type LogFunc func(format string, args ...any)

// AHKHotkeys are the two synthetic vcodes that get a longer inter-event
// delay than ordinary keys (spec.md §6, §4.9).
var AHKHotkeys = map[keycode.Vcode]bool{
	keycode.VC_AHK_HOTKEY1: true,
	keycode.VC_AHK_HOTKEY2: true,
}

// maxMacroDepth bounds PLAYMACRO recursion (spec.md §9: "bound recursion
// by a depth cap or by iterative expansion").
const maxMacroDepth = 8

// DefaultAHKDelay is the inter-event delay used for AHK_HOTKEY1/2 when no
// longer delay has been configured (spec.md §4.9's "or a longer default"),
// grounded on the original's DEFAULT_DELAY_FOR_AHK_MS.
const DefaultAHKDelay = 50 * time.Millisecond

// Sequencer plays back result_sequence values produced by the rewire,
// combo, and macro stages.
type Sequencer struct {
	Injector  Injector
	Configs   ConfigSwitcher
	Mods      *modifier.State
	Macros    *macro.Store
	Log       LogFunc
	DelayMS   int // delayForKeySequenceMS (1-100ms, configurable)
	AHKDelay  time.Duration
	SleepFunc func(time.Duration) // overridable for tests; defaults to time.Sleep

	depth int
}

func (s *Sequencer) sleep(d time.Duration) {
	if s.SleepFunc != nil {
		s.SleepFunc(d)
		return
	}
	time.Sleep(d)
}

func (s *Sequencer) logf(format string, args ...any) {
	if s.Log != nil {
		s.Log(format, args...)
	}
}

// Play runs one result_sequence end to end (spec.md §4.9). It is called
// both for the engine's per-tick sequence and recursively by PLAYMACRO.
func (s *Sequencer) Play(seq []keycode.KeyEvent) {
	if s.depth >= maxMacroDepth {
		s.logf("macro recursion depth exceeded, aborting nested playback")
		return
	}

	obfuscated := false
	tempReleased := false

	for i := 0; i < len(seq); i++ {
		ev := seq[i]
		v := ev.Vcode
		if obfuscated {
			v = macro.Obfuscate(v)
		}

		switch v {
		case keycode.VC_SLEEP:
			param, ok := s.consumeParam(seq, &i)
			if !ok {
				s.logf("SLEEP missing parameter at end of sequence")
				return
			}
			s.sleep(time.Duration(param) * time.Millisecond)
			continue

		case keycode.VC_DEADKEY:
			param, ok := s.consumeParam(seq, &i)
			if !ok {
				s.logf("DEADKEY missing parameter at end of sequence")
				return
			}
			s.Mods.ActiveDeadkey = keycode.Vcode(param)
			continue

		case keycode.VC_CONFIGSWITCH:
			param, ok := s.consumeParam(seq, &i)
			if !ok {
				s.logf("CONFIGSWITCH missing parameter at end of sequence")
				return
			}
			if s.Configs != nil {
				if err := s.Configs.SwitchConfig(uint8(param)); err != nil {
					s.logf("config switch failed: %v", err)
				}
			}
			continue

		case keycode.VC_CONFIGPREVIOUS:
			if s.Configs != nil {
				if err := s.Configs.SwitchToPrevious(); err != nil {
					s.logf("config switch to previous failed: %v", err)
				}
			}
			continue

		case keycode.VC_RECORDMACRO, keycode.VC_RECORDSECRETMACRO:
			param, ok := s.consumeParam(seq, &i)
			if !ok {
				s.logf("RECORDMACRO missing parameter at end of sequence")
				return
			}
			secret := v == keycode.VC_RECORDSECRETMACRO
			if _, err := s.Macros.Start(int(param), secret); err != nil {
				s.logf("start macro recording: %v", err)
			}
			continue

		case keycode.VC_PLAYMACRO:
			param, ok := s.consumeParam(seq, &i)
			if !ok {
				s.logf("PLAYMACRO missing parameter at end of sequence")
				return
			}
			body, recorded := s.Macros.Get(int(param))
			if !recorded {
				s.logf("play macro: slot %d has nothing recorded", param)
				continue
			}
			child := &Sequencer{
				Injector: s.Injector, Configs: s.Configs, Mods: s.Mods,
				Macros: s.Macros, Log: s.Log, DelayMS: s.DelayMS,
				AHKDelay: s.AHKDelay, SleepFunc: s.SleepFunc, depth: s.depth + 1,
			}
			child.Play(body)
			s.Macros.SecretPlayback = false
			continue

		case keycode.VC_OBFUSCATED_SEQUENCE_START:
			obfuscated = true
			s.Macros.SecretPlayback = true
			continue

		case keycode.VC_CAPSON, keycode.VC_CAPSOFF:
			// The original gates this on GetKeyState(VK_CAPITAL), toggling
			// CapsLock only if it isn't already in the target state. There
			// is no equivalent readback for a uinput-injected device, so
			// this forces the LED directly rather than conditionally
			// toggling it, zeroing NumLock/ScrollLock the same way
			// inject.Tracker.resyncLEDs only asserts the one lock key it
			// just saw.
			on := v == keycode.VC_CAPSON
			if err := s.Injector.SetLEDs(on, false, false); err != nil {
				s.logf("force caps lock %v: %v", on, err)
			}
			continue

		case keycode.VC_TEMPRELEASEKEYS:
			s.Injector.TempRelease()
			tempReleased = true
			continue

		case keycode.VC_TEMPRESTOREKEYS:
			if !tempReleased {
				s.logf("TEMPRESTOREKEYS without a matching TEMPRELEASEKEYS")
			}
			s.Injector.TempRestore()
			tempReleased = false
			continue
		}

		// Ordinary event.
		s.Injector.Send(keycode.KeyEvent{Vcode: v, IsDown: ev.IsDown})

		delay := time.Duration(s.DelayMS) * time.Millisecond
		if AHKHotkeys[v] && s.AHKDelay > delay {
			delay = s.AHKDelay
		}
		s.sleep(delay)
	}

	if tempReleased {
		s.logf("sequence ended with an unmatched TEMPRELEASEKEYS")
	}
}

// consumeParam reads seq[*i+1] as a control opcode's parameter, advancing
// *i past it so the outer loop never injects the parameter event itself
// (spec.md §4.9).
func (s *Sequencer) consumeParam(seq []keycode.KeyEvent, i *int) (uint16, bool) {
	if *i+1 >= len(seq) {
		return 0, false
	}
	*i++
	return uint16(seq[*i].Vcode), true
}
