// Package macro implements the record/playback slots, XOR obfuscation,
// and start/stop trimming invariants of spec.md §3 ("recording_macro",
// "recorded_macros", "secret_playback", "secret_recording") and §4.12.
package macro

import (
	"fmt"

	"github.com/capsicain-go/capsicain/internal/keycode"
)

const (
	// NumSlots is the number of macro slots, slot 0 being the "hard"
	// macro (spec.md §3: "None / 0 for the 'hard' macro / 1..N for named
	// slots").
	NumSlots = 10

	// MaxLength is MAX_MACRO_LENGTH (spec.md §4.10): recording auto-stops
	// once the buffer reaches MaxLength-2.
	MaxLength = 4096

	// obfuscationKey is the XOR mask for OBFUSCATED_SEQUENCE_START bodies
	// (spec.md §8 property 7: self-inverse obfuscation, not security).
	obfuscationKey = 0x5555
)

// Store holds every macro slot plus the in-progress recording state.
type Store struct {
	Macros         [NumSlots][]keycode.KeyEvent
	Recording      bool
	Slot           int
	Secret         bool
	SecretPlayback bool
}

// Obfuscate XORs v with the obfuscation key; applying it twice returns v
// (spec.md §8 property 7).
func Obfuscate(v keycode.Vcode) keycode.Vcode {
	return v ^ obfuscationKey
}

// Start begins recording into slot, obfuscating recorded vcodes if secret
// is set (RECORDSECRETMACRO). Re-issuing RECORDMACRO for the hard slot (0)
// while it is already recording stops it instead of erroring, matching the
// "second start for the 'hard' slot" stop condition in spec.md §3.
func (s *Store) Start(slot int, secret bool) (started bool, err error) {
	if slot < 0 || slot >= NumSlots {
		return false, fmt.Errorf("macro slot %d out of range [0,%d)", slot, NumSlots)
	}
	if s.Recording {
		if slot == 0 && s.Slot == 0 {
			s.Stop()
			return false, nil
		}
		return false, fmt.Errorf("already recording macro slot %d", s.Slot)
	}
	s.Recording = true
	s.Slot = slot
	s.Secret = secret
	s.Macros[slot] = nil
	return true, nil
}

// Append adds ev to the active recording (no-op if not recording),
// obfuscating the vcode when the active recording is secret. It reports
// whether the append forced an auto-stop due to MaxLength (spec.md §4.10).
func (s *Store) Append(ev keycode.KeyEvent) (autoStopped bool) {
	if !s.Recording {
		return false
	}
	out := ev
	if s.Secret {
		out.Vcode = Obfuscate(out.Vcode)
	}
	s.Macros[s.Slot] = append(s.Macros[s.Slot], out)
	if len(s.Macros[s.Slot]) >= MaxLength-2 {
		s.Stop()
		return true
	}
	return false
}

// Stop ends the active recording (no-op if not recording), trims the
// activating shortcut's own down/up edges, and wraps the body in
// TEMPRELEASEKEYS/TEMPRESTOREKEYS (spec.md §4.12). It returns the final
// wrapped body.
func (s *Store) Stop() []keycode.KeyEvent {
	if !s.Recording {
		return nil
	}
	slot := s.Slot
	s.Recording = false

	body := s.Macros[slot]
	// The press of the shortcut that stopped recording lands at the end of
	// the body: pop trailing down-strokes.
	for len(body) > 0 && body[len(body)-1].IsDown {
		body = body[:len(body)-1]
	}
	// The release of the shortcut that started recording lands at the
	// start of the body: pop leading up-strokes.
	i := 0
	for i < len(body) && !body[i].IsDown {
		i++
	}
	body = body[i:]

	wrapped := make([]keycode.KeyEvent, 0, len(body)+3)
	wrapped = append(wrapped, keycode.Down(keycode.VC_TEMPRELEASEKEYS))
	restore := keycode.VC_TEMPRESTOREKEYS
	if s.Secret {
		// Mark the obfuscated body so playback XORs every later event back,
		// including the closing TEMPRESTOREKEYS.
		wrapped = append(wrapped, keycode.Down(keycode.VC_OBFUSCATED_SEQUENCE_START))
		restore = Obfuscate(restore)
	}
	wrapped = append(wrapped, body...)
	wrapped = append(wrapped, keycode.Down(restore))

	s.Macros[slot] = wrapped
	return wrapped
}

// Get returns the recorded body for slot and whether anything is recorded
// there (spec.md §7 "User command failure": playing an unrecorded macro).
func (s *Store) Get(slot int) ([]keycode.KeyEvent, bool) {
	if slot < 0 || slot >= NumSlots {
		return nil, false
	}
	m := s.Macros[slot]
	return m, len(m) > 0
}
