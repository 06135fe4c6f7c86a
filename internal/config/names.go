package config

import (
	"fmt"
	"strings"

	"github.com/capsicain-go/capsicain/internal/keycode"
)

// scancodeNames maps the TOML-facing key name (the SC_ constant's suffix)
// to its scancode, mirroring the teacher's keyNameMap in
// internal/hotkey/hotkey_linux.go.
var scancodeNames = map[string]keycode.Scancode{
	"ESC": keycode.SC_ESC, "1": keycode.SC_1, "2": keycode.SC_2, "3": keycode.SC_3,
	"4": keycode.SC_4, "5": keycode.SC_5, "6": keycode.SC_6, "7": keycode.SC_7,
	"8": keycode.SC_8, "9": keycode.SC_9, "0": keycode.SC_0,
	"MINUS": keycode.SC_MINUS, "EQUAL": keycode.SC_EQUAL, "BACKSPACE": keycode.SC_BACKSPACE,
	"TAB": keycode.SC_TAB,
	"Q":   keycode.SC_Q, "W": keycode.SC_W, "E": keycode.SC_E, "R": keycode.SC_R,
	"T": keycode.SC_T, "Y": keycode.SC_Y, "U": keycode.SC_U, "I": keycode.SC_I,
	"O": keycode.SC_O, "P": keycode.SC_P,
	"LEFTBRACE": keycode.SC_LEFTBRACE, "RIGHTBRACE": keycode.SC_RIGHTBRACE,
	"ENTER": keycode.SC_ENTER, "LEFTCTRL": keycode.SC_LEFTCTRL,
	"A": keycode.SC_A, "S": keycode.SC_S, "D": keycode.SC_D, "F": keycode.SC_F,
	"G": keycode.SC_G, "H": keycode.SC_H, "J": keycode.SC_J, "K": keycode.SC_K,
	"L": keycode.SC_L, "SEMICOLON": keycode.SC_SEMICOLON, "APOSTROPHE": keycode.SC_APOSTROPHE,
	"GRAVE": keycode.SC_GRAVE, "LEFTSHIFT": keycode.SC_LEFTSHIFT, "BACKSLASH": keycode.SC_BACKSLASH,
	"Z": keycode.SC_Z, "X": keycode.SC_X, "C": keycode.SC_C, "V": keycode.SC_V,
	"B": keycode.SC_B, "N": keycode.SC_N, "M": keycode.SC_M,
	"COMMA": keycode.SC_COMMA, "DOT": keycode.SC_DOT, "SLASH": keycode.SC_SLASH,
	"RIGHTSHIFT": keycode.SC_RIGHTSHIFT, "KPASTERISK": keycode.SC_KPASTERISK,
	"LEFTALT": keycode.SC_LEFTALT, "SPACE": keycode.SC_SPACE, "CAPSLOCK": keycode.SC_CAPSLOCK,
	"F1": keycode.SC_F1, "F2": keycode.SC_F2, "F3": keycode.SC_F3, "F4": keycode.SC_F4,
	"F5": keycode.SC_F5, "F6": keycode.SC_F6, "F7": keycode.SC_F7, "F8": keycode.SC_F8,
	"F9": keycode.SC_F9, "F10": keycode.SC_F10,
	"NUMLOCK": keycode.SC_NUMLOCK, "SCROLLLOCK": keycode.SC_SCROLLLOCK,
	"F11": keycode.SC_F11, "F12": keycode.SC_F12,
	"RIGHTCTRL": keycode.SC_RIGHTCTRL, "SYSRQ": keycode.SC_SYSRQ, "PRINT": keycode.SC_PRINT,
	"RIGHTALT": keycode.SC_RIGHTALT,
	"HOME":     keycode.SC_HOME, "UP": keycode.SC_UP, "PAGEUP": keycode.SC_PAGEUP,
	"LEFT": keycode.SC_LEFT, "RIGHT": keycode.SC_RIGHT, "END": keycode.SC_END,
	"DOWN": keycode.SC_DOWN, "PAGEDOWN": keycode.SC_PAGEDOWN,
	"INSERT": keycode.SC_INSERT, "DELETE": keycode.SC_DELETE, "PAUSE_SC": keycode.SC_PAUSE,
	"LEFTMETA": keycode.SC_LEFTMETA, "RIGHTMETA": keycode.SC_RIGHTMETA,
}

// vcodeNames extends scancodeNames (every scancode aliases a plain vcode)
// with the synthetic tokens from spec.md §6's registry.
var vcodeNames = func() map[string]keycode.Vcode {
	m := make(map[string]keycode.Vcode, len(scancodeNames)+32)
	for name, sc := range scancodeNames {
		m[name] = keycode.FromScancode(sc)
	}
	m["LCTRL"] = keycode.VC_LCTRL
	m["LSHIFT"] = keycode.VC_LSHIFT
	m["LALT"] = keycode.VC_LALT
	m["LWIN"] = keycode.VC_LWIN
	m["RCTRL"] = keycode.VC_RCTRL
	m["RSHIFT"] = keycode.VC_RSHIFT
	m["RALT"] = keycode.VC_RALT
	m["RWIN"] = keycode.VC_RWIN
	m["MOD5"] = keycode.VC_MOD5
	m["MOD6"] = keycode.VC_MOD6
	m["MOD7"] = keycode.VC_MOD7
	m["MOD8"] = keycode.VC_MOD8
	m["MOD9"] = keycode.VC_MOD9
	m["MOD10"] = keycode.VC_MOD10
	m["MOD11"] = keycode.VC_MOD11
	m["MOD12"] = keycode.VC_MOD12
	m["PAUSE"] = keycode.VC_PAUSE
	m["CAPSON"] = keycode.VC_CAPSON
	m["CAPSOFF"] = keycode.VC_CAPSOFF
	m["CONFIGSWITCH"] = keycode.VC_CONFIGSWITCH
	m["CONFIGPREVIOUS"] = keycode.VC_CONFIGPREVIOUS
	m["SLEEP"] = keycode.VC_SLEEP
	m["DEADKEY"] = keycode.VC_DEADKEY
	m["RECORDMACRO"] = keycode.VC_RECORDMACRO
	m["RECORDSECRETMACRO"] = keycode.VC_RECORDSECRETMACRO
	m["PLAYMACRO"] = keycode.VC_PLAYMACRO
	m["OBFUSCATED_SEQUENCE_START"] = keycode.VC_OBFUSCATED_SEQUENCE_START
	m["TEMPRELEASEKEYS"] = keycode.VC_TEMPRELEASEKEYS
	m["TEMPRESTOREKEYS"] = keycode.VC_TEMPRESTOREKEYS
	m["AHK_HOTKEY1"] = keycode.VC_AHK_HOTKEY1
	m["AHK_HOTKEY2"] = keycode.VC_AHK_HOTKEY2
	return m
}()

// ScancodeByName resolves a TOML-facing key name to a scancode.
func ScancodeByName(name string) (keycode.Scancode, error) {
	sc, ok := scancodeNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown scancode name: %q", name)
	}
	return sc, nil
}

// VcodeByName resolves a TOML-facing key or opcode name to a vcode.
func VcodeByName(name string) (keycode.Vcode, error) {
	v, ok := vcodeNames[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown vcode name: %q", name)
	}
	return v, nil
}

// ModMaskByNames ORs together the bit_of() of each named modifier vcode,
// returning an error for any name that isn't a recognized modifier.
func ModMaskByNames(names []string) (uint16, error) {
	var mask uint16
	for _, n := range names {
		v, err := VcodeByName(n)
		if err != nil {
			return 0, err
		}
		if !keycode.IsModifier(v) {
			return 0, fmt.Errorf("%q is not a modifier vcode", n)
		}
		mask |= keycode.BitOf(v)
	}
	return mask, nil
}
