// Package alpha implements the single-character layout remap applied to
// non-modifier keys after combo matching (spec.md §3 "Alpha map", §4.7).
package alpha

import "github.com/capsicain-go/capsicain/internal/keycode"

// Map is the dense MAX_VCODES array; identity by default, writes override.
type Map struct {
	table [keycode.MaxVcodes]keycode.Vcode
	set   [keycode.MaxVcodes]bool
}

// NewIdentity builds a Map where every vcode maps to itself until
// overridden by Set.
func NewIdentity() *Map {
	return &Map{}
}

// Set overrides the mapping for from.
func (m *Map) Set(from, to keycode.Vcode) {
	m.table[from] = to
	m.set[from] = true
}

// lookup returns the mapped vcode, defaulting to identity.
func (m *Map) lookup(v keycode.Vcode) keycode.Vcode {
	if int(v) >= len(m.table) || !m.set[v] {
		return v
	}
	return m.table[v]
}

// Options gates the two behaviors spec.md §4.7 layers on top of the raw
// table lookup.
type Options struct {
	// LCtrlOrLWinBlocksAlpha skips remapping while LCtrl or LWin is held.
	LCtrlOrLWinBlocksAlpha bool
	// FlipYZ swaps SC_Y<->SC_Z after the table lookup (German keyboard
	// Y/Z transposition).
	FlipYZ bool
}

// Apply implements spec.md §4.7 in full: skip when vcode is a modifier or
// when LCtrl-or-LWin blocks alpha and either is held; else remap through
// the table; then apply the Y/Z flip if enabled.
func (m *Map) Apply(v keycode.Vcode, isModifier bool, modDown uint16, opts Options) keycode.Vcode {
	if isModifier {
		return v
	}
	if opts.LCtrlOrLWinBlocksAlpha {
		blocked := modDown&(keycode.BitOf(keycode.VC_LCTRL)|keycode.BitOf(keycode.VC_LWIN)) != 0
		if blocked {
			return v
		}
	}
	out := m.lookup(v)
	if opts.FlipYZ {
		out = flipYZ(out)
	}
	return out
}

func flipYZ(v keycode.Vcode) keycode.Vcode {
	switch v {
	case keycode.FromScancode(keycode.SC_Y):
		return keycode.FromScancode(keycode.SC_Z)
	case keycode.FromScancode(keycode.SC_Z):
		return keycode.FromScancode(keycode.SC_Y)
	default:
		return v
	}
}
