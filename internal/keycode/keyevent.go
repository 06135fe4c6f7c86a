package keycode

// KeyEvent is one transformed keystroke flowing through the pipeline
// after rewire/combo/alpha (spec.md §3): `{ vcode, is_down }`.
type KeyEvent struct {
	Vcode  Vcode
	IsDown bool
}

// Down builds a down KeyEvent for v.
func Down(v Vcode) KeyEvent { return KeyEvent{Vcode: v, IsDown: true} }

// Up builds an up KeyEvent for v.
func Up(v Vcode) KeyEvent { return KeyEvent{Vcode: v, IsDown: false} }
