package clipboard

import (
	"testing"

	"github.com/capsicain-go/capsicain/internal/keycode"
)

func TestFormat(t *testing.T) {
	body := []keycode.KeyEvent{
		keycode.Down(keycode.VC_LCTRL),
		keycode.Down(keycode.FromScancode(keycode.SC_A)),
		keycode.Up(keycode.FromScancode(keycode.SC_A)),
		keycode.Up(keycode.VC_LCTRL),
	}
	got := Format(body)
	want := "LCtrl down\nA down\nA up\nLCtrl up\n"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
}
