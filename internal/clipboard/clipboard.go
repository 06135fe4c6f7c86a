// Package clipboard implements the ESC+; "copy macro to clipboard" command
// (spec.md §6, SPEC_FULL.md §11: github.com/atotto/clipboard). It renders a
// recorded macro body as a readable key-event script and writes it to the
// system clipboard.
package clipboard

import (
	"fmt"
	"strings"

	atclip "github.com/atotto/clipboard"

	"github.com/capsicain-go/capsicain/internal/keycode"
)

// Writer implements engine.Clipboard.
type Writer struct{}

// WriteMacro serializes body as one "<label> down|up" line per event and
// writes it to the system clipboard.
func (Writer) WriteMacro(body []keycode.KeyEvent) error {
	text := Format(body)
	if err := atclip.WriteAll(text); err != nil {
		return fmt.Errorf("write macro to clipboard: %w", err)
	}
	return nil
}

// Format renders a macro body as text, one "<label> down|up" line per
// event, using keycode.Label for the key name.
func Format(body []keycode.KeyEvent) string {
	var b strings.Builder
	for _, ev := range body {
		dir := "up"
		if ev.IsDown {
			dir = "down"
		}
		fmt.Fprintf(&b, "%s %s\n", keycode.Label(ev.Vcode), dir)
	}
	return b.String()
}
