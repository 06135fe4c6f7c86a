package keycode

import "testing"

func TestBitOfModifiers(t *testing.T) {
	seen := map[uint16]Vcode{}
	for _, v := range ModifierVcodes {
		b := BitOf(v)
		if b == 0 {
			t.Fatalf("modifier %v has no bit assigned", v)
		}
		if prior, ok := seen[b]; ok {
			t.Fatalf("vcodes %v and %v share bit %#x", prior, v, b)
		}
		seen[b] = v
	}
}

func TestBitOfNonModifier(t *testing.T) {
	if b := BitOf(FromScancode(SC_A)); b != 0 {
		t.Errorf("expected SC_A to own no modifier bit, got %#x", b)
	}
}

func TestIsControlOpcode(t *testing.T) {
	cases := []struct {
		v    Vcode
		want bool
	}{
		{FromScancode(SC_A), false},
		{VC_LCTRL, false},
		{VC_MOD5, true},
		{VC_SLEEP, true},
		{VC_PAUSE, true},
	}
	for _, c := range cases {
		if got := IsControlOpcode(c.v); got != c.want {
			t.Errorf("IsControlOpcode(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestFromScancodeRoundTrip(t *testing.T) {
	v := FromScancode(SC_A)
	if ToScancode(v) != SC_A {
		t.Errorf("round trip broke: got %v", ToScancode(v))
	}
	if IsExtended(v) {
		t.Error("plain alias should not be extended")
	}
}

func TestLabelFallsBackToHex(t *testing.T) {
	if got := Label(0x0FFF); got != "0x0FFF" {
		t.Errorf("expected hex fallback, got %s", got)
	}
	if got := Label(VC_SLEEP); got != "SLEEP" {
		t.Errorf("expected SLEEP, got %s", got)
	}
}
