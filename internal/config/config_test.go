package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/capsicain-go/capsicain/internal/keycode"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.Globals.ActiveConfigOnStartup != 1 {
		t.Errorf("expected active config 1, got %d", cfg.Globals.ActiveConfigOnStartup)
	}
	if cfg.Options.DelayForKeySequenceMS != 5 {
		t.Errorf("expected delay 5ms, got %d", cfg.Options.DelayForKeySequenceMS)
	}
	if !cfg.Globals.TranslateMessyKeys {
		t.Error("expected messy-key translation enabled by default")
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Options.ConfigName != "default" {
		t.Errorf("expected default config name, got %s", cfg.Options.ConfigName)
	}
}

func TestLoadOverridesAndBuildsRewire(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[globals]
activeConfigOnStartup = 2

[options]
flipZy = true
delayForKeySequenceMS = 10

[[rewire]]
scancode = "CAPSLOCK"
out = "LCTRL"
ifTapped = "ESC"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Globals.ActiveConfigOnStartup != 2 {
		t.Errorf("expected active config 2, got %d", cfg.Globals.ActiveConfigOnStartup)
	}
	if !cfg.Options.FlipZY {
		t.Error("expected flipZy enabled")
	}

	built, warnings, err := cfg.Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	entry := built.Rewire.Get(keycode.SC_CAPSLOCK)
	if !entry.HasOut || entry.Out != keycode.VC_LCTRL {
		t.Errorf("expected CAPSLOCK rewired to LCTRL, got %+v", entry)
	}
	if !entry.HasIfTapped || entry.IfTapped != keycode.FromScancode(keycode.SC_ESC) {
		t.Errorf("expected ifTapped ESC, got %+v", entry)
	}
}

func TestBuildDuplicateRewireWarns(t *testing.T) {
	cfg := Default()
	cfg.Rewire = []RewireSpec{
		{Scancode: "CAPSLOCK", Out: "LCTRL"},
		{Scancode: "CAPSLOCK", Out: "ESC"},
	}
	built, warnings, err := cfg.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	entry := built.Rewire.Get(keycode.SC_CAPSLOCK)
	if entry.Out != keycode.VC_LCTRL {
		t.Errorf("expected first rewire to win, got %+v", entry)
	}
}

func TestBuildCombo(t *testing.T) {
	cfg := Default()
	cfg.Combo = []ComboSpec{
		{
			Trigger: "2", ModAnd: []string{"LSHIFT"},
			Output: []KeyEventSpec{
				{Vcode: "LSHIFT", Down: true},
				{Vcode: "2", Down: false},
				{Vcode: "2", Down: true},
				{Vcode: "LSHIFT", Down: false},
			},
		},
	}
	built, _, err := cfg.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(built.Combos) != 1 {
		t.Fatalf("expected one combo, got %d", len(built.Combos))
	}
	if built.Combos[0].ModAnd != keycode.BitOf(keycode.VC_LSHIFT) {
		t.Errorf("expected modAnd to carry LSHIFT's bit, got %v", built.Combos[0].ModAnd)
	}
}

func TestBuildComboRejectsUnknownModifier(t *testing.T) {
	cfg := Default()
	cfg.Combo = []ComboSpec{{Trigger: "2", ModAnd: []string{"NOT_A_MODIFIER"}}}
	if _, _, err := cfg.Build(); err == nil {
		t.Error("expected an error for an unrecognized modifier name")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Options.ConfigName = "gaming"
	cfg.Rewire = []RewireSpec{{Scancode: "CAPSLOCK", Out: "LCTRL"}}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	if loaded.Options.ConfigName != "gaming" {
		t.Errorf("expected config name gaming, got %s", loaded.Options.ConfigName)
	}
	if len(loaded.Rewire) != 1 || loaded.Rewire[0].Scancode != "CAPSLOCK" {
		t.Errorf("expected rewire entry preserved, got %+v", loaded.Rewire)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", "config.toml")

	if err := Save(path, Default()); err != nil {
		t.Fatalf("Save failed to create nested dirs: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist at %s: %v", path, err)
	}
}
