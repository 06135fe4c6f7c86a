// Package config is the config collaborator (spec.md §6): it parses a
// declarative TOML file into `{rewires, combos, alpha_map, options,
// globals}` and assembles the dense tables the pipeline consumes,
// following the teacher's Default()/Load(path)/DefaultPath() shape.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/BurntSushi/toml"

	"github.com/capsicain-go/capsicain/internal/alpha"
	"github.com/capsicain-go/capsicain/internal/combo"
	"github.com/capsicain-go/capsicain/internal/keycode"
	"github.com/capsicain-go/capsicain/internal/rewire"
)

// DisabledConfigNumber is the reserved "config 0" that forwards every
// event verbatim (spec.md §4.1 step 7).
const DisabledConfigNumber = 0

// Options holds the per-config toggles named in spec.md §6.
type Options struct {
	Debug                      bool   `toml:"debug"`
	FlipZY                     bool   `toml:"flipZy"`
	FlipAltWinOnAppleKeyboards bool   `toml:"flipAltWinOnAppleKeyboards"`
	LCtrlLWinBlocksAlpha       bool   `toml:"LControlLWinBlocksAlphaMapping"`
	ProcessOnlyFirstKeyboard   bool   `toml:"processOnlyFirstKeyboard"`
	DelayForKeySequenceMS      int    `toml:"delayForKeySequenceMS"`
	ConfigName                 string `toml:"configName"`
}

// Globals holds the process-wide settings named in spec.md §6.
type Globals struct {
	IniVersion            int    `toml:"iniVersion"`
	ActiveConfigOnStartup uint8  `toml:"activeConfigOnStartup"`
	StartMinimized        bool   `toml:"startMinimized"`
	StartInTraybar        bool   `toml:"startInTraybar"`
	StartAHK              bool   `toml:"startAHK"`
	CapsicainOnOffKey     string `toml:"capsicainOnOffKey"`
	ProtectConsole        bool   `toml:"protectConsole"`
	TranslateMessyKeys    bool   `toml:"translateMessyKeys"`
}

// RewireSpec is one TOML [[rewire]] table.
type RewireSpec struct {
	Scancode  string `toml:"scancode"`
	Out       string `toml:"out"`
	IfTapped  string `toml:"ifTapped"`
	IfTapHeld string `toml:"ifTapHeld"`
}

// KeyEventSpec is one event inside a combo's output sequence. Param, when
// set, overrides Vcode/Down with a literal payload value for an opcode
// that expects one (SLEEP ms, DEADKEY vcode, CONFIGSWITCH n, ...).
type KeyEventSpec struct {
	Vcode string `toml:"vcode"`
	Down  bool   `toml:"down"`
	Param *int   `toml:"param"`
}

// ComboSpec is one TOML [[combo]] table.
type ComboSpec struct {
	Trigger string         `toml:"trigger"`
	Deadkey string         `toml:"deadkey"`
	ModAnd  []string       `toml:"modAnd"`
	ModOr   []string       `toml:"modOr"`
	ModNot  []string       `toml:"modNot"`
	ModTap  []string       `toml:"modTap"`
	Output  []KeyEventSpec `toml:"output"`
}

// AlphaSpec is one TOML [[alpha]] override.
type AlphaSpec struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Config is the top-level parsed document (spec.md §6's
// "{rewires, combos, alpha_map, options, globals}").
type Config struct {
	Globals Globals      `toml:"globals"`
	Options Options      `toml:"options"`
	Rewire  []RewireSpec `toml:"rewire"`
	Combo   []ComboSpec  `toml:"combo"`
	Alpha   []AlphaSpec  `toml:"alpha"`
}

// Default returns a Config populated with all default values: no
// rewires, no combos, identity alpha map, config 1 active on startup.
func Default() *Config {
	return &Config{
		Globals: Globals{
			IniVersion:            1,
			ActiveConfigOnStartup: 1,
			CapsicainOnOffKey:     "PAUSE",
			TranslateMessyKeys:    true,
		},
		Options: Options{
			DelayForKeySequenceMS: 5,
			ConfigName:            "default",
		},
	}
}

// DefaultPath returns ~/.config/capsicain/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "capsicain", "config.toml")
}

// PathForNumber returns the path for config slot n (spec.md §6:
// ESC+0..9 switches between up to ten numbered configs). Config 1 is
// the unsuffixed default path, matching capsicain's historical
// "config.toml is config 1" convention; configs 2-9 get a numeric
// suffix. Config 0 is DisabledConfigNumber and never has a file.
func PathForNumber(n uint8) string {
	if n == 1 {
		return DefaultPath()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "capsicain", fmt.Sprintf("config%d.toml", n))
}

// Save writes cfg as TOML to path, creating parent directories if
// needed. The write is atomic: data lands in a temp file first and is
// renamed into place, so a crash mid-write can't corrupt the config.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".capsicain-config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Load reads the TOML config from path. If the file does not exist, it
// returns the default config without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Built is the assembled set of dense runtime tables a Config compiles to.
type Built struct {
	Rewire rewire.Table
	Combos combo.List
	Alpha  *alpha.Map
}

// Build assembles the rewire table, combo list, and alpha map from the
// parsed spec, returning non-fatal warnings for config conflicts (spec.md
// §7: "duplicate rewire, duplicate combo with different output ... log
// warning and ignore the later definition").
func (c *Config) Build() (*Built, []string, error) {
	var warnings []string

	var tbl rewire.Table
	for _, r := range c.Rewire {
		sc, err := ScancodeByName(r.Scancode)
		if err != nil {
			return nil, warnings, fmt.Errorf("rewire entry: %w", err)
		}
		entry, err := buildRewireEntry(r)
		if err != nil {
			return nil, warnings, fmt.Errorf("rewire %s: %w", r.Scancode, err)
		}
		if !tbl.Set(sc, entry) {
			warnings = append(warnings, fmt.Sprintf("duplicate rewire for scancode %s ignored", r.Scancode))
		}
	}

	var combos combo.List
	for _, cs := range c.Combo {
		built, err := buildCombo(cs)
		if err != nil {
			return nil, warnings, fmt.Errorf("combo %s: %w", cs.Trigger, err)
		}
		if dup := findDuplicateCombo(combos, built); dup != nil {
			if reflect.DeepEqual(dup.Output, built.Output) {
				continue
			}
			warnings = append(warnings, fmt.Sprintf("duplicate combo for trigger %s with a different output ignored", cs.Trigger))
			continue
		}
		combos = append(combos, built)
	}

	am := alpha.NewIdentity()
	for _, a := range c.Alpha {
		from, err := VcodeByName(a.From)
		if err != nil {
			return nil, warnings, fmt.Errorf("alpha entry: %w", err)
		}
		to, err := VcodeByName(a.To)
		if err != nil {
			return nil, warnings, fmt.Errorf("alpha entry: %w", err)
		}
		am.Set(from, to)
	}

	return &Built{Rewire: tbl, Combos: combos, Alpha: am}, warnings, nil
}

func buildRewireEntry(r RewireSpec) (rewire.Entry, error) {
	var e rewire.Entry
	if r.Out != "" {
		v, err := VcodeByName(r.Out)
		if err != nil {
			return e, err
		}
		e.Out, e.HasOut = v, true
	}
	if r.IfTapped != "" {
		v, err := VcodeByName(r.IfTapped)
		if err != nil {
			return e, err
		}
		e.IfTapped, e.HasIfTapped = v, true
	}
	if r.IfTapHeld != "" {
		v, err := VcodeByName(r.IfTapHeld)
		if err != nil {
			return e, err
		}
		e.IfTapHeld, e.HasIfTapHeld = v, true
	}
	return e, nil
}

func buildCombo(cs ComboSpec) (combo.Combo, error) {
	trigger, err := VcodeByName(cs.Trigger)
	if err != nil {
		return combo.Combo{}, err
	}
	deadkey := keycode.VC_NOP
	if cs.Deadkey != "" {
		deadkey, err = VcodeByName(cs.Deadkey)
		if err != nil {
			return combo.Combo{}, err
		}
	}
	modAnd, err := ModMaskByNames(cs.ModAnd)
	if err != nil {
		return combo.Combo{}, err
	}
	modOr, err := ModMaskByNames(cs.ModOr)
	if err != nil {
		return combo.Combo{}, err
	}
	modNot, err := ModMaskByNames(cs.ModNot)
	if err != nil {
		return combo.Combo{}, err
	}
	modTap, err := ModMaskByNames(cs.ModTap)
	if err != nil {
		return combo.Combo{}, err
	}
	output := make([]keycode.KeyEvent, 0, len(cs.Output))
	for _, ev := range cs.Output {
		if ev.Param != nil {
			output = append(output, keycode.KeyEvent{Vcode: keycode.Vcode(*ev.Param), IsDown: true})
			continue
		}
		v, err := VcodeByName(ev.Vcode)
		if err != nil {
			return combo.Combo{}, err
		}
		output = append(output, keycode.KeyEvent{Vcode: v, IsDown: ev.Down})
	}
	return combo.Combo{
		Trigger: trigger, Deadkey: deadkey,
		ModAnd: modAnd, ModOr: modOr, ModNot: modNot, ModTap: modTap,
		Output: output,
	}, nil
}

func findDuplicateCombo(combos combo.List, c combo.Combo) *combo.Combo {
	for i := range combos {
		existing := combos[i]
		if existing.Trigger == c.Trigger && existing.Deadkey == c.Deadkey &&
			existing.ModAnd == c.ModAnd && existing.ModOr == c.ModOr &&
			existing.ModNot == c.ModNot && existing.ModTap == c.ModTap {
			return &combos[i]
		}
	}
	return nil
}
