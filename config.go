package echokeys

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type (
	// Config holds everything needed to build an instrument: envelope and
	// game timings, the combo gesture designations and the input mapping.
	Config struct {
		Synth  SynthConfig `yaml:"synth"`
		Game   GameConfig  `yaml:"game"`
		Combos ComboConfig `yaml:"combos"`
		KeyMap []Binding   `yaml:"keymap"`
	}

	SynthConfig struct {
		Waveform Waveform      `yaml:"waveform"`
		PeakGain float32       `yaml:"peakgain"`
		Attack   time.Duration `yaml:"attack"`
		Release  time.Duration `yaml:"release"`
		StopTail time.Duration `yaml:"stoptail"` // extra time after the release ramp before the voice is stopped
	}

	GameConfig struct {
		LeadIn     time.Duration `yaml:"leadin"`
		CueHold    time.Duration `yaml:"cuehold"`
		CueGap     time.Duration `yaml:"cuegap"`
		PromptHide time.Duration `yaml:"prompthide"`
	}

	ComboConfig struct {
		Duration   time.Duration `yaml:"duration"`
		GameMode   []Input       `yaml:"gamemode"`   // inputs that must all be held to open the game menu
		ToneToggle []Note        `yaml:"tonetoggle"` // notes that must all sound to flip the waveform
	}
)

//go:embed config.yml
var defaultConfigYaml []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	var c Config
	if err := decodeConfig(bytes.NewReader(defaultConfigYaml), &c); err != nil {
		panic(fmt.Errorf("failed to unmarshal default config: %w", err))
	}
	return c
}

// ReadConfig decodes YAML from r on top of the defaults: fields missing from
// r keep their default values, while a keymap given in r replaces the default
// keymap entirely.
func ReadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	if err := decodeConfig(r, &c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("could not parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ReadConfigFile reads a config file from path.
func ReadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not open config: %w", err)
	}
	defer f.Close()
	return ReadConfig(f)
}

// ReadUserConfig looks for filename in the echokeys directory of the user
// config dir. exists is false if there is no such file, in which case the
// defaults are returned.
func ReadUserConfig(filename string) (c Config, exists bool, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfig(), false, nil
	}
	path := filepath.Join(configDir, "echokeys", filename)
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), false, nil
	}
	c, err = ReadConfigFile(path)
	return c, true, err
}

func decodeConfig(r io.Reader, c *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	return dec.Decode(c)
}

// Validate checks the timings are positive, the combo designations are
// complete and the keymap is well formed.
func (c Config) Validate() error {
	if c.Synth.PeakGain <= 0 || c.Synth.PeakGain > 1 {
		return fmt.Errorf("synth.peakgain must be in (0,1], got %v", c.Synth.PeakGain)
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"synth.attack", c.Synth.Attack},
		{"synth.release", c.Synth.Release},
		{"game.cuehold", c.Game.CueHold},
		{"combos.duration", c.Combos.Duration},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", d.name, d.d)
		}
	}
	if c.Synth.StopTail < 0 || c.Game.LeadIn < 0 || c.Game.CueGap < 0 || c.Game.PromptHide < 0 {
		return errors.New("timings cannot be negative")
	}
	if len(c.Combos.GameMode) != 2 || c.Combos.GameMode[0] == c.Combos.GameMode[1] {
		return fmt.Errorf("combos.gamemode needs two distinct inputs, got %v", c.Combos.GameMode)
	}
	if len(c.Combos.ToneToggle) != 2 || c.Combos.ToneToggle[0] == c.Combos.ToneToggle[1] {
		return fmt.Errorf("combos.tonetoggle needs two distinct notes, got %v", c.Combos.ToneToggle)
	}
	for _, n := range c.Combos.ToneToggle {
		if !n.Valid() {
			return fmt.Errorf("combos.tonetoggle: %v is not in the catalog", n)
		}
	}
	if _, err := NewKeyMap(c.KeyMap); err != nil {
		return fmt.Errorf("keymap: %w", err)
	}
	return nil
}

// NewKeyMap builds the validated keymap of the config.
func (c Config) NewKeyMap() (*KeyMap, error) {
	return NewKeyMap(c.KeyMap)
}

// Write encodes the config as YAML.
func (c Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("could not encode config: %w", err)
	}
	return enc.Close()
}
