// Package cmd has the pieces shared by the commands: configuration loading,
// logging and MIDI setup.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/engine"
)

// LoadConfig reads the config file at path, or the user's config.yml if
// path is empty. Without either, the built-in defaults are used.
func LoadConfig(path string, log *slog.Logger) (echokeys.Config, error) {
	if path != "" {
		c, err := echokeys.ReadConfigFile(path)
		if err != nil {
			return echokeys.Config{}, fmt.Errorf("%s: %w", path, err)
		}
		log.Info("config loaded", "path", path)
		return c, nil
	}
	c, exists, err := echokeys.ReadUserConfig("config.yml")
	if err != nil {
		return echokeys.Config{}, fmt.Errorf("user config.yml: %w", err)
	}
	if exists {
		log.Info("user config loaded")
	}
	return c, nil
}

// NewLogger returns a text logger on stderr, at debug level if verbose.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// OpenMIDIInput opens the first input whose name starts with prefix. A
// missing device is logged, not fatal.
func OpenMIDIInput(c engine.MIDIContext, prefix string, log *slog.Logger) {
	if c.Support() != engine.MIDISupported {
		log.Warn("MIDI input unavailable", "support", c.Support())
		return
	}
	input, ok := engine.FindMIDIDeviceByPrefix(c, prefix)
	if !ok {
		log.Warn("no MIDI input device found", "prefix", prefix)
		return
	}
	if err := input.Open(); err != nil {
		log.Error("failed to open MIDI input", "device", input.String(), "err", err)
		return
	}
	log.Info("MIDI input opened", "device", input.String())
}

// ParseNotes parses a comma separated list of note names, e.g. "C4,D#4".
func ParseNotes(s string) ([]echokeys.Note, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ret := make([]echokeys.Note, len(parts))
	for i, p := range parts {
		n, err := echokeys.ParseNote(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i+1, err)
		}
		ret[i] = n
	}
	return ret, nil
}
