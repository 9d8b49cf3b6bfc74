package gioui

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gioui.org/unit"
	"gopkg.in/yaml.v2"
)

type (
	Preferences struct {
		Window   WindowPreferences
		YmlError error `yaml:"-"`
	}

	WindowPreferences struct {
		Width     int
		Height    int
		Maximized bool `yaml:",omitempty"`
	}
)

//go:embed preferences.yml
var defaultPreferencesYaml []byte

func loadDefaultPreferences() Preferences {
	var preferences Preferences
	err := yaml.UnmarshalStrict(defaultPreferencesYaml, &preferences)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal preferences: %w", err))
	}
	return preferences
}

// ReadCustomConfigYml reads filename from the echokeys directory under the
// user config directory into target, which needs to be a pointer.
func ReadCustomConfigYml(filename string, target any) (exists bool, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return false, err
	}
	path := filepath.Join(configDir, "echokeys", filename)
	bytes, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return true, yaml.UnmarshalStrict(bytes, target)
}

// MakePreferences returns the built-in preferences overridden by the user's
// preferences.yml, if there is one.
func MakePreferences() Preferences {
	preferences := loadDefaultPreferences()
	exists, err := ReadCustomConfigYml("preferences.yml", &preferences)
	if exists {
		preferences.YmlError = err
	}
	return preferences
}

func (p Preferences) WindowSize() (unit.Dp, unit.Dp) {
	return unit.Dp(p.Window.Width), unit.Dp(p.Window.Height)
}
