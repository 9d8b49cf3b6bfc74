// Command echokeys is a twelve key instrument with a listen and repeat
// melody game. Run "echokeys play" for the windowed instrument.
package main

import (
	"log/slog"

	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/cmd"
	"github.com/echokeys/echokeys/version"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:          "echokeys",
	Short:        "Twelve key instrument with a listen and repeat melody game",
	Long:         `Play one octave from middle C on the computer keyboard, the mouse or a MIDI keyboard. Hold the game mode combo to unlock a game where a random melody of five notes has to be played back.`,
	Version:      version.VersionOrHash,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "instrument config `file` (default: config.yml in the user config dir)")
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}

// setup returns the logger and the config every command starts with.
func setup() (*slog.Logger, echokeys.Config, error) {
	log := cmd.NewLogger(verbose)
	slog.SetDefault(log)
	config, err := cmd.LoadConfig(configPath, log)
	return log, config, err
}
