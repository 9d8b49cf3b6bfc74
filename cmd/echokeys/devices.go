package main

import (
	"fmt"

	"github.com/echokeys/echokeys/cmd"
	"github.com/echokeys/echokeys/engine"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List MIDI input devices",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		midiContext := cmd.NewMidiContext(engine.NewBroker())
		defer midiContext.Close()
		if s := midiContext.Support(); s != engine.MIDISupported {
			return fmt.Errorf("MIDI input %v", s)
		}
		n := 0
		for input := range midiContext.Inputs {
			fmt.Fprintln(c.OutOrStdout(), input.String())
			n++
		}
		if n == 0 {
			fmt.Fprintln(c.OutOrStdout(), "no MIDI input devices")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
