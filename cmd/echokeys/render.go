package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/echokeys/echokeys/cmd"
	"github.com/echokeys/echokeys/engine/offline"
	"github.com/echokeys/echokeys/report"
	"github.com/spf13/cobra"
)

var (
	renderSeed   int64
	renderAnswer string
	renderRaw    bool
	renderFloat  bool
	renderMIDI   string
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] output.wav",
	Short: "Render a seeded round to an audio file",
	Long: `Plays one round offline: the melody chosen by --seed is cued exactly as in
the game and rendered to a .wav (or headerless .raw) file. With --answer, the
given notes are played back after the cue and the round is scored.`,
	Example: `  echokeys render --seed 7 round.wav
  echokeys render --seed 7 --answer C4,E4,G4,E4,C4 --midi round.mid round.wav`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().Int64Var(&renderSeed, "seed", 1, "seed of the random melody")
	renderCmd.Flags().StringVar(&renderAnswer, "answer", "", "comma separated `notes` to play back, e.g. C4,D#4")
	renderCmd.Flags().BoolVar(&renderRaw, "raw", false, "write raw samples without a .wav header")
	renderCmd.Flags().BoolVar(&renderFloat, "float", false, "write 32-bit float samples instead of 16-bit PCM")
	renderCmd.Flags().StringVar(&renderMIDI, "midi", "", "also write the notes as a standard MIDI `file`")
	rootCmd.AddCommand(renderCmd)
}

func runRender(c *cobra.Command, args []string) error {
	log, config, err := setup()
	if err != nil {
		return err
	}
	answer, err := cmd.ParseNotes(renderAnswer)
	if err != nil {
		return err
	}
	rec, err := offline.Render(offline.Options{Config: config, Seed: renderSeed, Answer: answer, Logger: log})
	if err != nil {
		return err
	}
	var data []byte
	if renderRaw {
		data, err = rec.Audio.Raw(!renderFloat)
	} else {
		data, err = rec.Audio.Wav(!renderFloat)
	}
	if err != nil {
		return err
	}
	output := args[0]
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("could not write audio: %w", err)
	}
	log.Info("audio written", "path", output, "duration", rec.Audio.Duration())
	if renderMIDI != "" {
		if err := writeMIDI(rec, renderMIDI); err != nil {
			return err
		}
		log.Info("MIDI written", "path", renderMIDI)
	}
	fmt.Printf("melody: %v\n", rec.Melody)
	if rec.Result != nil {
		reporter, err := report.New()
		if err != nil {
			return err
		}
		return reporter.Text(os.Stdout, *rec.Result)
	}
	return nil
}

func writeMIDI(rec offline.Recording, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for MIDI file: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create MIDI file: %w", err)
	}
	if err := rec.WriteMIDI(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
