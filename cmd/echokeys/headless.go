package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/cmd"
	"github.com/echokeys/echokeys/engine"
	"github.com/echokeys/echokeys/engine/httpapi"
	"github.com/echokeys/echokeys/oto"
	"github.com/echokeys/echokeys/report"
	"github.com/echokeys/echokeys/synth"
	"github.com/spf13/cobra"
)

var (
	silent  bool
	noColor bool
)

var headlessCmd = &cobra.Command{
	Use:   "headless",
	Short: "Run the instrument without a window",
	Long: `Runs the instrument without a window: notes come from a MIDI keyboard or the
HTTP API, and the game is controlled with commands typed on stdin:

  start          start a Listen & Play round
  abandon        abandon the round waiting for input
  answer NOTE    play NOTE into the round without sounding it
  on NOTE        sound NOTE until "off NOTE"
  off NOTE       release NOTE
  tone [WAVE]    toggle the waveform, or set it to sine or square
  level          print the output level
  state          print the engine state as JSON
  quit           exit

Notes are written as C4, C#4 ... B4.`,
	Args: cobra.NoArgs,
	RunE: runHeadless,
}

func init() {
	headlessCmd.Flags().StringVar(&midiInput, "midi-input", "", "connect MIDI input to matching device name `prefix`")
	headlessCmd.Flags().StringVar(&listenAddr, "listen", "", "serve the HTTP API on `addr`, e.g. localhost:8080")
	headlessCmd.Flags().BoolVar(&silent, "silent", false, "render audio without an audio device")
	headlessCmd.Flags().BoolVar(&noColor, "no-color", false, "print reports without ANSI colors")
	rootCmd.AddCommand(headlessCmd)
}

func runHeadless(c *cobra.Command, args []string) error {
	log, config, err := setup()
	if err != nil {
		return err
	}
	reporter, err := report.New()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	broker := engine.NewBroker()
	midiContext := cmd.NewMidiContext(broker)
	defer midiContext.Close()
	if c.Flags().Changed("midi-input") {
		cmd.OpenMIDIInput(midiContext, midiInput, log)
	}
	s := synth.New()
	opts := engine.Options{
		Config:    config,
		Sink:      s,
		Scheduler: engine.NewRealClock(broker),
		Presenter: cmd.NewTerminalPresenter(os.Stdout, reporter, !noColor, 30*time.Millisecond),
		Logger:    log,
	}
	if silent {
		go renderSilently(ctx, s, log)
	} else {
		audioContext, err := oto.NewContext()
		if err != nil {
			return err
		}
		defer audioContext.Close()
		opts.Audio = audioContext
		player := audioContext.Play(s.Render)
		defer player.Close()
	}
	e, err := engine.New(opts)
	if err != nil {
		return err
	}
	go e.Run(broker)
	defer closeEngine(broker)

	if listenAddr != "" {
		go func() {
			if err := httpapi.NewServer(broker, reporter, log).ListenAndServe(ctx, listenAddr); err != nil {
				log.Error("http api stopped", "err", err)
				stop()
			}
		}()
	}

	lines := make(chan string)
	go readLines(os.Stdin, lines)
	fmt.Println(`echokeys headless; type "start" for a round or "quit" to exit`)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				<-ctx.Done() // stdin closed, keep serving MIDI and HTTP
				return nil
			}
			if quit := cmd.RunCommand(broker, s, line, os.Stdout); quit {
				return nil
			}
		}
	}
}

func readLines(r io.Reader, lines chan<- string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
	close(lines)
}

// renderSilently pulls audio from the synth in real time and throws it
// away, so voice automation keeps advancing without an audio device.
func renderSilently(ctx context.Context, s *synth.Synth, log *slog.Logger) {
	const period = 10 * time.Millisecond
	buf := make(echokeys.AudioBuffer, echokeys.Frames(period))
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Render(buf); err != nil {
				log.Error("silent render failed", "err", err)
				return
			}
		}
	}
}
