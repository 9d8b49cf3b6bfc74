package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"gioui.org/app"
	"github.com/echokeys/echokeys/cmd"
	"github.com/echokeys/echokeys/engine"
	"github.com/echokeys/echokeys/engine/gioui"
	"github.com/echokeys/echokeys/engine/httpapi"
	"github.com/echokeys/echokeys/oto"
	"github.com/echokeys/echokeys/report"
	"github.com/echokeys/echokeys/synth"
	"github.com/spf13/cobra"
)

var (
	midiInput  string
	listenAddr string
	echoStdout bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the instrument window",
	Args:  cobra.NoArgs,
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&midiInput, "midi-input", "", "connect MIDI input to matching device name `prefix`")
	playCmd.Flags().StringVar(&listenAddr, "listen", "", "serve the HTTP API on `addr`, e.g. localhost:8080")
	playCmd.Flags().BoolVar(&echoStdout, "echo", false, "also print the lit keys and the results to stdout")
	rootCmd.AddCommand(playCmd)
}

func runPlay(c *cobra.Command, args []string) error {
	log, config, err := setup()
	if err != nil {
		return err
	}
	audioContext, err := oto.NewContext()
	if err != nil {
		return err
	}
	reporter, err := report.New()
	if err != nil {
		return err
	}
	broker := engine.NewBroker()
	midiContext := cmd.NewMidiContext(broker)
	if c.Flags().Changed("midi-input") {
		cmd.OpenMIDIInput(midiContext, midiInput, log)
	}
	s := synth.New()
	var presenter engine.Presenter = gioui.NewPresenter(broker)
	if echoStdout {
		presenter = engine.MultiPresenter{presenter, cmd.NewTerminalPresenter(os.Stdout, reporter, true, 30*time.Millisecond)}
	}
	e, err := engine.New(engine.Options{
		Config:    config,
		Sink:      s,
		Scheduler: engine.NewRealClock(broker),
		Presenter: presenter,
		Audio:     audioContext,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	ui := gioui.New(broker, e.KeyMap(), e.Waveform(), reporter, log)
	ui.Meter = s.Peak
	go e.Run(broker)
	player := audioContext.Play(s.Render)

	ctx, cancel := context.WithCancel(context.Background())
	if listenAddr != "" {
		go func() {
			if err := httpapi.NewServer(broker, reporter, log).ListenAndServe(ctx, listenAddr); err != nil {
				log.Error("http api stopped", "err", err)
			}
		}()
	}

	go func() {
		ui.Main()
		cancel()
		closeEngine(broker)
		player.Close()
		midiContext.Close()
		if err := audioContext.Close(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}

// closeEngine asks the engine to release all notes and stop, waiting for it
// at most a few seconds.
func closeEngine(broker *engine.Broker) {
	engine.TrySend(broker.CloseEngine, struct{}{})
	engine.TimeoutReceive(broker.FinishedEngine, 3*time.Second)
}
