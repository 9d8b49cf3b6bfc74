package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/echokeys/echokeys"
)

type (
	// Engine is the context object holding all the interactive state: the
	// live voices, the held inputs, the combo detectors and the game. Create
	// one with New.
	Engine struct {
		config    echokeys.Config
		keyMap    *echokeys.KeyMap
		sink      echokeys.VoiceSink
		scheduler Scheduler
		presenter Presenter
		audio     echokeys.AudioContext
		rng       *rand.Rand
		log       *slog.Logger

		voices       map[echokeys.Note]*voice
		waveform     echokeys.Waveform
		audioResumed bool

		held map[echokeys.Input]struct{}

		gameModeCombo   *Combo
		toneToggleCombo *Combo

		game      gameState
		sequencer *Sequencer
	}

	// Options configures a new Engine. Sink and Scheduler are required; the
	// rest have defaults.
	Options struct {
		Config    echokeys.Config       // zero value means echokeys.DefaultConfig()
		Sink      echokeys.VoiceSink    // where voices are created
		Scheduler Scheduler             // ManualClock in tests, RealClock in applications
		Presenter Presenter             // defaults to NullPresenter
		Audio     echokeys.AudioContext // optional; resumed on the first trigger
		Rand      *rand.Rand            // melody generator; defaults to a time seeded source
		Logger    *slog.Logger          // defaults to slog.Default()
	}
)

var errNoSink = errors.New("engine needs a voice sink")
var errNoScheduler = errors.New("engine needs a scheduler")

func New(opts Options) (*Engine, error) {
	if opts.Sink == nil {
		return nil, errNoSink
	}
	if opts.Scheduler == nil {
		return nil, errNoScheduler
	}
	config := opts.Config
	if config.KeyMap == nil {
		config = echokeys.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	keyMap, err := config.NewKeyMap()
	if err != nil {
		return nil, fmt.Errorf("invalid key map: %w", err)
	}
	e := &Engine{
		config:    config,
		keyMap:    keyMap,
		sink:      opts.Sink,
		scheduler: opts.Scheduler,
		presenter: opts.Presenter,
		audio:     opts.Audio,
		rng:       opts.Rand,
		log:       opts.Logger,
		voices:    make(map[echokeys.Note]*voice),
		waveform:  config.Synth.Waveform,
		held:      make(map[echokeys.Input]struct{}),
		sequencer: NewSequencer(opts.Scheduler),
	}
	if e.presenter == nil {
		e.presenter = NullPresenter{}
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	e.gameModeCombo = NewCombo("game mode", config.Combos.Duration, e.scheduler, e.gameModeHeld, e.openGameMenu)
	e.toneToggleCombo = NewCombo("tone toggle", config.Combos.Duration, e.scheduler, e.toneToggleSounding, e.ToggleWaveform)
	return e, nil
}

// Run processes messages from the broker until CloseEngine is signalled.
func (e *Engine) Run(broker *Broker) {
	for {
		select {
		case <-broker.CloseEngine:
			e.ReleaseAll()
			close(broker.FinishedEngine)
			return
		case msg := <-broker.ToEngine:
			e.Handle(msg)
		}
	}
}

// Handle processes a single message. Run calls it for every message received
// from the broker; it is exported for driving the engine synchronously.
func (e *Engine) Handle(msg any) {
	switch m := msg.(type) {
	case InputMsg:
		if m.Pressed {
			e.Press(m.Input)
		} else {
			e.ReleaseInput(m.Input)
		}
	case NoteMsg:
		if m.On {
			e.Trigger(m.Note)
		} else {
			e.Release(m.Note)
		}
	case StartGameMsg:
		e.StartGame()
	case PlayedNoteMsg:
		e.HandleInput(m.Note)
	case AbandonRoundMsg:
		e.AbandonRound()
	case SetWaveformMsg:
		e.SetWaveform(m.Waveform)
	case timerFired:
		m.run()
	case func(*Engine):
		m(e)
	case func():
		m()
	default:
		e.log.Debug("unknown message dropped", "type", fmt.Sprintf("%T", msg))
	}
}

// Config returns the configuration the engine was created with.
func (e *Engine) Config() echokeys.Config { return e.config }

// KeyMap returns the input mapping in use.
func (e *Engine) KeyMap() *echokeys.KeyMap { return e.keyMap }

// openGameMenu is the action of the game mode combo. The combo samples the
// held inputs only, so the end of a round never arms it; the menu needs a
// fresh press.
func (e *Engine) openGameMenu() {
	if e.game.active {
		e.log.Debug("game mode combo ignored during a round")
		return
	}
	e.log.Info("game mode combo fired")
	e.presenter.ShowGameMenu()
}
