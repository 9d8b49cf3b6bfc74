// Package httpapi exposes the engine over HTTP: the state of the game and the
// latest score can be queried, and rounds, played notes and note triggers can
// be posted. Handlers never touch the engine directly; every request is run
// on the engine goroutine through the broker.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/engine"
	"github.com/echokeys/echokeys/report"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type Server struct {
	broker   *engine.Broker
	reporter *report.Reporter
	log      *slog.Logger
	timeout  time.Duration
	handler  http.Handler
}

// DefaultTimeout is how long a handler waits for the engine to answer.
const DefaultTimeout = 2 * time.Second

var errEngineBusy = errors.New("engine did not respond")

func NewServer(broker *engine.Broker, reporter *report.Reporter, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{broker: broker, reporter: reporter, log: log, timeout: DefaultTimeout}
	router := mux.NewRouter().StrictSlash(true)
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/score", s.handleScore).Methods(http.MethodGet)
	api.HandleFunc("/game/start", s.handleStart).Methods(http.MethodPost)
	api.HandleFunc("/game/abandon", s.handleAbandon).Methods(http.MethodPost)
	api.HandleFunc("/game/input/{note}", s.handleInput).Methods(http.MethodPost)
	api.HandleFunc("/notes/{note}/trigger", s.handleNote(true)).Methods(http.MethodPost)
	api.HandleFunc("/notes/{note}/release", s.handleNote(false)).Methods(http.MethodPost)
	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})
	s.handler = c.Handler(router)
	return s
}

// SetTimeout sets how long handlers wait for the engine.
func (s *Server) SetTimeout(d time.Duration) {
	s.timeout = d
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("http api listening", "addr", addr)
	select {
	case err := <-errc:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// do runs f on the engine goroutine and writes an error response if the
// engine does not answer.
func (s *Server) do(w http.ResponseWriter, f func(e *engine.Engine)) bool {
	if !s.broker.Do(f, s.timeout) {
		s.log.Warn("http request timed out waiting for the engine")
		writeError(w, http.StatusServiceUnavailable, errEngineBusy)
		return false
	}
	return true
}

type (
	noteResponse struct {
		Note    echokeys.Note `json:"note"`
		Changed bool          `json:"changed"`
	}

	gameResponse struct {
		Accepted bool         `json:"accepted"`
		State    engine.State `json:"state"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var state engine.State
	if !s.do(w, func(e *engine.Engine) { state = e.State() }) {
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleScore returns the latest result as JSON, or as the text report with
// ?format=text or an Accept: text/plain header.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var (
		res echokeys.Result
		ok  bool
	)
	if !s.do(w, func(e *engine.Engine) { res, ok = e.LatestScore() }) {
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("no round has been scored yet"))
		return
	}
	if r.URL.Query().Get("format") == "text" || strings.HasPrefix(r.Header.Get("Accept"), "text/plain") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := s.reporter.Text(w, res); err != nil {
			s.log.Error("could not write score report", "err", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.handleGame(w, func(e *engine.Engine) bool { return e.StartGame() }, "a melody is being played")
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	s.handleGame(w, func(e *engine.Engine) bool { return e.AbandonRound() }, "no round is waiting for input")
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	n, err := parseNote(mux.Vars(r)["note"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.handleGame(w, func(e *engine.Engine) bool { return e.HandleInput(n) }, "no round is waiting for input")
}

func (s *Server) handleGame(w http.ResponseWriter, f func(e *engine.Engine) bool, conflict string) {
	var resp gameResponse
	if !s.do(w, func(e *engine.Engine) {
		resp.Accepted = f(e)
		resp.State = e.State()
	}) {
		return
	}
	if !resp.Accepted {
		writeError(w, http.StatusConflict, errors.New(conflict))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNote(on bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := parseNote(mux.Vars(r)["note"])
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp := noteResponse{Note: n}
		if !s.do(w, func(e *engine.Engine) {
			if on {
				resp.Changed = e.Trigger(n)
			} else {
				resp.Changed = e.Release(n)
			}
		}) {
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// parseNote accepts note names like "C#4" and, since '#' is awkward in URLs,
// also "Cs4".
func parseNote(s string) (echokeys.Note, error) {
	n, err := echokeys.ParseNote(s)
	if err != nil && len(s) == 3 && s[1] == 's' {
		n, err = echokeys.ParseNote(s[:1] + "#" + s[2:])
	}
	if err != nil {
		return n, err
	}
	if !n.Valid() {
		return n, fmt.Errorf("%v is not a playable note", n)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
