package httpapi_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/echokeys/echokeys"
	"github.com/echokeys/echokeys/engine"
	"github.com/echokeys/echokeys/engine/httpapi"
	"github.com/echokeys/echokeys/report"
	"github.com/echokeys/echokeys/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	broker *engine.Broker
	clock  *engine.ManualClock
	server *httpapi.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{broker: engine.NewBroker(), clock: engine.NewManualClock()}
	e, err := engine.New(engine.Options{
		Sink:      synth.New(),
		Scheduler: f.clock,
		Rand:      rand.New(rand.NewSource(3)),
		Logger:    logger,
	})
	require.NoError(t, err)
	go e.Run(f.broker)
	t.Cleanup(func() {
		f.broker.CloseEngine <- struct{}{}
		<-f.broker.FinishedEngine
	})
	r, err := report.New()
	require.NoError(t, err)
	f.server = httpapi.NewServer(f.broker, r, logger)
	return f
}

func (f *fixture) request(method, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) advance(d time.Duration) {
	f.broker.Do(func(*engine.Engine) { f.clock.Advance(d) }, time.Second)
}

func (f *fixture) melody() echokeys.Melody {
	var m echokeys.Melody
	f.broker.Do(func(e *engine.Engine) { m = e.Melody() }, time.Second)
	return m
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var ret map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ret), rec.Body.String())
	return ret
}

func TestState(t *testing.T) {
	f := newFixture(t)
	rec := f.request(http.MethodGet, "/api/state")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, "idle", body["phase"])
	assert.Equal(t, "sine", body["waveform"])
	assert.Equal(t, false, body["active"])
}

func TestTriggerAndRelease(t *testing.T) {
	f := newFixture(t)
	rec := f.request(http.MethodPost, "/api/notes/Cs4/trigger")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"note": "C#4", "changed": true}, decode(t, rec))
	rec = f.request(http.MethodPost, "/api/notes/C%234/trigger")
	assert.Equal(t, map[string]any{"note": "C#4", "changed": false}, decode(t, rec))
	body := decode(t, f.request(http.MethodGet, "/api/state"))
	assert.Equal(t, []any{"C#4"}, body["activeNotes"])
	rec = f.request(http.MethodPost, "/api/notes/C%234/release")
	assert.Equal(t, map[string]any{"note": "C#4", "changed": true}, decode(t, rec))
}

func TestBadNote(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/api/notes/H4/trigger", "/api/notes/missed/trigger", "/api/game/input/C5"} {
		rec := f.request(http.MethodPost, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.NotEmpty(t, decode(t, rec)["error"], path)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	rec := f.request(http.MethodGet, "/api/game/start")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGameRound(t *testing.T) {
	f := newFixture(t)
	rec := f.request(http.MethodGet, "/api/score")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.request(http.MethodPost, "/api/game/start")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["accepted"])
	assert.Equal(t, "listening", body["state"].(map[string]any)["phase"])

	rec = f.request(http.MethodPost, "/api/game/start")
	assert.Equal(t, http.StatusConflict, rec.Code, "cannot restart while the melody plays")
	rec = f.request(http.MethodPost, "/api/game/input/C4")
	assert.Equal(t, http.StatusConflict, rec.Code, "no input while the melody plays")

	f.advance(5 * time.Second)
	m := f.melody()
	for i, n := range m {
		name := n.String()
		if i == 2 {
			name = other(n).String()
		}
		rec = f.request(http.MethodPost, "/api/game/input/"+strings.ReplaceAll(name, "#", "s"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec = f.request(http.MethodGet, "/api/score")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, float64(4), body["correct"])
	assert.Equal(t, float64(5), body["total"])

	rec = f.request(http.MethodGet, "/api/score?format=text")
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Score: 4/5 (80%)\n"), rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Wrong Note 3: Expected "+m[2].String())

	rec = f.request(http.MethodGet, "/api/score", "Accept", "text/plain")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Score: 4/5"))
}

func TestAbandon(t *testing.T) {
	f := newFixture(t)
	rec := f.request(http.MethodPost, "/api/game/abandon")
	assert.Equal(t, http.StatusConflict, rec.Code)
	f.request(http.MethodPost, "/api/game/start")
	f.advance(5 * time.Second)
	rec = f.request(http.MethodPost, "/api/game/abandon")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "idle", decode(t, rec)["state"].(map[string]any)["phase"])
}

func TestCORS(t *testing.T) {
	f := newFixture(t)
	rec := f.request(http.MethodGet, "/api/state", "Origin", "http://example.com")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestEngineTimeout(t *testing.T) {
	broker := engine.NewBroker() // nobody runs the engine
	r, err := report.New()
	require.NoError(t, err)
	s := httpapi.NewServer(broker, r, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.SetTimeout(10 * time.Millisecond)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func other(n echokeys.Note) echokeys.Note {
	if n == echokeys.C4 {
		return echokeys.D4
	}
	return echokeys.C4
}
