package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/lumell/parley/pkg/audioio"
	"github.com/lumell/parley/pkg/live"
	"github.com/lumell/parley/pkg/persona"
)

type mockCreds struct {
	mu        sync.Mutex
	key       string
	selected  bool
	promptKey string
	promptErr error
	prompts   int
	cleared   int
}

func (m *mockCreds) Key() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.key, nil
}

func (m *mockCreds) HasSelection() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

func (m *mockCreds) PromptSelection() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts++
	if m.promptErr != nil {
		return "", m.promptErr
	}
	m.key = m.promptKey
	m.selected = m.promptKey != ""
	return m.promptKey, nil
}

func (m *mockCreds) ClearSelection() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	m.key = ""
	m.selected = false
	return nil
}

type testHarness struct {
	controller *Controller
	transport  *MockTransport
	source     *audioio.MockSource
	sink       *audioio.MockSink
	creds      *mockCreds
}

func (h *testHarness) dial(context.Context, live.SessionConfig, *slog.Logger) (Transport, error) {
	return h.transport, nil
}

func newHarness(t *testing.T, mutate func(*Options)) *testHarness {
	t.Helper()

	p, err := persona.Get("1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h := &testHarness{
		transport: NewMockTransport(),
		source:    audioio.NewMockSource(audioio.DefaultCaptureConfig(), nil, audioio.WithTick(0)),
		sink:      audioio.NewMockSink(audioio.DefaultPlaybackConfig(), nil),
		creds:     &mockCreds{key: "test-key", selected: true},
	}

	opts := Options{
		Persona:     p,
		Credentials: h.creds,
		Source:      h.source,
		Sink:        h.sink,
		Dial:        h.dial,
	}
	if mutate != nil {
		mutate(&opts)
	}

	h.controller, err = NewController(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return h
}

func newConnectedHarness(t *testing.T) *testHarness {
	t.Helper()
	h := newHarness(t, nil)
	if err := h.controller.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return h
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestControllerConnectOpensSession(t *testing.T) {
	h := newConnectedHarness(t)
	defer h.controller.Disconnect()

	if got := h.controller.State(); got != StateOpen {
		t.Errorf("expected open, got %s", got)
	}
	if !h.controller.Listening() {
		t.Error("expected controller to be listening")
	}
}

func TestControllerConnectReentrancyRejected(t *testing.T) {
	h := newConnectedHarness(t)
	defer h.controller.Disconnect()

	if err := h.controller.Connect(context.Background()); !errors.Is(err, ErrAlreadyConnected) {
		t.Errorf("expected ErrAlreadyConnected, got %v", err)
	}
}

func TestControllerDisconnectIsIdempotent(t *testing.T) {
	h := newConnectedHarness(t)

	if err := h.controller.Disconnect(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.controller.Disconnect(); err != nil {
		t.Errorf("expected second disconnect to be a no-op, got %v", err)
	}
	if got := h.controller.State(); got != StateClosed {
		t.Errorf("expected closed, got %s", got)
	}
}

func TestControllerDisconnectBeforeConnect(t *testing.T) {
	h := newHarness(t, nil)
	if err := h.controller.Disconnect(); err != nil {
		t.Errorf("expected no-op disconnect, got %v", err)
	}
	if got := h.controller.State(); got != StateIdle {
		t.Errorf("expected idle, got %s", got)
	}
}

func TestControllerDisconnectDuringConnectWins(t *testing.T) {
	dialing := make(chan struct{})
	release := make(chan struct{})
	var h *testHarness
	h = newHarness(t, func(o *Options) {
		o.Dial = func(context.Context, live.SessionConfig, *slog.Logger) (Transport, error) {
			close(dialing)
			<-release
			return h.transport, nil
		}
	})

	errCh := make(chan error, 1)
	go func() { errCh <- h.controller.Connect(context.Background()) }()

	<-dialing
	if err := h.controller.Disconnect(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(release)

	if err := <-errCh; !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if got := h.controller.State(); got != StateClosed {
		t.Errorf("expected closed, got %s", got)
	}
	if !h.transport.Closed() {
		t.Error("expected the late transport to be closed")
	}
	if h.source.Stats().Running {
		t.Error("expected microphone stopped")
	}
	if h.sink.Stats().Running {
		t.Error("expected speaker stopped")
	}
}

func TestControllerDisconnectDuringFailingConnect(t *testing.T) {
	dialing := make(chan struct{})
	release := make(chan struct{})
	h := newHarness(t, func(o *Options) {
		o.Dial = func(context.Context, live.SessionConfig, *slog.Logger) (Transport, error) {
			close(dialing)
			<-release
			return nil, errors.New("no route to host")
		}
	})

	errCh := make(chan error, 1)
	go func() { errCh <- h.controller.Connect(context.Background()) }()

	<-dialing
	if err := h.controller.Disconnect(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(release)

	if err := <-errCh; !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if got := h.controller.State(); got != StateClosed {
		t.Errorf("expected the disconnect's state to stand, got %s", got)
	}
	if err := h.controller.Err(); err != nil {
		t.Errorf("expected no recorded error, got %v", err)
	}
}

func TestControllerDialUsesPersona(t *testing.T) {
	var got live.SessionConfig
	var h *testHarness
	h = newHarness(t, func(o *Options) {
		o.Dial = func(ctx context.Context, cfg live.SessionConfig, _ *slog.Logger) (Transport, error) {
			got = cfg
			return h.transport, nil
		}
	})
	if err := h.controller.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.controller.Disconnect()

	if got.Voice != persona.VoiceKore {
		t.Errorf("expected persona voice, got %q", got.Voice)
	}
	if got.SystemInstruction == "" {
		t.Error("expected persona instruction")
	}
	if len(got.Tools) != 1 || got.Tools[0].Name != UpdateContextTool {
		t.Errorf("expected update_context tool, got %v", got.Tools)
	}
	if !got.TranscribeInput || !got.TranscribeOutput {
		t.Error("expected both transcription directions enabled")
	}
}

func TestControllerStreamsMicrophoneFrames(t *testing.T) {
	h := newConnectedHarness(t)
	defer h.controller.Disconnect()

	h.source.Push(audioio.Frame{Samples: []float32{0.5, -0.5, 0.25}, Time: time.Now()})
	waitFor(t, "audio to be sent", func() bool {
		return len(h.transport.SentAudio()) == 1
	})

	sent := h.transport.SentAudio()[0]
	if len(sent) != 6 {
		t.Errorf("expected 6 PCM bytes, got %d", len(sent))
	}
	in, _ := h.controller.Volume()
	if in <= 0 {
		t.Errorf("expected nonzero input volume, got %f", in)
	}
	if got := h.controller.Metrics().AudioChunksOut; got != 1 {
		t.Errorf("expected 1 chunk out, got %d", got)
	}
}

func TestControllerMuteStopsStreaming(t *testing.T) {
	h := newConnectedHarness(t)
	defer h.controller.Disconnect()

	h.controller.SetMuted(true)
	if h.controller.Listening() {
		t.Error("expected not listening while muted")
	}

	h.source.Push(audioio.Frame{Samples: []float32{0.5}, Time: time.Now()})
	time.Sleep(20 * time.Millisecond)
	if got := len(h.transport.SentAudio()); got != 0 {
		t.Errorf("expected no frames while muted, got %d", got)
	}

	h.controller.SetMuted(false)
	h.source.Push(audioio.Frame{Samples: []float32{0.5}, Time: time.Now()})
	waitFor(t, "audio after unmute", func() bool {
		return len(h.transport.SentAudio()) == 1
	})
}

func TestControllerAssemblesTranscript(t *testing.T) {
	h := newConnectedHarness(t)
	defer h.controller.Disconnect()

	h.transport.Emit(live.TranscriptEvent{Text: "Hi", Role: live.RoleModel})
	h.transport.Emit(live.TranscriptEvent{Text: "!", Role: live.RoleModel})
	h.transport.Emit(live.TurnCompleteEvent{})
	h.transport.Emit(live.TranscriptEvent{Text: "ok", Role: live.RoleModel})

	waitFor(t, "transcript assembly", func() bool {
		return len(h.controller.Messages()) == 2
	})
	msgs := h.controller.Messages()
	if msgs[0].Text != "Hi!" || !msgs[0].Final {
		t.Errorf("expected finalized first message, got %+v", msgs[0])
	}
	if msgs[1].Text != "ok" || msgs[1].Final {
		t.Errorf("expected open second message, got %+v", msgs[1])
	}
	if got := h.controller.Metrics().Turns; got != 1 {
		t.Errorf("expected 1 turn, got %d", got)
	}
}

func TestControllerSchedulesModelAudio(t *testing.T) {
	h := newConnectedHarness(t)
	defer h.controller.Disconnect()

	chunk := audioio.Chunk{PCM: make([]byte, 480), SampleRate: audioio.PlaybackSampleRate}
	h.transport.Emit(live.AudioEvent{Chunk: chunk})
	h.transport.Emit(live.AudioEvent{Chunk: chunk})

	waitFor(t, "chunks played", func() bool {
		return h.sink.Stats().ChunksWritten == 2
	})
	m := h.controller.Metrics()
	if m.AudioChunksIn != 2 {
		t.Errorf("expected 2 chunks in, got %d", m.AudioChunksIn)
	}
	if m.FirstAudioLatency <= 0 {
		t.Error("expected first-audio latency to be recorded")
	}
}

func TestControllerInterruptStopsPlayback(t *testing.T) {
	h := newConnectedHarness(t)
	defer h.controller.Disconnect()

	// A long chunk so playback is still active when the barge-in lands.
	long := audioio.Chunk{PCM: make([]byte, audioio.PlaybackSampleRate*2), SampleRate: audioio.PlaybackSampleRate}
	h.transport.Emit(live.AudioEvent{Chunk: long})
	h.transport.Emit(live.TranscriptEvent{Text: "as I was saying", Role: live.RoleModel})
	h.transport.Emit(live.InterruptedEvent{})

	waitFor(t, "interrupt handled", func() bool {
		return h.sink.Clears() == 1
	})
	waitFor(t, "playback stopped", func() bool {
		return !h.controller.Speaking()
	})

	msgs := h.controller.Messages()
	if len(msgs) != 1 || !msgs[0].Final {
		t.Errorf("expected finalized message after barge-in, got %v", msgs)
	}
	if got := h.controller.Metrics().Interruptions; got != 1 {
		t.Errorf("expected 1 interruption, got %d", got)
	}
}

func TestControllerDispatchesToolCalls(t *testing.T) {
	h := newConnectedHarness(t)
	defer h.controller.Disconnect()

	h.transport.Emit(live.ToolCallEvent{Calls: []live.FunctionCall{{
		ID: "c1", Name: UpdateContextTool,
		Args: map[string]any{"key": "Budget", "value": "around $2k"},
	}}})

	waitFor(t, "tool response", func() bool {
		return len(h.transport.ToolResponses()) == 1
	})
	resp := h.transport.ToolResponses()[0]
	if !resp.OK || resp.ID != "c1" {
		t.Errorf("unexpected tool response: %+v", resp)
	}

	var budget ContextField
	for _, f := range h.controller.ContextFields() {
		if f.Key == "Budget" {
			budget = f
			break
		}
	}
	if !budget.Verified || budget.Value != "around $2k" {
		t.Errorf("expected verified budget field, got %+v", budget)
	}
	if got := h.controller.Metrics().ToolCalls; got != 1 {
		t.Errorf("expected 1 tool call, got %d", got)
	}
}

func TestControllerRemoteFailureSetsFailed(t *testing.T) {
	h := newConnectedHarness(t)

	h.transport.Fail(errors.New("network gone"))

	waitFor(t, "failure state", func() bool {
		return h.controller.State() == StateFailed
	})
	if h.controller.Err() == nil {
		t.Error("expected last error to be recorded")
	}
}

func TestControllerCredentialInvalidClearsSelection(t *testing.T) {
	h := newHarness(t, func(o *Options) {
		o.Dial = func(context.Context, live.SessionConfig, *slog.Logger) (Transport, error) {
			return nil, errors.New("websocket: close 1008: Requested entity was not found.")
		}
	})

	err := h.controller.Connect(context.Background())
	if !errors.Is(err, ErrCredentialInvalid) {
		t.Fatalf("expected ErrCredentialInvalid, got %v", err)
	}
	if h.creds.cleared != 1 {
		t.Errorf("expected selection cleared once, got %d", h.creds.cleared)
	}
	// A failed controller may try again after a new selection.
	if !h.controller.State().Connectable() {
		t.Error("expected controller to be connectable again")
	}
}

func TestControllerPromptsWhenNoSelection(t *testing.T) {
	h := newHarness(t, nil)
	h.creds.key = ""
	h.creds.selected = false
	h.creds.promptKey = "prompted-key"

	if err := h.controller.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.controller.Disconnect()

	if h.creds.prompts != 1 {
		t.Errorf("expected one prompt, got %d", h.creds.prompts)
	}
}

func TestControllerCredentialMissing(t *testing.T) {
	h := newHarness(t, nil)
	h.creds.key = ""
	h.creds.selected = false
	h.creds.promptErr = errors.New("user declined")

	err := h.controller.Connect(context.Background())
	if !errors.Is(err, ErrCredentialMissing) {
		t.Fatalf("expected ErrCredentialMissing, got %v", err)
	}
	if got := h.controller.State(); got != StateFailed {
		t.Errorf("expected failed, got %s", got)
	}
}

func TestControllerDialFailure(t *testing.T) {
	h := newHarness(t, func(o *Options) {
		o.Dial = func(context.Context, live.SessionConfig, *slog.Logger) (Transport, error) {
			return nil, errors.New("no route to host")
		}
	})

	err := h.controller.Connect(context.Background())
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectionError, got %v", err)
	}
	if connErr.Stage != "dial" {
		t.Errorf("expected dial stage, got %s", connErr.Stage)
	}
}

func TestControllerReconnectStartsFresh(t *testing.T) {
	h := newConnectedHarness(t)

	h.transport.Emit(live.TranscriptEvent{Text: "old", Role: live.RoleModel})
	waitFor(t, "transcript", func() bool { return len(h.controller.Messages()) == 1 })
	if err := h.controller.Disconnect(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h.transport = NewMockTransport()
	if err := h.controller.Connect(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer h.controller.Disconnect()

	if got := len(h.controller.Messages()); got != 0 {
		t.Errorf("expected fresh transcript, got %d messages", got)
	}
	for _, f := range h.controller.ContextFields() {
		if f.Verified {
			t.Errorf("expected fresh context store, got %+v", f)
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	p, _ := persona.Get("1")
	creds := &mockCreds{}
	source := audioio.NewMockSource(audioio.DefaultCaptureConfig(), nil)
	sink := audioio.NewMockSink(audioio.DefaultPlaybackConfig(), nil)

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"complete", Options{Persona: p, Credentials: creds, Source: source, Sink: sink}, false},
		{"missing persona", Options{Credentials: creds, Source: source, Sink: sink}, true},
		{"missing credentials", Options{Persona: p, Source: source, Sink: sink}, true},
		{"missing source", Options{Persona: p, Credentials: creds, Sink: sink}, true},
		{"missing sink", Options{Persona: p, Credentials: creds, Source: source}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
