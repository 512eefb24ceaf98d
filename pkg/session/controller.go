// Package session owns the lifecycle of one live conversation: it
// connects the transport, streams microphone audio up, schedules model
// audio for playback, assembles transcripts, and dispatches tool calls
// into the context store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/lumell/parley/internal/log"
	"github.com/lumell/parley/pkg/audioio"
	"github.com/lumell/parley/pkg/live"
	"github.com/lumell/parley/pkg/persona"
	"github.com/lumell/parley/pkg/playback"
)

// Transport is the duplex model connection. *live.Conn implements it.
type Transport interface {
	SendAudio(pcm []byte) error
	SendToolResponse(id, name, result string, ok bool) error
	Events() <-chan live.Event
	Close() error
}

// CredentialProvider supplies and manages the API key selection.
// internal/config.Keychain implements it.
type CredentialProvider interface {
	Key() (string, error)
	HasSelection() bool
	PromptSelection() (string, error)
	ClearSelection() error
}

// DialFunc opens a transport. Tests substitute their own.
type DialFunc func(ctx context.Context, cfg live.SessionConfig, logger *slog.Logger) (Transport, error)

func defaultDial(ctx context.Context, cfg live.SessionConfig, logger *slog.Logger) (Transport, error) {
	return live.Dial(ctx, cfg, logger)
}

// Options configures a controller.
type Options struct {
	Persona     persona.Persona
	Credentials CredentialProvider
	Source      audioio.Source
	Sink        audioio.Sink

	// Model and Endpoint override the transport defaults when set.
	Model    string
	Endpoint string

	// Dial defaults to the live transport.
	Dial DialFunc

	Logger *slog.Logger

	// Optional observers. Called from controller goroutines; keep fast.
	OnState      func(State)
	OnTranscript func(Message)
	OnContext    func(ContextField)
	OnVolume     func(in, out float64)
}

// Validate checks that the options can run a session.
func (o Options) Validate() error {
	if o.Persona.ID == "" {
		return errors.New("session: persona is required")
	}
	if o.Credentials == nil {
		return errors.New("session: credential provider is required")
	}
	if o.Source == nil {
		return errors.New("session: audio source is required")
	}
	if o.Sink == nil {
		return errors.New("session: audio sink is required")
	}
	return nil
}

// Controller drives one conversation at a time. It may be reconnected
// after a clean close or failure; each connect starts a fresh
// transcript and context store.
type Controller struct {
	opts   Options
	dial   DialFunc
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	active    bool
	lastErr   error
	transport Transport
	scheduler *playback.Scheduler
	cancel    context.CancelFunc

	store      *ContextStore
	dispatcher *Dispatcher
	assembler  *Assembler
	metrics    *MetricsCollector

	muted atomic.Bool

	volMu  sync.Mutex
	inVol  float64
	outVol float64

	wg sync.WaitGroup
}

// NewController builds a controller. The context store is seeded from
// the persona immediately so the expected keys are visible before the
// first connect.
func NewController(opts Options) (*Controller, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Dial == nil {
		opts.Dial = defaultDial
	}
	if opts.Logger == nil {
		opts.Logger = log.L()
	}

	c := &Controller{
		opts:      opts,
		dial:      opts.Dial,
		logger:    opts.Logger.With("persona", opts.Persona.Name),
		assembler: NewAssembler(),
		metrics:   NewMetricsCollector(),
	}
	c.assembler.OnUpdate(opts.OnTranscript)
	c.resetStore()
	return c, nil
}

func (c *Controller) resetStore() {
	c.store = NewContextStore(c.opts.Persona.ContextKeys)
	c.store.OnUpdate(c.opts.OnContext)
	c.dispatcher = NewDispatcher(c.store, c.logger)
}

// Connect opens the session: dial, start playback and capture, then
// run the capture and event loops. Re-entrant calls fail with
// ErrAlreadyConnected while a session is pending or open.
func (c *Controller) Connect(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.Connectable() {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.lastErr = nil
	c.assembler.Reset()
	c.resetStore()
	c.setStateLocked(StateConnecting)
	c.mu.Unlock()

	key, err := c.credentialKey()
	if err != nil {
		return c.fail(err)
	}

	cfg := live.SessionConfig{
		APIKey:            key,
		Model:             c.opts.Model,
		Voice:             c.opts.Persona.Voice,
		SystemInstruction: c.opts.Persona.Instruction,
		Tools:             []live.FunctionDeclaration{UpdateContextDeclaration()},
		TranscribeInput:   true,
		TranscribeOutput:  true,
		Endpoint:          c.opts.Endpoint,
	}

	c.metrics.MarkConnect()
	transport, err := c.dial(ctx, cfg, c.logger)
	if err != nil {
		if live.IsCredentialInvalid(err) {
			c.opts.Credentials.ClearSelection()
			return c.fail(fmt.Errorf("%w: %v", ErrCredentialInvalid, err))
		}
		return c.fail(&ConnectionError{Stage: "dial", Err: err})
	}

	runCtx, cancel := context.WithCancel(context.Background())
	if err := c.opts.Sink.Start(runCtx); err != nil {
		transport.Close()
		cancel()
		return c.fail(fmt.Errorf("%w: speaker: %v", ErrDeviceFailed, err))
	}
	scheduler := playback.NewScheduler(c.opts.Sink, c.logger)
	if err := c.opts.Source.Start(runCtx); err != nil {
		scheduler.Close()
		c.opts.Sink.Stop()
		transport.Close()
		cancel()
		return c.fail(fmt.Errorf("%w: microphone: %v", ErrDeviceFailed, err))
	}

	c.mu.Lock()
	if c.state != StateConnecting {
		// Disconnect raced the connect; tear the new resources down.
		c.mu.Unlock()
		c.opts.Source.Stop()
		scheduler.Close()
		c.opts.Sink.Stop()
		transport.Close()
		cancel()
		return ErrNotConnected
	}
	c.transport = transport
	c.scheduler = scheduler
	c.cancel = cancel
	c.active = true
	c.setStateLocked(StateOpen)
	c.mu.Unlock()

	c.logger.Info("session open", "voice", c.opts.Persona.Voice)

	c.wg.Add(2)
	go c.captureLoop(transport)
	go c.eventLoop(transport, scheduler)
	return nil
}

// credentialKey resolves the API key, prompting for a selection when
// none is stored.
func (c *Controller) credentialKey() (string, error) {
	creds := c.opts.Credentials
	if creds.HasSelection() {
		key, err := creds.Key()
		if err == nil && key != "" {
			return key, nil
		}
	}
	key, err := creds.PromptSelection()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCredentialMissing, err)
	}
	if key == "" {
		return "", ErrCredentialMissing
	}
	return key, nil
}

// Disconnect ends the session. Safe to call in any state, any number
// of times. A disconnect during a pending connect wins: the eventual
// connection is torn down as soon as it lands.
func (c *Controller) Disconnect() error {
	c.mu.Lock()
	switch c.state {
	case StateConnecting:
		c.setStateLocked(StateClosed)
		c.mu.Unlock()
		return nil
	case StateOpen:
		c.mu.Unlock()
		c.teardown(StateClosed)
		c.wg.Wait()
		return nil
	default:
		c.mu.Unlock()
		return nil
	}
}

// teardown stops everything in order: microphone, capture pipeline,
// transport, playback scheduler, sink. Runs at most once per session.
func (c *Controller) teardown(reason State) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	transport, scheduler, cancel := c.transport, c.scheduler, c.cancel
	c.transport, c.scheduler, c.cancel = nil, nil, nil
	c.setStateLocked(reason)
	c.mu.Unlock()

	c.opts.Source.Stop()
	if cancel != nil {
		cancel()
	}
	if transport != nil {
		transport.Close()
	}
	if scheduler != nil {
		scheduler.Close()
	}
	c.opts.Sink.Stop()
	c.setVolume(0, 0)
	c.logger.Info("session closed", "state", reason.String())
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	if c.state != StateConnecting {
		// Disconnect raced the connect; its state stands.
		c.mu.Unlock()
		return ErrNotConnected
	}
	c.lastErr = err
	c.setStateLocked(StateFailed)
	c.mu.Unlock()
	c.logger.Error("connect failed", "error", err)
	return err
}

// captureLoop encodes microphone frames and streams them up.
// Fire-and-forget: a failed send drops the frame and keeps going.
func (c *Controller) captureLoop(transport Transport) {
	defer c.wg.Done()
	for frame := range c.opts.Source.Frames() {
		c.setVolume(frame.RMS(), -1)
		if c.muted.Load() {
			continue
		}
		if err := transport.SendAudio(audioio.EncodePCM16(frame.Samples)); err != nil {
			if errors.Is(err, live.ErrConnClosed) {
				return
			}
			c.logger.Warn("dropping microphone frame", "error", err)
			continue
		}
		c.metrics.IncrementAudioOut()
	}
}

// eventLoop is the single consumer of transport events.
func (c *Controller) eventLoop(transport Transport, scheduler *playback.Scheduler) {
	defer c.wg.Done()
	for ev := range transport.Events() {
		switch ev := ev.(type) {
		case live.SetupCompleteEvent:
			c.metrics.MarkSetupComplete()
			c.logger.Debug("setup complete")

		case live.AudioEvent:
			c.metrics.MarkFirstAudio()
			c.setVolume(-1, chunkRMS(ev.Chunk))
			if _, err := scheduler.Enqueue(ev.Chunk); err != nil && !errors.Is(err, playback.ErrClosed) {
				c.logger.Warn("dropping playback chunk", "error", err)
			}

		case live.TranscriptEvent:
			c.assembler.Append(ev.Role, ev.Text)

		case live.TurnCompleteEvent:
			c.assembler.EndTurn()
			c.metrics.IncrementTurn()
			c.setVolume(-1, 0)

		case live.ToolCallEvent:
			for range ev.Calls {
				c.metrics.IncrementToolCall()
			}
			c.dispatcher.Dispatch(ev.Calls, transport)

		case live.InterruptedEvent:
			c.logger.Debug("barge-in, stopping playback")
			scheduler.Interrupt()
			c.assembler.EndTurn()
			c.metrics.IncrementInterruption()
			c.setVolume(-1, 0)

		case live.ClosedEvent:
			c.handleClosed(ev.Err)
			return
		}
	}
}

func (c *Controller) handleClosed(err error) {
	if err == nil {
		c.teardown(StateClosed)
		return
	}
	if live.IsCredentialInvalid(err) {
		c.opts.Credentials.ClearSelection()
		err = fmt.Errorf("%w: %v", ErrCredentialInvalid, err)
	}
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	c.logger.Error("transport closed", "error", err)
	c.teardown(StateFailed)
}

func chunkRMS(chunk audioio.Chunk) float64 {
	frame := audioio.Frame{Samples: audioio.DecodePCM16(chunk.PCM)}
	return frame.RMS()
}

// setVolume updates the published volume levels. Negative values keep
// the existing level for that side.
func (c *Controller) setVolume(in, out float64) {
	c.volMu.Lock()
	if in >= 0 {
		c.inVol = in
	}
	if out >= 0 {
		c.outVol = out
	}
	in, out = c.inVol, c.outVol
	c.volMu.Unlock()
	if c.opts.OnVolume != nil {
		c.opts.OnVolume(in, out)
	}
}

func (c *Controller) setStateLocked(s State) {
	if c.state == s {
		return
	}
	c.state = s
	if c.opts.OnState != nil {
		c.opts.OnState(s)
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error that ended or prevented the last session.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Persona returns the persona this controller embodies.
func (c *Controller) Persona() persona.Persona { return c.opts.Persona }

// Messages returns the transcript assembled so far.
func (c *Controller) Messages() []Message { return c.assembler.Messages() }

// ContextFields returns the captured facts in display order.
func (c *Controller) ContextFields() []ContextField {
	c.mu.Lock()
	store := c.store
	c.mu.Unlock()
	return store.Fields()
}

// Metrics returns a snapshot of session metrics.
func (c *Controller) Metrics() Metrics { return c.metrics.Snapshot() }

// Speaking reports whether model audio is currently playing.
func (c *Controller) Speaking() bool {
	c.mu.Lock()
	scheduler := c.scheduler
	c.mu.Unlock()
	return scheduler != nil && scheduler.Playing()
}

// Listening reports whether microphone audio is being streamed up.
func (c *Controller) Listening() bool {
	return c.State() == StateOpen && !c.muted.Load()
}

// SetMuted pauses or resumes microphone streaming without ending the
// session.
func (c *Controller) SetMuted(muted bool) { c.muted.Store(muted) }

// Muted reports whether the microphone is muted.
func (c *Controller) Muted() bool { return c.muted.Load() }

// Volume returns the latest input and output levels in [0,1].
func (c *Controller) Volume() (in, out float64) {
	c.volMu.Lock()
	defer c.volMu.Unlock()
	return c.inVol, c.outVol
}
