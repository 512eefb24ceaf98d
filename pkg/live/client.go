// Package live implements the bidirectional streaming session with the
// Gemini Live service: one websocket carrying microphone audio up and
// model audio, transcriptions and tool calls down.
package live

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lumell/parley/internal/log"
	"github.com/lumell/parley/pkg/audioio"
)

const (
	// DefaultEndpoint is the bidirectional streaming endpoint.
	DefaultEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

	// DefaultModel is the native-audio dialog model.
	DefaultModel = "models/gemini-2.5-flash-native-audio-preview-09-2025"

	// DefaultVoice is used when the session config names no voice.
	DefaultVoice = "Zephyr"

	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
)

var (
	// ErrCredentialInvalid indicates the API key was rejected by the
	// service. Callers should discard the stored key and re-prompt.
	ErrCredentialInvalid = errors.New("live: credential invalid or rejected")

	// ErrConnClosed is returned by sends after the connection closed.
	ErrConnClosed = errors.New("live: connection closed")
)

// credentialRejectedMarker appears in close frames and HTTP bodies when
// the key does not resolve to a usable project.
const credentialRejectedMarker = "Requested entity was not found"

// IsCredentialInvalid reports whether err means the API key must be
// replaced rather than the connection retried.
func IsCredentialInvalid(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCredentialInvalid) {
		return true
	}
	return strings.Contains(err.Error(), credentialRejectedMarker)
}

// SessionConfig describes one model session.
type SessionConfig struct {
	// APIKey authenticates the connection. Required.
	APIKey string

	// Model overrides DefaultModel when set.
	Model string

	// Voice names the prebuilt voice for audio responses.
	Voice string

	// SystemInstruction is the persona prompt for the session.
	SystemInstruction string

	// Tools are the function declarations offered to the model.
	Tools []FunctionDeclaration

	// TranscribeInput and TranscribeOutput enable streaming
	// transcription of the respective audio directions.
	TranscribeInput  bool
	TranscribeOutput bool

	// Endpoint overrides DefaultEndpoint, mainly for tests.
	Endpoint string
}

// Validate checks that the config can open a session.
func (c SessionConfig) Validate() error {
	if c.APIKey == "" {
		return errors.New("live: API key is required")
	}
	return nil
}

func (c SessionConfig) setup() setupMessage {
	model := c.Model
	if model == "" {
		model = DefaultModel
	}
	voice := c.Voice
	if voice == "" {
		voice = DefaultVoice
	}

	payload := setupPayload{
		Model: model,
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voice},
				},
			},
		},
	}
	if c.SystemInstruction != "" {
		payload.SystemInstruction = &content{Parts: []contentPart{{Text: c.SystemInstruction}}}
	}
	if len(c.Tools) > 0 {
		payload.Tools = []toolDeclaration{{FunctionDeclarations: c.Tools}}
	}
	if c.TranscribeInput {
		payload.InputAudioTranscription = &struct{}{}
	}
	if c.TranscribeOutput {
		payload.OutputAudioTranscription = &struct{}{}
	}
	return setupMessage{Setup: payload}
}

// Conn is an open session. Events are delivered in arrival order on
// the Events channel; the channel is closed after a final ClosedEvent.
type Conn struct {
	ws     *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex
	events  chan Event
	done    chan struct{}

	closed    atomic.Bool
	closeOnce sync.Once
}

// Dial opens a session and sends the setup message. The returned
// connection is live immediately; the service confirms configuration
// with a SetupCompleteEvent.
func Dial(ctx context.Context, cfg SessionConfig, logger *slog.Logger) (*Conn, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.L()
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	url := endpoint + "?key=" + cfg.APIKey

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	ws, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("live: dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("live: dial failed: %w", err)
	}

	conn := &Conn{
		ws:     ws,
		logger: logger,
		events: make(chan Event, 32),
		done:   make(chan struct{}),
	}

	if err := conn.writeJSON(cfg.setup()); err != nil {
		ws.Close()
		return nil, fmt.Errorf("live: setup failed: %w", err)
	}

	go conn.readLoop()
	return conn, nil
}

// Events returns the inbound event channel. The final event is always
// a ClosedEvent, after which the channel is closed.
func (c *Conn) Events() <-chan Event { return c.events }

// SendAudio streams one frame of PCM16 microphone audio. Frames are
// fire-and-forget; delivery failures surface through the event channel.
func (c *Conn) SendAudio(pcm []byte) error {
	if c.closed.Load() {
		return ErrConnClosed
	}
	msg := realtimeInputMessage{
		RealtimeInput: realtimeInput{
			MediaChunks: []inlineData{{
				MimeType: fmt.Sprintf("audio/pcm;rate=%d", audioio.CaptureSampleRate),
				Data:     base64.StdEncoding.EncodeToString(pcm),
			}},
		},
	}
	return c.writeJSON(msg)
}

// SendToolResponse sends the result for one function call. A failed
// handler still gets a response so the model is never left waiting.
func (c *Conn) SendToolResponse(id, name, result string, ok bool) error {
	if c.closed.Load() {
		return ErrConnClosed
	}
	response := map[string]any{"result": result}
	if !ok {
		response = map[string]any{"error": result}
	}
	msg := toolResponseMessage{
		ToolResponse: toolResponse{
			FunctionResponses: []functionResponse{{
				ID:       id,
				Name:     name,
				Response: response,
			}},
		},
	}
	return c.writeJSON(msg)
}

// Close shuts the connection down. Safe to call more than once; after
// the first call the event channel drains and closes.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
		deadline := time.Now().Add(time.Second)
		c.writeMu.Lock()
		c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

func (c *Conn) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("live: encode message: %w", err)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("live: write message: %w", err)
	}
	return nil
}

func (c *Conn) readLoop() {
	defer close(c.events)

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				c.deliver(ClosedEvent{})
				return
			}
			c.closed.Store(true)
			c.deliver(ClosedEvent{Err: c.mapReadError(err)})
			return
		}

		events, err := ParseServerMessage(data)
		if err != nil {
			c.logger.Warn("dropping unparseable server message", "error", err)
			continue
		}
		for _, ev := range events {
			c.deliver(ev)
		}
	}
}

// deliver hands an event to the consumer. Once Close has run there may
// be nobody reading; dropping the event then keeps the read loop from
// blocking on a full channel forever.
func (c *Conn) deliver(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Conn) mapReadError(err error) error {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}
	if strings.Contains(err.Error(), credentialRejectedMarker) {
		return fmt.Errorf("%w: %s", ErrCredentialInvalid, err.Error())
	}
	return err
}
