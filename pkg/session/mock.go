package session

import (
	"sync"

	"github.com/lumell/parley/pkg/live"
)

// MockTransport is an in-memory Transport for tests. Push events with
// Emit; sent audio and tool responses are recorded for assertions.
// Override behavior per-test via the Func fields.
type MockTransport struct {
	mu        sync.Mutex
	events    chan live.Event
	audio     [][]byte
	responses []MockToolResponse
	closed    bool

	SendAudioFunc        func(pcm []byte) error
	SendToolResponseFunc func(id, name, result string, ok bool) error
}

// MockToolResponse records one SendToolResponse call.
type MockToolResponse struct {
	ID     string
	Name   string
	Result string
	OK     bool
}

// NewMockTransport returns a transport with a buffered event channel.
func NewMockTransport() *MockTransport {
	return &MockTransport{events: make(chan live.Event, 64)}
}

// Emit delivers one event to the consumer.
func (m *MockTransport) Emit(ev live.Event) { m.events <- ev }

// Events implements Transport.
func (m *MockTransport) Events() <-chan live.Event { return m.events }

// SendAudio implements Transport, recording the frame.
func (m *MockTransport) SendAudio(pcm []byte) error {
	if m.SendAudioFunc != nil {
		return m.SendAudioFunc(pcm)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return live.ErrConnClosed
	}
	buf := make([]byte, len(pcm))
	copy(buf, pcm)
	m.audio = append(m.audio, buf)
	return nil
}

// SendToolResponse implements Transport, recording the response.
func (m *MockTransport) SendToolResponse(id, name, result string, ok bool) error {
	if m.SendToolResponseFunc != nil {
		return m.SendToolResponseFunc(id, name, result, ok)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return live.ErrConnClosed
	}
	m.responses = append(m.responses, MockToolResponse{ID: id, Name: name, Result: result, OK: ok})
	return nil
}

// Close implements Transport. The first call emits a clean ClosedEvent
// and closes the event channel, mirroring the real transport.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.events <- live.ClosedEvent{}
	close(m.events)
	return nil
}

// Fail closes the transport as if the remote side dropped with err.
func (m *MockTransport) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.events <- live.ClosedEvent{Err: err}
	close(m.events)
}

// Closed reports whether Close or Fail has run.
func (m *MockTransport) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// SentAudio returns the recorded microphone frames.
func (m *MockTransport) SentAudio() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.audio))
	copy(out, m.audio)
	return out
}

// ToolResponses returns the recorded tool responses.
func (m *MockTransport) ToolResponses() []MockToolResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockToolResponse, len(m.responses))
	copy(out, m.responses)
	return out
}
