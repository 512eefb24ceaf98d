package session

import (
	"sync"
	"time"
)

// Metrics is a snapshot of session activity and latency.
type Metrics struct {
	ConnectTime    time.Time
	SetupTime      time.Time
	FirstAudioTime time.Time

	// SetupLatency is connect to setup-complete; FirstAudioLatency is
	// connect to the first model audio chunk.
	SetupLatency      time.Duration
	FirstAudioLatency time.Duration

	// Counts for the session.
	AudioChunksIn  int // model audio chunks received
	AudioChunksOut int // microphone frames sent
	Turns          int
	Interruptions  int
	ToolCalls      int
}

// MetricsCollector accumulates session metrics. Goroutine-safe; the
// capture and event loops both feed it.
type MetricsCollector struct {
	mu      sync.Mutex
	current Metrics
}

// NewMetricsCollector returns an empty collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// MarkConnect resets the collector for a new session and records the
// reference point for latency measurements.
func (m *MetricsCollector) MarkConnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Metrics{ConnectTime: time.Now()}
}

// MarkSetupComplete records when the service confirmed configuration.
func (m *MetricsCollector) MarkSetupComplete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.current.SetupTime.IsZero() {
		return
	}
	m.current.SetupTime = time.Now()
	if !m.current.ConnectTime.IsZero() {
		m.current.SetupLatency = m.current.SetupTime.Sub(m.current.ConnectTime)
	}
}

// MarkFirstAudio records the first model audio chunk. Later chunks
// only increment the count.
func (m *MetricsCollector) MarkFirstAudio() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.AudioChunksIn++
	if !m.current.FirstAudioTime.IsZero() {
		return
	}
	m.current.FirstAudioTime = time.Now()
	if !m.current.ConnectTime.IsZero() {
		m.current.FirstAudioLatency = m.current.FirstAudioTime.Sub(m.current.ConnectTime)
	}
}

// IncrementAudioOut counts one microphone frame sent.
func (m *MetricsCollector) IncrementAudioOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.AudioChunksOut++
}

// IncrementTurn counts one completed model turn.
func (m *MetricsCollector) IncrementTurn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.Turns++
}

// IncrementInterruption counts one barge-in.
func (m *MetricsCollector) IncrementInterruption() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.Interruptions++
}

// IncrementToolCall counts one dispatched tool call.
func (m *MetricsCollector) IncrementToolCall() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.ToolCalls++
}

// Snapshot returns a copy of the current metrics.
func (m *MetricsCollector) Snapshot() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}
