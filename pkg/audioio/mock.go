package audioio

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// MockSource is a mock audio source for testing.
// It generates synthetic audio (silence or a sine wave) on a ticker,
// and also accepts frames pushed directly by tests.
type MockSource struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	running  bool
	closed   bool
	streamCh chan Frame
	stopCh   chan struct{}

	// Stats
	framesRead    atomic.Int64
	framesDropped atomic.Int64

	// Synthetic audio generation
	phase     float64
	frequency float64 // Hz, 0 = silence
	amplitude float64 // 0.0 to 1.0
	tick      time.Duration
}

// MockSourceOption configures a MockSource.
type MockSourceOption func(*MockSource)

// WithSineWave configures the mock to generate a sine wave.
func WithSineWave(frequency, amplitude float64) MockSourceOption {
	return func(m *MockSource) {
		m.frequency = frequency
		m.amplitude = amplitude
	}
}

// WithTick overrides the generation interval. Zero disables the
// generator entirely; tests then feed frames via Push.
func WithTick(tick time.Duration) MockSourceOption {
	return func(m *MockSource) {
		m.tick = tick
	}
}

// NewMockSource creates a new mock audio source.
func NewMockSource(cfg Config, logger *slog.Logger, opts ...MockSourceOption) *MockSource {
	if logger == nil {
		logger = slog.Default()
	}

	m := &MockSource{
		cfg:       cfg,
		logger:    logger,
		streamCh:  make(chan Frame, 10),
		stopCh:    make(chan struct{}),
		frequency: 0, // Silence by default
		amplitude: 0.5,
		tick:      cfg.FrameDuration(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Start begins generating audio.
func (m *MockSource) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return io.ErrClosedPipe
	}
	if m.running {
		return nil
	}

	m.running = true
	m.stopCh = make(chan struct{})
	m.streamCh = make(chan Frame, 10)

	if m.tick > 0 {
		go m.generateLoop(ctx)
	}

	m.logger.Debug("mock audio source started",
		"sample_rate", m.cfg.SampleRate,
		"frequency", m.frequency,
	)

	return nil
}

func (m *MockSource) generateLoop(ctx context.Context) {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Stop()
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.Push(m.generateFrame())
		}
	}
}

func (m *MockSource) generateFrame() Frame {
	samples := make([]float32, m.cfg.FrameSize)
	if m.frequency > 0 {
		m.mu.Lock()
		phase := m.phase
		step := 2 * math.Pi * m.frequency / float64(m.cfg.SampleRate)
		for i := range samples {
			samples[i] = float32(m.amplitude * math.Sin(phase))
			phase += step
		}
		m.phase = math.Mod(phase, 2*math.Pi)
		m.mu.Unlock()
	}
	return Frame{Samples: samples, Time: time.Now()}
}

// Push delivers a frame to the consumer, dropping it if the consumer
// is not keeping up. Tests use this for deterministic input.
// The send happens under the mutex so it can never race the close in
// Stop; the send is non-blocking, so holding the lock is safe.
func (m *MockSource) Push(frame Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	select {
	case m.streamCh <- frame:
		m.framesRead.Add(1)
	default:
		// Consumer is behind; the frame is lost.
		m.framesDropped.Add(1)
	}
}

// Frames implements Source.
func (m *MockSource) Frames() <-chan Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streamCh
}

// Stop implements Source.
func (m *MockSource) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return nil
	}
	m.running = false
	close(m.stopCh)
	close(m.streamCh)
	return nil
}

// Config implements Source.
func (m *MockSource) Config() Config { return m.cfg }

// Name implements Source.
func (m *MockSource) Name() string { return "mock" }

// Close implements Source.
func (m *MockSource) Close() error {
	m.Stop()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Stats implements SourceWithStats.
func (m *MockSource) Stats() SourceStats {
	m.mu.Lock()
	running := m.running
	m.mu.Unlock()
	return SourceStats{
		FramesRead:    m.framesRead.Load(),
		FramesDropped: m.framesDropped.Load(),
		Running:       running,
		Backend:       "mock",
	}
}

// MockSink is a mock audio sink for testing.
// It records every chunk written and every clear.
type MockSink struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	closed  bool

	// Written holds every chunk passed to Write, in order.
	Written []Chunk

	// Stats
	chunksWritten  atomic.Int64
	samplesWritten atomic.Int64
	clears         atomic.Int64
}

// NewMockSink creates a new mock audio sink.
func NewMockSink(cfg Config, logger *slog.Logger) *MockSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockSink{cfg: cfg, logger: logger}
}

// Start implements Sink.
func (m *MockSink) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return io.ErrClosedPipe
	}
	m.running = true
	return nil
}

// Write implements Sink.
func (m *MockSink) Write(chunk Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return io.ErrClosedPipe
	}
	m.Written = append(m.Written, chunk)
	m.chunksWritten.Add(1)
	m.samplesWritten.Add(int64(chunk.Samples()))
	return nil
}

// Clear implements Sink.
func (m *MockSink) Clear() error {
	m.clears.Add(1)
	return nil
}

// Clears returns how many times Clear was called.
func (m *MockSink) Clears() int64 { return m.clears.Load() }

// Stop implements Sink.
func (m *MockSink) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	return nil
}

// Config implements Sink.
func (m *MockSink) Config() Config { return m.cfg }

// Name implements Sink.
func (m *MockSink) Name() string { return "mock" }

// Close implements Sink.
func (m *MockSink) Close() error {
	m.Stop()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Stats implements SinkWithStats.
func (m *MockSink) Stats() SinkStats {
	m.mu.Lock()
	running := m.running
	m.mu.Unlock()
	return SinkStats{
		ChunksWritten:  m.chunksWritten.Load(),
		SamplesWritten: m.samplesWritten.Load(),
		Clears:         m.clears.Load(),
		Running:        running,
		Backend:        "mock",
	}
}
