package audioio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"
)

// portAudioSource captures microphone audio via PortAudio.
type portAudioSource struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	running  bool
	closed   bool
	stream   *portaudio.Stream
	buf      []float32
	streamCh chan Frame
	stopCh   chan struct{}

	framesRead    atomic.Int64
	framesDropped atomic.Int64
}

func newPortAudioSource(cfg Config, logger *slog.Logger) (*portAudioSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audioio: initialize portaudio: %w", err)
	}

	buf := make([]float32, cfg.FrameSize*cfg.Channels)
	stream, err := portaudio.OpenDefaultStream(cfg.Channels, 0, float64(cfg.SampleRate), cfg.FrameSize, buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("audioio: open input stream: %w", err)
	}

	return &portAudioSource{
		cfg:      cfg,
		logger:   logger,
		stream:   stream,
		buf:      buf,
		streamCh: make(chan Frame, 8),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start implements Source.
func (s *portAudioSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return io.ErrClosedPipe
	}
	if s.running {
		return nil
	}

	if err := s.stream.Start(); err != nil {
		return fmt.Errorf("audioio: start input stream: %w", err)
	}

	s.running = true
	s.stopCh = make(chan struct{})
	s.streamCh = make(chan Frame, 8)

	go s.readLoop(ctx)

	s.logger.Info("microphone capture started",
		"backend", "portaudio",
		"sample_rate", s.cfg.SampleRate,
		"frame_size", s.cfg.FrameSize,
	)

	return nil
}

// readLoop reads frames on the device clock and pushes them to the
// consumer. A full channel means the consumer missed the frame period;
// the frame is dropped rather than blocking the device.
func (s *portAudioSource) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return
		case <-s.stopCh:
			return
		default:
		}

		if err := s.stream.Read(); err != nil {
			select {
			case <-s.stopCh:
				return
			default:
			}
			s.logger.Warn("microphone read failed", "error", err)
			return
		}

		samples := make([]float32, len(s.buf))
		copy(samples, s.buf)
		s.push(Frame{Samples: samples, Time: time.Now()})
	}
}

// push hands a frame to the consumer. The non-blocking send runs under
// the mutex so it cannot race the close in Stop.
func (s *portAudioSource) push(frame Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	select {
	case s.streamCh <- frame:
		s.framesRead.Add(1)
	default:
		s.framesDropped.Add(1)
	}
}

// Frames implements Source.
func (s *portAudioSource) Frames() <-chan Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streamCh
}

// Stop implements Source.
func (s *portAudioSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false
	close(s.stopCh)
	err := s.stream.Stop()
	close(s.streamCh)
	return err
}

// Config implements Source.
func (s *portAudioSource) Config() Config { return s.cfg }

// Name implements Source.
func (s *portAudioSource) Name() string { return "portaudio" }

// Close implements Source.
func (s *portAudioSource) Close() error {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}

// Stats implements SourceWithStats.
func (s *portAudioSource) Stats() SourceStats {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	return SourceStats{
		FramesRead:    s.framesRead.Load(),
		FramesDropped: s.framesDropped.Load(),
		Running:       running,
		Backend:       "portaudio",
	}
}

// portAudioSink plays PCM16 audio via PortAudio.
type portAudioSink struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	closed  bool
	stream  *portaudio.Stream
	out     []int16

	writeCh  chan []int16
	stopCh   chan struct{}
	clearing atomic.Bool

	chunksWritten  atomic.Int64
	samplesWritten atomic.Int64
	clears         atomic.Int64
}

func newPortAudioSink(cfg Config, logger *slog.Logger) (*portAudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audioio: initialize portaudio: %w", err)
	}

	out := make([]int16, cfg.FrameSize*cfg.Channels)
	stream, err := portaudio.OpenDefaultStream(0, cfg.Channels, float64(cfg.SampleRate), cfg.FrameSize, out)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("audioio: open output stream: %w", err)
	}

	return &portAudioSink{
		cfg:     cfg,
		logger:  logger,
		stream:  stream,
		out:     out,
		writeCh: make(chan []int16, 64),
		stopCh:  make(chan struct{}),
	}, nil
}

// Start implements Sink.
func (s *portAudioSink) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return io.ErrClosedPipe
	}
	if s.running {
		return nil
	}

	if err := s.stream.Start(); err != nil {
		return fmt.Errorf("audioio: start output stream: %w", err)
	}

	s.running = true
	s.stopCh = make(chan struct{})
	s.writeCh = make(chan []int16, 64)

	go s.playLoop()

	s.logger.Info("speaker playback started",
		"backend", "portaudio",
		"sample_rate", s.cfg.SampleRate,
	)

	return nil
}

// dropIfCleared consumes a pending Clear, discarding audio buffered
// before it. The flag is consumed exactly once, so audio written after
// the Clear plays untouched.
func dropIfCleared(clearing *atomic.Bool, pending []int16) []int16 {
	if clearing.CompareAndSwap(true, false) {
		return pending[:0]
	}
	return pending
}

func (s *portAudioSink) playLoop() {
	var pending []int16
	size := len(s.out)

	flush := func() {
		for len(pending) >= size {
			if pending = dropIfCleared(&s.clearing, pending); len(pending) < size {
				return
			}
			copy(s.out, pending[:size])
			pending = pending[size:]
			if err := s.stream.Write(); err != nil {
				s.logger.Warn("speaker write failed", "error", err)
				return
			}
		}
	}

	for {
		select {
		case <-s.stopCh:
			return
		case batch := <-s.writeCh:
			// A Clear that landed while the loop was idle must only kill
			// audio buffered before it, never this batch.
			pending = dropIfCleared(&s.clearing, pending)
			pending = append(pending, batch...)
			flush()
		default:
			pending = dropIfCleared(&s.clearing, pending)
			// Channel idle: pad out a short remainder so the tail of a
			// response is not held back waiting for a full buffer.
			if len(pending) > 0 {
				for i := range s.out {
					if i < len(pending) {
						s.out[i] = pending[i]
					} else {
						s.out[i] = 0
					}
				}
				pending = pending[:0]
				if err := s.stream.Write(); err != nil {
					s.logger.Warn("speaker write failed", "error", err)
					return
				}
				continue
			}
			select {
			case <-s.stopCh:
				return
			case batch := <-s.writeCh:
				pending = dropIfCleared(&s.clearing, pending)
				pending = append(pending, batch...)
				flush()
			}
		}
	}
}

// Write implements Sink.
func (s *portAudioSink) Write(chunk Chunk) error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if !running {
		return io.ErrClosedPipe
	}

	pcm := chunk.PCM
	if chunk.SampleRate != 0 && chunk.SampleRate != s.cfg.SampleRate {
		pcm = ResampleBytes(pcm, chunk.SampleRate, s.cfg.SampleRate)
	}
	samples := BytesToSamples(pcm)

	select {
	case s.writeCh <- samples:
		s.chunksWritten.Add(1)
		s.samplesWritten.Add(int64(len(samples)))
		return nil
	case <-s.stopCh:
		return io.ErrClosedPipe
	}
}

// Clear implements Sink.
func (s *portAudioSink) Clear() error {
	s.clears.Add(1)
	s.clearing.Store(true)
	for {
		select {
		case <-s.writeCh:
		default:
			return nil
		}
	}
}

// Stop implements Sink.
func (s *portAudioSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false
	close(s.stopCh)
	return s.stream.Stop()
}

// Config implements Sink.
func (s *portAudioSink) Config() Config { return s.cfg }

// Name implements Sink.
func (s *portAudioSink) Name() string { return "portaudio" }

// Close implements Sink.
func (s *portAudioSink) Close() error {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.stream.Close()
	portaudio.Terminate()
	return err
}

// Stats implements SinkWithStats.
func (s *portAudioSink) Stats() SinkStats {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	return SinkStats{
		ChunksWritten:  s.chunksWritten.Load(),
		SamplesWritten: s.samplesWritten.Load(),
		Clears:         s.clears.Load(),
		Running:        running,
		Backend:        "portaudio",
	}
}
