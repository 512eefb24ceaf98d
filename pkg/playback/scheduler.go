// Package playback schedules decoded audio chunks for gapless, ordered,
// interruptible playback on an audio sink.
//
// Chunks from the live transport arrive faster or slower than real
// time. The scheduler keeps a monotonic cursor so each chunk starts
// exactly when the previous one ends, and cancels everything at once
// when the user barges in over the model's speech.
package playback

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lumell/parley/pkg/audioio"
)

// ErrClosed is returned by Enqueue after the scheduler is closed.
var ErrClosed = errors.New("playback: scheduler closed")

// Source is a scheduled playback handle: one chunk with a computed
// start time and a stop capability. A source stays in the scheduler's
// active set until it finishes naturally or is stopped.
type Source struct {
	sched   *Scheduler
	chunk   audioio.Chunk
	startAt time.Time

	mu         sync.Mutex
	stopped    bool
	startTimer *time.Timer
	doneTimer  *time.Timer
}

// StartAt returns the wall-clock time the source is scheduled to start.
func (s *Source) StartAt() time.Time {
	return s.startAt
}

// Duration returns the playback length of the source's chunk.
func (s *Source) Duration() time.Duration {
	return s.chunk.Duration()
}

// Stop cancels the source. Pending sources never play; active sources
// are removed from the set. Stop is idempotent.
func (s *Source) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	if s.startTimer != nil {
		s.startTimer.Stop()
	}
	if s.doneTimer != nil {
		s.doneTimer.Stop()
	}
	s.mu.Unlock()

	s.sched.remove(s)
}

func (s *Source) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Scheduler plays chunks strictly in arrival order with no gaps.
//
// It maintains a cursor (the end time of the last scheduled chunk) and
// an active set of scheduled sources. Enqueue schedules a chunk to
// start at max(now, cursor) and advances the cursor by the chunk's
// duration. Interrupt stops every active and pending source and resets
// the cursor so the next chunk starts immediately.
type Scheduler struct {
	sink   audioio.Sink
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	nextStart time.Time
	sources   map[*Source]struct{}
	closed    bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the wall clock, for testing.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// NewScheduler creates a scheduler that plays through the given sink.
func NewScheduler(sink audioio.Sink, logger *slog.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		sink:    sink,
		logger:  logger,
		now:     time.Now,
		sources: make(map[*Source]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enqueue schedules a chunk for playback after everything already
// scheduled. It never blocks; it only computes a future start time and
// arms timers.
func (s *Scheduler) Enqueue(chunk audioio.Chunk) (*Source, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}

	now := s.now()
	start := now
	if s.nextStart.After(now) {
		start = s.nextStart
	}
	s.nextStart = start.Add(chunk.Duration())

	src := &Source{
		sched:   s,
		chunk:   chunk,
		startAt: start,
	}
	s.sources[src] = struct{}{}

	delay := start.Sub(now)
	src.mu.Lock()
	src.startTimer = time.AfterFunc(delay, func() { s.play(src) })
	src.doneTimer = time.AfterFunc(delay+chunk.Duration(), func() { s.remove(src) })
	src.mu.Unlock()
	s.mu.Unlock()

	return src, nil
}

// play hands the source's chunk to the sink when its start time comes.
func (s *Scheduler) play(src *Source) {
	if src.isStopped() {
		return
	}
	s.mu.Lock()
	_, live := s.sources[src]
	closed := s.closed
	s.mu.Unlock()
	if !live || closed {
		return
	}

	if err := s.sink.Write(src.chunk); err != nil {
		s.logger.Warn("playback write failed", "error", err)
	}
}

// remove drops a source from the active set (natural completion or stop).
func (s *Scheduler) remove(src *Source) {
	s.mu.Lock()
	delete(s.sources, src)
	s.mu.Unlock()
}

// Interrupt handles barge-in: the user started speaking over the model.
// Every active and pending source is stopped, the active set is
// cleared, the cursor is reset so the next chunk starts immediately,
// and any audio sitting in the sink's buffer is discarded. Silence
// begins within one scheduling tick, not at the end of whatever was
// playing.
func (s *Scheduler) Interrupt() {
	s.mu.Lock()
	stopped := make([]*Source, 0, len(s.sources))
	for src := range s.sources {
		stopped = append(stopped, src)
	}
	s.sources = make(map[*Source]struct{})
	s.nextStart = time.Time{}
	s.mu.Unlock()

	for _, src := range stopped {
		src.Stop()
	}

	if err := s.sink.Clear(); err != nil {
		s.logger.Warn("playback clear failed", "error", err)
	}

	if len(stopped) > 0 {
		s.logger.Debug("playback interrupted", "stopped_sources", len(stopped))
	}
}

// Active returns the number of currently scheduled sources.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sources)
}

// Playing reports whether any source is scheduled or playing.
func (s *Scheduler) Playing() bool {
	return s.Active() > 0
}

// NextStart returns the current cursor position. A zero time means the
// next chunk starts immediately.
func (s *Scheduler) NextStart() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextStart
}

// Close stops all playback and rejects further Enqueue calls.
// It is idempotent.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.Interrupt()
}
