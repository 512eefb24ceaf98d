package audioio

import (
	"context"
	"io"
)

// Source captures audio from a microphone or other input device.
//
// A source is a push-style live sequence: frames arrive on the device's
// own clock. A consumer that does not keep up loses frames; the source
// never blocks the device on a slow consumer.
type Source interface {
	// Start begins audio capture.
	// After calling Start, frames are delivered on Frames().
	Start(ctx context.Context) error

	// Frames returns the channel of captured frames.
	// The channel is closed when the source is stopped.
	Frames() <-chan Frame

	// Stop halts audio capture.
	// It is safe to call Stop multiple times.
	Stop() error

	// Config returns the current audio configuration.
	Config() Config

	// Name returns the backend name (e.g., "portaudio", "mock").
	Name() string

	// Close releases all resources.
	// After Close, the source cannot be restarted.
	io.Closer
}

// SourceStats contains statistics about the audio source.
type SourceStats struct {
	// FramesRead is the total number of frames delivered.
	FramesRead int64 `json:"frames_read"`

	// FramesDropped is the number of frames lost to a slow consumer.
	FramesDropped int64 `json:"frames_dropped"`

	// Running indicates if the source is currently capturing.
	Running bool `json:"running"`

	// Backend is the name of the audio backend.
	Backend string `json:"backend"`
}

// SourceWithStats extends Source with statistics.
type SourceWithStats interface {
	Source
	Stats() SourceStats
}
