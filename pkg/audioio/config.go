// Package audioio provides microphone capture and speaker playback.
//
// This package supports two backends:
//   - PortAudio - real devices for interactive use
//   - Mock - CI/testing without hardware
//
// The backend is selected automatically, or can be explicitly specified
// via configuration.
package audioio

import (
	"fmt"
	"time"
)

// Backend represents the audio backend type.
type Backend string

const (
	// BackendAuto automatically selects the best available backend.
	BackendAuto Backend = "auto"
	// BackendPortAudio uses PortAudio for cross-platform audio I/O.
	BackendPortAudio Backend = "portaudio"
	// BackendMock uses a mock implementation for testing.
	BackendMock Backend = "mock"
)

// Capture and playback rates required by the live audio wire format.
const (
	// CaptureSampleRate is the microphone sample rate expected by the
	// remote model (16 kHz mono PCM16).
	CaptureSampleRate = 16000

	// PlaybackSampleRate is the sample rate of audio returned by the
	// remote model (24 kHz mono PCM16).
	PlaybackSampleRate = 24000

	// CaptureFrameSize is the number of samples per captured frame.
	CaptureFrameSize = 4096
)

// Config holds audio configuration.
type Config struct {
	// Backend specifies which audio backend to use.
	// Default: "auto"
	Backend Backend `json:"backend"`

	// SampleRate is the audio sample rate in Hz.
	SampleRate int `json:"sample_rate"`

	// Channels is the number of audio channels.
	// Default: 1 (mono)
	Channels int `json:"channels"`

	// FrameSize is the number of samples per frame or buffer.
	FrameSize int `json:"frame_size"`

	// Device is the platform-specific device identifier.
	// Empty selects the system default.
	Device string `json:"device"`
}

// DefaultCaptureConfig returns the configuration for microphone capture.
func DefaultCaptureConfig() Config {
	return Config{
		Backend:    BackendAuto,
		SampleRate: CaptureSampleRate,
		Channels:   1,
		FrameSize:  CaptureFrameSize,
	}
}

// DefaultPlaybackConfig returns the configuration for speaker playback.
func DefaultPlaybackConfig() Config {
	return Config{
		Backend:    BackendAuto,
		SampleRate: PlaybackSampleRate,
		Channels:   1,
		FrameSize:  480, // 20ms at 24 kHz
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("channels must be positive, got %d", c.Channels)
	}
	if c.FrameSize <= 0 {
		return fmt.Errorf("frame_size must be positive, got %d", c.FrameSize)
	}
	return nil
}

// FrameDuration returns the wall-clock duration of one frame.
func (c *Config) FrameDuration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(c.FrameSize) * time.Second / time.Duration(c.SampleRate*c.Channels)
}

// FrameBytes returns the size of a frame in bytes (PCM16 samples).
func (c *Config) FrameBytes() int {
	return c.FrameSize * c.Channels * 2
}
