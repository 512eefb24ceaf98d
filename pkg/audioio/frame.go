package audioio

import (
	"math"
	"time"
)

// Frame is one fixed-size block of captured microphone audio.
// Samples are normalized mono floats in [-1, 1]. A frame is consumed
// once by the encoder and never retained.
type Frame struct {
	// Samples contains normalized mono audio samples.
	Samples []float32

	// Time is when the frame was captured.
	Time time.Time
}

// RMS returns the root-mean-square loudness of the frame, clamped to
// [0, 1]. It drives the volume meter in the presentation layer.
func (f Frame) RMS() float64 {
	if len(f.Samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range f.Samples {
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(len(f.Samples)))
	if rms > 1 {
		rms = 1
	}
	return rms
}

// Duration returns the wall-clock length of the frame at the given
// sample rate.
func (f Frame) Duration(sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(len(f.Samples)) * time.Second / time.Duration(sampleRate)
}

// Chunk is a playback-ready block of audio received from the remote
// model: raw little-endian PCM16 bytes at a known sample rate.
type Chunk struct {
	// PCM contains signed 16-bit little-endian mono samples.
	PCM []byte

	// SampleRate is the sample rate of the chunk in Hz.
	SampleRate int
}

// Samples returns the number of samples in the chunk.
func (c Chunk) Samples() int {
	return len(c.PCM) / 2
}

// Duration returns the playback length of the chunk.
func (c Chunk) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.Samples()) * time.Second / time.Duration(c.SampleRate)
}
