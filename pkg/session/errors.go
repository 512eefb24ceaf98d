package session

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyConnected is returned when Connect is called while a
	// connect is pending or a session is open.
	ErrAlreadyConnected = errors.New("session: already connected")

	// ErrNotConnected is returned by operations that need an open session.
	ErrNotConnected = errors.New("session: not connected")

	// ErrCredentialMissing means no API key is available and the
	// provider could not supply one.
	ErrCredentialMissing = errors.New("session: no API key selected")

	// ErrCredentialInvalid means the service rejected the key. The
	// stored selection has been cleared; the caller should re-prompt.
	ErrCredentialInvalid = errors.New("session: API key rejected")

	// ErrDeviceFailed means an audio device could not be opened or started.
	ErrDeviceFailed = errors.New("session: audio device failed")
)

// ConnectionError wraps a failure while establishing or running the
// transport, tagged with the stage it happened in.
type ConnectionError struct {
	Stage string
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("session: connection failed during %s: %v", e.Stage, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
