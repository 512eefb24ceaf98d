package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumell/parley/pkg/live"
)

// Message is one assembled transcript entry.
type Message struct {
	ID    string    `json:"id"`
	Role  live.Role `json:"role"`
	Text  string    `json:"text"`
	Final bool      `json:"final"`
	At    time.Time `json:"at"`
}

// Assembler turns streaming transcription fragments into messages.
// Consecutive fragments with the same role merge into one growing
// message; a turn boundary finalizes everything open, so the next
// fragment starts a new message. Empty fragments never create
// messages; they only matter as boundaries.
type Assembler struct {
	mu       sync.Mutex
	messages []Message
	onUpdate func(Message)
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// OnUpdate sets a callback fired with a copy of the message each time
// one is created, grown or finalized. Called with the lock held; keep
// it fast.
func (a *Assembler) OnUpdate(fn func(Message)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onUpdate = fn
}

// Append merges one fragment into the transcript.
func (a *Assembler) Append(role live.Role, text string) {
	if text == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if n := len(a.messages); n > 0 {
		last := &a.messages[n-1]
		if last.Role == role && !last.Final {
			last.Text += text
			last.At = time.Now()
			a.notify(*last)
			return
		}
	}

	msg := Message{
		ID:   uuid.New().String(),
		Role: role,
		Text: text,
		At:   time.Now(),
	}
	a.messages = append(a.messages, msg)
	a.notify(msg)
}

// EndTurn finalizes every open message. Fragments arriving after this
// start fresh messages even when the role repeats.
func (a *Assembler) EndTurn() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.messages {
		if !a.messages[i].Final {
			a.messages[i].Final = true
			a.notify(a.messages[i])
		}
	}
}

// Messages returns a copy of the transcript so far.
func (a *Assembler) Messages() []Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Message, len(a.messages))
	copy(out, a.messages)
	return out
}

// Reset clears the transcript for a new session.
func (a *Assembler) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = nil
}

func (a *Assembler) notify(msg Message) {
	if a.onUpdate != nil {
		a.onUpdate(msg)
	}
}
