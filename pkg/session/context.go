package session

import (
	"strings"
	"sync"
	"time"
)

// ContextField is one captured fact about the user.
type ContextField struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Value    string    `json:"value"`
	Verified bool      `json:"verified"`
	At       time.Time `json:"at,omitempty"`
}

// ContextStore holds the facts a persona collects during a session.
// It is seeded with the persona's expected keys (empty, unverified)
// and mutated only through Set. Unknown keys are accepted and appended
// after the seeded ones; seeded keys match case-insensitively so
// "budget" fills the "Budget" slot.
type ContextStore struct {
	mu       sync.Mutex
	order    []string
	fields   map[string]*ContextField // canonical lowercase key
	onUpdate func(ContextField)
}

// NewContextStore seeds a store with the persona's expected keys.
func NewContextStore(seedKeys []string) *ContextStore {
	s := &ContextStore{fields: make(map[string]*ContextField)}
	for _, key := range seedKeys {
		canon := canonicalKey(key)
		if _, ok := s.fields[canon]; ok {
			continue
		}
		s.order = append(s.order, canon)
		s.fields[canon] = &ContextField{Key: key, Label: fieldLabel(key)}
	}
	return s
}

// OnUpdate sets a callback fired with the field after each Set.
// Called with the lock held; keep it fast.
func (s *ContextStore) OnUpdate(fn func(ContextField)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

// Set records a value for a key, creating the field when the key is
// new. Setting marks the field verified.
func (s *ContextStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	canon := canonicalKey(key)
	field, ok := s.fields[canon]
	if !ok {
		field = &ContextField{Key: key, Label: fieldLabel(key)}
		s.fields[canon] = field
		s.order = append(s.order, canon)
	}
	field.Value = value
	field.Verified = true
	field.At = time.Now()
	if s.onUpdate != nil {
		s.onUpdate(*field)
	}
}

// Fields returns the fields in order: seeded keys first, then unknown
// keys in arrival order.
func (s *ContextStore) Fields() []ContextField {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ContextField, 0, len(s.order))
	for _, canon := range s.order {
		out = append(out, *s.fields[canon])
	}
	return out
}

// Verified returns how many fields hold a captured value.
func (s *ContextStore) Verified() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, f := range s.fields {
		if f.Verified {
			n++
		}
	}
	return n
}

func canonicalKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// fieldLabel derives a display label from a key: underscores become
// spaces and each word is capitalized, so "travel_dates" and
// "Travel Dates" label identically.
func fieldLabel(key string) string {
	words := strings.Fields(strings.ReplaceAll(strings.TrimSpace(key), "_", " "))
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 && r[0] >= 'a' && r[0] <= 'z' {
			r[0] -= 'a' - 'A'
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
