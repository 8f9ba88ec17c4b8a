package copilot

import (
	"sync"
	"time"
)

// Turn roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultMaxTurns caps the in-memory transcript; the oldest turns are
// evicted once the cap is reached.
const DefaultMaxTurns = 200

// Turn is one message in a conversation. Immutable once appended.
type Turn struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// Session owns the ordered turn sequence and the monotonic turn counter of
// one conversation.
type Session struct {
	mu       sync.Mutex
	turns    []Turn
	counter  int
	maxTurns int
}

// NewSession creates a session. maxTurns <= 0 selects DefaultMaxTurns.
func NewSession(maxTurns int) *Session {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Session{maxTurns: maxTurns}
}

// Append adds a turn, evicting the oldest turns beyond the cap.
func (s *Session) Append(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, Turn{Role: role, Content: content, CreatedAt: time.Now()})
	s.counter++
	if len(s.turns) > s.maxTurns {
		s.turns = s.turns[len(s.turns)-s.maxTurns:]
	}
}

// Recent returns the last n turns in original order.
func (s *Session) Recent(n int) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 || len(s.turns) == 0 {
		return nil
	}
	if n > len(s.turns) {
		n = len(s.turns)
	}
	out := make([]Turn, n)
	copy(out, s.turns[len(s.turns)-n:])
	return out
}

// Turns returns a copy of all retained turns in order.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of retained turns.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Count returns the monotonic turn counter. Clear does not reset it.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// Clear empties the turn sequence in place so outstanding references to the
// session stay valid.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}
