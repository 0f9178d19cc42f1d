// Package msglog keeps the bounded in-session message log the turn
// machinery appends gameplay events to.
package msglog

import "sync"

// defaultCap bounds the retained message history.
const defaultCap = 256

// Message is one logged gameplay event.
type Message struct {
	Turn int
	Text string
}

// Log is a bounded FIFO of gameplay messages. Appends past the capacity
// evict the oldest entries.
type Log struct {
	mu       sync.Mutex
	messages []Message
	cap      int
}

// New creates a log retaining at most capacity messages; a non-positive
// capacity selects the default.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = defaultCap
	}
	return &Log{cap: capacity}
}

// Append records one message for the given turn.
func (l *Log) Append(turn int, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, Message{Turn: turn, Text: text})
	if len(l.messages) > l.cap {
		l.messages = l.messages[len(l.messages)-l.cap:]
	}
}

// Tail returns the most recent n messages, oldest first. A non-positive
// n returns everything retained.
func (l *Log) Tail(n int) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.messages) {
		n = len(l.messages)
	}
	out := make([]Message, n)
	copy(out, l.messages[len(l.messages)-n:])
	return out
}

// Len reports the number of retained messages.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}
