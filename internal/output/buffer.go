package output

import (
	"sync"

	"github.com/mrzor/capture-normalizer/internal/capture"
)

// Buffer is an in-memory sink.
type Buffer struct {
	mu     sync.Mutex
	events []capture.ClientEvent
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds ev to the buffer.
func (b *Buffer) Append(ev capture.ClientEvent) {
	b.mu.Lock()
	b.events = append(b.events, ev)
	b.mu.Unlock()
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Drain removes and returns all buffered events in append order.
func (b *Buffer) Drain() []capture.ClientEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	events := b.events
	b.events = nil
	return events
}
