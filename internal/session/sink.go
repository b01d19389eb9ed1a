package session

import (
	"maps"
	"sync"

	"github.com/mrzor/capture-normalizer/internal/capture"
	"github.com/mrzor/capture-normalizer/internal/eventprocessor"
)

// countingSink counts forwarded events by kind for the session summary.
type countingSink struct {
	next eventprocessor.Sink

	mu     sync.Mutex
	byKind map[string]int
}

func newCountingSink(next eventprocessor.Sink) *countingSink {
	return &countingSink{next: next, byKind: make(map[string]int)}
}

func (c *countingSink) Append(ev capture.ClientEvent) {
	c.mu.Lock()
	c.byKind[ev.Kind().String()]++
	c.mu.Unlock()
	c.next.Append(ev)
}

func (c *countingSink) counts() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.byKind)
}
