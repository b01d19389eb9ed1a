// Package translator rewrites producer-local reference ids into the global
// id space of a capture session.
//
// A producer announces a value under an id of its own choosing and refers to
// it by that id afterwards. Different producers may reuse the same local id
// for unrelated values, so entries are keyed by (producer, local id). The
// value itself is interned in a shared intern.Pool, which gives equal values
// announced by different producers the same global id.
package translator

import (
	"sync"

	"github.com/mrzor/capture-normalizer/internal/capture"
	"github.com/mrzor/capture-normalizer/internal/intern"
)

// LocalRef is a producer-scoped reference id.
type LocalRef struct {
	ProducerID uint64
	LocalID    uint64
}

// Table maps producer-local ids to global ids for one kind of value.
type Table[K comparable] struct {
	name string
	pool *intern.Pool[K]

	mu      sync.RWMutex
	globals map[LocalRef]uint64
}

// New returns an empty table interning its values in pool. name identifies
// the table in protocol errors.
func New[K comparable](name string, pool *intern.Pool[K]) *Table[K] {
	return &Table[K]{
		name:    name,
		pool:    pool,
		globals: make(map[LocalRef]uint64),
	}
}

// Name returns the table name.
func (t *Table[K]) Name() string {
	return t.name
}

// Register records that producerID announced value under localID and returns
// the global id of value. announced is true when the global id was newly
// assigned, in which case the value must be forwarded along with its id.
//
// Registering the same (producerID, localID) twice panics with a
// *capture.ProtocolError.
func (t *Table[K]) Register(producerID, localID uint64, value K) (globalID uint64, announced bool) {
	ref := LocalRef{ProducerID: producerID, LocalID: localID}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.globals[ref]; ok {
		panic(t.violation(capture.ViolationDuplicateAnnouncement, ref))
	}
	globalID, announced = t.pool.GetOrAssignID(value)
	t.globals[ref] = globalID
	return globalID, announced
}

// Resolve returns the global id registered for (producerID, localID).
// Resolving an id that was never registered panics with a
// *capture.ProtocolError.
func (t *Table[K]) Resolve(producerID, localID uint64) uint64 {
	ref := LocalRef{ProducerID: producerID, LocalID: localID}

	t.mu.RLock()
	globalID, ok := t.globals[ref]
	t.mu.RUnlock()

	if !ok {
		panic(t.violation(capture.ViolationUnresolvedReference, ref))
	}
	return globalID
}

// Len returns the number of registered local ids across all producers.
func (t *Table[K]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.globals)
}

func (t *Table[K]) violation(v capture.Violation, ref LocalRef) *capture.ProtocolError {
	return &capture.ProtocolError{
		Violation:  v,
		ProducerID: ref.ProducerID,
		Table:      t.name,
		LocalID:    ref.LocalID,
	}
}
