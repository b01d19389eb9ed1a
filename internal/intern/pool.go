// Package intern assigns compact session-wide ids to repeated values.
package intern

import (
	"encoding/binary"
	"sync"

	"github.com/mrzor/capture-normalizer/internal/capture"
)

// InvalidID is never assigned. Callers use it as the unset sentinel.
const InvalidID uint64 = 0

// Pool maps each distinct value to a unique id. Ids start at 1 and grow by
// one per new value. Entries are never removed.
type Pool[K comparable] struct {
	mu     sync.Mutex
	ids    map[K]uint64
	nextID uint64
}

// New returns an empty pool.
func New[K comparable]() *Pool[K] {
	return &Pool[K]{
		ids:    make(map[K]uint64),
		nextID: InvalidID + 1,
	}
}

// GetOrAssignID returns the id of value, assigning the next id if value was
// never seen. isNew is true only for the call that created the mapping.
func (p *Pool[K]) GetOrAssignID(value K) (id uint64, isNew bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.ids[value]; ok {
		return id, false
	}
	id = p.nextID
	p.nextID++
	p.ids[value] = id
	return id, true
}

// Len returns the number of distinct values in the pool.
func (p *Pool[K]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ids)
}

// CallstackKey is the comparable form of a capture.Callstack.
type CallstackKey struct {
	pcs  string
	kind capture.CallstackType
}

// KeyForCallstack packs the program counters of cs into a CallstackKey.
// A nil callstack yields the key of an empty complete callstack.
func KeyForCallstack(cs *capture.Callstack) CallstackKey {
	if cs == nil {
		return CallstackKey{}
	}
	buf := make([]byte, len(cs.PCs)*8)
	for i, pc := range cs.PCs {
		binary.LittleEndian.PutUint64(buf[i*8:], pc)
	}
	return CallstackKey{pcs: string(buf), kind: cs.Type}
}

// TracepointKey is the comparable form of a capture.TracepointInfo.
type TracepointKey struct {
	Category string
	Name     string
}

// KeyForTracepoint returns the key of info. A nil info yields the zero key.
func KeyForTracepoint(info *capture.TracepointInfo) TracepointKey {
	if info == nil {
		return TracepointKey{}
	}
	return TracepointKey{Category: info.Category, Name: info.Name}
}
