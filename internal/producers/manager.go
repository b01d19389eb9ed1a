package producers

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/mrzor/capture-normalizer/internal/capture"
)

// Stats is the bookkeeping of one producer.
type Stats struct {
	ProducerID              uint64
	FirstSeen               time.Time
	LastSeen                time.Time
	Events                  map[capture.Kind]uint64
	AnnouncementsForwarded  uint64
	AnnouncementsSuppressed uint64
	Issues                  []string
}

// TotalEvents returns the number of events received from the producer.
func (s *Stats) TotalEvents() uint64 {
	return lo.Sum(lo.Values(s.Events))
}

func (s *Stats) clone() *Stats {
	c := *s
	c.Events = maps.Clone(s.Events)
	c.Issues = slices.Clone(s.Issues)
	return &c
}

// Manager tracks the producers of one capture session.
type Manager struct {
	now func() time.Time

	mu    sync.RWMutex
	stats map[uint64]*Stats // producer id -> stats
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		now:   time.Now,
		stats: make(map[uint64]*Stats),
	}
}

// Get returns a copy of the stats of a producer (query).
// Returns nil if the producer was never seen.
func (m *Manager) Get(producerID uint64) *Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.stats[producerID]
	if !ok {
		return nil
	}
	return s.clone()
}

// IDs returns the ids of all producers seen, in ascending order (query).
func (m *Manager) IDs() []uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.stats))
}

// Snapshot returns copies of the stats of all producers, ordered by id (query).
func (m *Manager) Snapshot() []*Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := slices.Sorted(maps.Keys(m.stats))
	return lo.Map(ids, func(id uint64, _ int) *Stats {
		return m.stats[id].clone()
	})
}

// RecordEvent counts an event received from a producer (command).
func (m *Manager) RecordEvent(producerID uint64, kind capture.Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getOrCreate(producerID).Events[kind]++
}

// ObserveAnnouncement counts an announcement made by a producer (command).
// forwarded is false when the value already had a global id.
func (m *Manager) ObserveAnnouncement(producerID uint64, _ string, forwarded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.getOrCreate(producerID)
	if forwarded {
		s.AnnouncementsForwarded++
	} else {
		s.AnnouncementsSuppressed++
	}
}

// AddIssue adds an issue about a producer's stream (command).
func (m *Manager) AddIssue(producerID uint64, issue string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.getOrCreate(producerID)
	s.Issues = append(s.Issues, issue)
}

// Delete removes all data for a producer (command).
func (m *Manager) Delete(producerID uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stats, producerID)
}

// getOrCreate must be called with mu held for writing. It also refreshes
// LastSeen.
func (m *Manager) getOrCreate(producerID uint64) *Stats {
	now := m.now()
	s, ok := m.stats[producerID]
	if !ok {
		s = &Stats{
			ProducerID: producerID,
			FirstSeen:  now,
			Events:     make(map[capture.Kind]uint64),
		}
		m.stats[producerID] = s
	}
	s.LastSeen = now
	return s
}
