package fetchlog

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// DefaultCapacity is the number of events a memory log retains.
const DefaultCapacity = 500

// Memory is an in-process fetch log. It keeps the most recent events in a
// ring and per-endpoint counters for its whole lifetime.
type Memory struct {
	mu     sync.RWMutex
	events []Event
	next   int
	full   bool
	stats  map[string]*Stat
}

var _ Log = (*Memory)(nil)

// NewMemory returns a log retaining up to capacity events.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{
		events: make([]Event, capacity),
		stats:  make(map[string]*Stat),
	}
}

func (m *Memory) Record(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events[m.next] = e
	m.next = (m.next + 1) % len(m.events)
	if m.next == 0 {
		m.full = true
	}

	s, ok := m.stats[e.Endpoint]
	if !ok {
		s = &Stat{Endpoint: e.Endpoint}
		m.stats[e.Endpoint] = s
	}
	s.Requests++
	if e.Fallback {
		s.Fallbacks++
	}
	s.LastStatus = e.Status
	s.LastError = e.Error
	s.LastAt = e.At
	return nil
}

func (m *Memory) Recent(_ context.Context, limit int) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := m.next
	if m.full {
		n = len(m.events)
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]Event, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (m.next - i + len(m.events)) % len(m.events)
		out = append(out, m.events[idx])
	}
	return out, nil
}

func (m *Memory) Stats(_ context.Context) ([]Stat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Stat, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b Stat) int { return strings.Compare(a.Endpoint, b.Endpoint) })
	return out, nil
}

func (m *Memory) Close() error { return nil }
