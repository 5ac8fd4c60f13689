package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/faideww/fishing-tweaks/internal/fish"
	"github.com/google/uuid"
)

// Memory is a process-local Store.
type Memory struct {
	mu     sync.Mutex
	counts map[string]map[string]string
	events []fish.CatchEvent
	closed bool
}

func NewMemory() *Memory {
	return &Memory{counts: make(map[string]map[string]string)}
}

func (m *Memory) LoadCounts(_ context.Context, playerId string) (map[string][]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrStoreClosed
	}

	out := make(map[string][]int, len(m.counts[playerId]))
	for k, v := range m.counts[playerId] {
		out[k] = decodeCounts(v)
	}
	return out, nil
}

func (m *Memory) SaveCounts(_ context.Context, playerId string, counts map[string][]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}

	rows := m.counts[playerId]
	if rows == nil {
		rows = make(map[string]string, len(counts))
		m.counts[playerId] = rows
	}
	for k, v := range counts {
		if len(v) == 0 {
			delete(rows, k)
			continue
		}
		rows[k] = encodeCounts(v)
	}
	return nil
}

func (m *Memory) AppendEvent(_ context.Context, e fish.CatchEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}

	if e.Id == "" {
		e.Id = uuid.NewString()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}
	m.events = append(m.events, e)
	return nil
}

func (m *Memory) RecentEvents(_ context.Context, playerId string, kind fish.Kind, limit int) ([]fish.CatchEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrStoreClosed
	}

	if limit <= 0 {
		limit = 10
	}
	var out []fish.CatchEvent
	for i := len(m.events) - 1; i >= 0; i-- {
		e := m.events[i]
		if e.PlayerId == playerId && e.Kind == kind {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
