package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process ItemStore. Items are kept in insertion order.
type Memory struct {
	mu     sync.RWMutex
	items  []Item
	nextID int64
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{nextID: 1, now: defaultClock}
}

// SetClock overrides the timestamp source.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) Create(_ context.Context, text string) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	it := Item{ID: m.nextID, Text: text, CreatedAt: now, UpdatedAt: now}
	m.nextID++
	m.items = append(m.items, it)
	return it, nil
}

func (m *Memory) Find(_ context.Context, id int64) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.index(id); i >= 0 {
		return m.items[i], nil
	}
	return Item{}, NotFound("find")
}

func (m *Memory) All(_ context.Context) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *Memory) UpdateCompleted(_ context.Context, id int64) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return Item{}, NotFound("find")
	}
	m.items[i].Completed = true
	m.items[i].UpdatedAt = m.now()
	return m.items[i], nil
}

func (m *Memory) DestroyAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) index(id int64) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}
