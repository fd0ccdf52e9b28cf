package store

import (
	"sync"
	"time"
)

// Entry is anything the registry can hold and age out
type Entry interface {
	CreatedAt() time.Time
}

// Repository is the game registry storage
type Repository[T Entry] interface {
	Get(code string) (T, bool)
	Create(code string, entry T) bool
	Delete(code string) (T, bool)
	Sweep(cutoff time.Time) []T
	Len() int
	All() []T
}

// Memory is an in-memory Repository guarded by a single lock
type Memory[T Entry] struct {
	entries map[string]T
	mu      sync.RWMutex
}

// NewMemory creates an empty in-memory repository
func NewMemory[T Entry]() *Memory[T] {
	return &Memory[T]{
		entries: make(map[string]T),
	}
}

// Get retrieves an entry by code
func (m *Memory[T]) Get(code string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[code]
	return entry, ok
}

// Create stores the entry unless the code is already taken
func (m *Memory[T]) Create(code string, entry T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[code]; exists {
		return false
	}
	m.entries[code] = entry
	return true
}

// Delete removes and returns an entry
func (m *Memory[T]) Delete(code string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[code]
	if ok {
		delete(m.entries, code)
	}
	return entry, ok
}

// Sweep removes and returns every entry created before cutoff
func (m *Memory[T]) Sweep(cutoff time.Time) []T {
	m.mu.Lock()
	defer m.mu.Unlock()

	swept := make([]T, 0)
	for code, entry := range m.entries {
		if entry.CreatedAt().Before(cutoff) {
			swept = append(swept, entry)
			delete(m.entries, code)
		}
	}
	return swept
}

// Len returns the number of stored entries
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// All returns a snapshot of every stored entry
func (m *Memory[T]) All() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]T, 0, len(m.entries))
	for _, entry := range m.entries {
		all = append(all, entry)
	}
	return all
}
