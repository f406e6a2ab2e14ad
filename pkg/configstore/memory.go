// Copyright 2024-2026 Aiku AI

package configstore

import (
	"context"
	"sync"
)

// Memory is a mutex-guarded in-process Store. It is used by tests and by
// deployments that configure rules programmatically instead of through a
// shared bucket.
type Memory struct {
	mu       sync.RWMutex
	values   map[string]string
	watchers []chan Change
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// NewMemoryFrom returns an in-memory store seeded with the given entries.
func NewMemoryFrom(values map[string]string) *Memory {
	m := NewMemory()
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *Memory) List(_ context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *Memory) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.notifyLocked(Change{Key: key, Value: value})
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, existed := m.values[key]
	delete(m.values, key)
	if existed {
		m.notifyLocked(Change{Key: key, Deleted: true})
	}
	return nil
}

func (m *Memory) Watch(ctx context.Context) (<-chan Change, error) {
	ch := make(chan Change, 64)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		// Remove and close under mu: notifyLocked only sends while
		// holding mu, so a watcher channel is never closed with a send
		// in flight.
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, w := range m.watchers {
			if w == ch {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

// notifyLocked delivers a change to every watcher. Callers must hold mu.
func (m *Memory) notifyLocked(change Change) {
	for _, w := range m.watchers {
		select {
		case w <- change:
		default:
			// Slow watcher, drop rather than block writers.
		}
	}
}
