// internal/store/memory.go
//
// In-memory SaveStore, used when no valkey URL is configured and in tests.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Values are copied on the way in and out, so callers never share slices.
package store

import (
	"context"
	"sync"

	"github.com/robalobadob/duotrigordle/internal/serial"
)

type memory struct {
	mu    sync.RWMutex
	saves map[SaveKey]*serial.GameSerialized
}

// NewMemoryStore constructs an empty in-memory SaveStore.
func NewMemoryStore() SaveStore {
	return &memory{saves: make(map[SaveKey]*serial.GameSerialized)}
}

func (m *memory) Put(ctx context.Context, k SaveKey, g serial.GameSerialized) error {
	if err := k.validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves[k] = cloneSave(g)
	return nil
}

func (m *memory) Get(ctx context.Context, k SaveKey) (*serial.GameSerialized, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.saves[k]; ok {
		return cloneSave(*g), nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, k SaveKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saves, k)
	return nil
}
