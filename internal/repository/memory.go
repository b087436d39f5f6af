// internal/repository/memory.go
package repository

import (
	"context"
	"sync"

	"github.com/iamnolimit/tg-uno-bot/internal/engine"
)

// MemoryRepository is a map-backed Repository for tests and local runs
// without Redis.
type MemoryRepository struct {
	mu    sync.Mutex
	snaps map[int64]engine.Snapshot
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{snaps: make(map[int64]engine.Snapshot)}
}

func (m *MemoryRepository) Load(_ context.Context, chatID int64) (engine.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snaps[chatID]
	return snap, ok, nil
}

func (m *MemoryRepository) Save(_ context.Context, chatID int64, snap engine.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[chatID] = snap
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, chatID)
	return nil
}

func (m *MemoryRepository) ChatIDs(_ context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.snaps))
	for id := range m.snaps {
		ids = append(ids, id)
	}
	return ids, nil
}
