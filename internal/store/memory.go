// internal/store/memory.go
//
// In-memory session store.
//
// Characteristics:
//   - Stores Records keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Records are values; a Get never aliases the stored copy's header.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ScarletRegal/ui-deckbuilder/internal/game"
)

// ErrNotFound is returned by Get for unknown or expired sessions.
var ErrNotFound = errors.New("not found")

// Record is one session's persisted state.
type Record struct {
	ID        string     `json:"id"`
	DailyDate string     `json:"dailyDate,omitempty"`
	State     game.State `json:"state"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Store defines the persistence interface for sessions.
type Store interface {
	// Save persists or replaces a record.
	Save(ctx context.Context, r Record) error

	// Get retrieves a record by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// Delete removes a record. Unknown ids are not an error.
	Delete(ctx context.Context, id string) error

	// Expired lists ids of records not updated since before.
	Expired(ctx context.Context, before time.Time) ([]string, error)
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]Record
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]Record)}
}

func (m *memory) Save(ctx context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[r.ID] = r
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.sessions[id]; ok {
		return r, nil
	}
	return Record{}, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Expired(ctx context.Context, before time.Time) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, r := range m.sessions {
		if r.UpdatedAt.Before(before) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
