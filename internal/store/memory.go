package store

import (
	"context"
	"errors"
	"sync"

	"hesabyar/internal/format"
	"hesabyar/internal/models"
)

// MemoryStore is an in-memory gateway used by tests.
type MemoryStore struct {
	mu     sync.Mutex
	data   models.AppData
	seeded bool

	// SaveErr, when set, makes every Save fail. Lets tests exercise the
	// "saved in memory but not persisted" warning path.
	SaveErr error
	// Saves counts successful Save calls.
	Saves int
}

// NewMemoryStore returns an empty in-memory gateway; the first Load
// seeds the default document just like the real stores.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith pre-fills the gateway with a document.
func NewMemoryStoreWith(data models.AppData) *MemoryStore {
	return &MemoryStore{data: data, seeded: true}
}

func (m *MemoryStore) Load(_ context.Context) (models.AppData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.seeded {
		m.data = models.DefaultData(format.TodayJalali().String())
		m.seeded = true
	}
	return m.data.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, data models.AppData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = data.Clone()
	m.seeded = true
	m.Saves++
	return nil
}

// Stored returns the last persisted document.
func (m *MemoryStore) Stored() (models.AppData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.seeded {
		return models.AppData{}, errors.New("nothing stored yet")
	}
	return m.data.Clone(), nil
}
