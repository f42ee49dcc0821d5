package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"immimate-hq/polaris/pkg/profile"
)

// MemoryStore implements profile.Store using an in-memory map.
// This implementation is intended for testing only.
type MemoryStore struct {
	profiles map[uuid.UUID]*profile.Profile
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory profile store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[uuid.UUID]*profile.Profile),
	}
}

// FindByApplicationID returns the profile for an application.
func (s *MemoryStore) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[applicationID]
	if !ok {
		return nil, profile.NewNotFoundError(applicationID)
	}

	profileCopy := *p
	return &profileCopy, nil
}

// Save inserts or replaces a profile snapshot.
func (s *MemoryStore) Save(ctx context.Context, p *profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profileCopy := *p
	s.profiles[p.ApplicationID] = &profileCopy
	return nil
}

// Close releases resources held by the store.
func (s *MemoryStore) Close() error {
	return nil
}
