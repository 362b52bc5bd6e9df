package storage

import (
	"context"
	"sync"
	"time"

	"barbershop/internal/domain/entity"
	"barbershop/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type memoryEntry struct {
	client    entity.PersistedClient
	expiresAt time.Time // zero means no expiry
}

// memoryStorage keeps persisted client state in process memory. State is lost on restart.
type memoryStorage struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
	now     func() time.Time
}

// NewMemoryStorage creates an in-process ClientStorage.
func NewMemoryStorage() repository.ClientStorage {
	return newMemoryStorage(time.Now)
}

func newMemoryStorage(now func() time.Time) *memoryStorage {
	return &memoryStorage{
		entries: make(map[uuid.UUID]memoryEntry),
		now:     now,
	}
}

func (s *memoryStorage) Load(_ context.Context, clientID uuid.UUID) (*entity.PersistedClient, error) {
	s.mu.RLock()
	entry, ok := s.entries[clientID]
	s.mu.RUnlock()

	if !ok || (!entry.expiresAt.IsZero() && s.now().After(entry.expiresAt)) {
		return nil, errors.WithStack(repository.ErrClientNotFound)
	}

	return clonePersisted(&entry.client), nil
}

func (s *memoryStorage) Save(_ context.Context, clientID uuid.UUID, client *entity.PersistedClient, ttl time.Duration) error {
	if client == nil {
		return errors.New("nil client state")
	}

	entry := memoryEntry{client: *clonePersisted(client)}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[clientID] = entry
	s.mu.Unlock()

	return nil
}

func (s *memoryStorage) Delete(_ context.Context, clientID uuid.UUID) error {
	s.mu.Lock()
	delete(s.entries, clientID)
	s.mu.Unlock()

	return nil
}

func clonePersisted(p *entity.PersistedClient) *entity.PersistedClient {
	out := *p
	if p.User != nil {
		user := *p.User
		out.User = &user
	}
	if p.Incomplete != nil {
		incomplete := *p.Incomplete
		out.Incomplete = &incomplete
	}

	return &out
}
