package session

import (
	"context"
	"sync"
	"time"

	"comicforge/internal/domain"

	"github.com/google/uuid"
)

// Store holds server-side sessions keyed by an opaque id. Sessions expire
// after a fixed TTL; Destroy on an unknown id is not an error.
type Store interface {
	Create(ctx context.Context, identity domain.Identity) (string, error)
	Get(ctx context.Context, id string) (domain.Identity, error)
	Destroy(ctx context.Context, id string) error
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store used in tests and single-node setups.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Create(_ context.Context, identity domain.Identity) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{
		payload:   domain.ToSessionPayload(identity),
		expiresAt: time.Now().Add(s.ttl),
	}
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (domain.Identity, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok && time.Now().After(entry.expiresAt) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return domain.Identity{}, domain.ErrSessionNotFound
	}
	return domain.FromSessionPayload(entry.payload)
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
