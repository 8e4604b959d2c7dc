package session

import (
	"context"
	"sync"
	"time"

	"github.com/krishimitra/server/internal/domain"
)

// memoryStore keeps records in a map guarded by a read-write mutex.
// Records are copied at the boundary so callers never alias stored state;
// the Version check in Update then compares against what the caller last
// read, matching the Redis driver's marshal/unmarshal semantics.
type memoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]*Record)}
}

// cloneRecord copies a record including its message list. Message values
// are immutable once created, so a new slice is enough.
func cloneRecord(rec *Record) *Record {
	out := *rec
	out.Session.Messages = append([]domain.Message(nil), rec.Session.Messages...)
	return &out
}

func (s *memoryStore) Create(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Version = 1

	s.records[rec.ID] = cloneRecord(rec)
	return nil
}

func (s *memoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[id]
	if !exists {
		return nil, nil
	}
	return cloneRecord(rec), nil
}

func (s *memoryStore) Update(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.records[rec.ID]
	if !exists {
		return ErrNotFound
	}
	if stored.Version != rec.Version {
		return ErrVersionConflict
	}

	rec.Version++
	rec.UpdatedAt = time.Now()

	s.records[rec.ID] = cloneRecord(rec)
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return nil
}
