package otp

import (
	"context"
	"crypto/subtle"
	"sync"

	"github.com/student-bubble/internal/domain"
)

// Store persists at most one OtpRecord per identity.
//
// Consume deletes the record for identity only if its code still equals code,
// and reports whether it did. It is the single-use gate: two concurrent
// verifications of the same code cannot both consume it.
type Store interface {
	Put(ctx context.Context, rec domain.OtpRecord) error
	Get(ctx context.Context, identity string) (domain.OtpRecord, bool, error)
	Consume(ctx context.Context, identity, code string) (bool, error)
}

// MemoryStore keeps records in process memory. Expired records are never
// swept; they stay until overwritten or consumed.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]domain.OtpRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]domain.OtpRecord)}
}

func (s *MemoryStore) Put(_ context.Context, rec domain.OtpRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Identity] = rec
	return nil
}

func (s *MemoryStore) Get(_ context.Context, identity string) (domain.OtpRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[identity]
	return rec, ok, nil
}

func (s *MemoryStore) Consume(_ context.Context, identity, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[identity]
	if !ok || !codesEqual(rec.Code, code) {
		return false, nil
	}
	delete(s.records, identity)
	return true, nil
}

// Len returns the number of records held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func codesEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
