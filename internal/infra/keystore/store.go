package keystore

import (
	"sync"
	"time"

	"fedauth/internal/domain"
)

const DefaultRefreshGuard = 30 * time.Second

// Store is an in-memory cache of verifying-key records keyed by keyId.
// Records are replaced wholesale; stale entries are superseded, never
// proactively deleted.
type Store struct {
	mu      sync.RWMutex
	guard   time.Duration
	now     func() time.Time
	records map[string]domain.SigningKeyRecord
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithRefreshGuard(guard time.Duration) Option {
	return func(s *Store) { s.guard = guard }
}

func New(opts ...Option) *Store {
	s := &Store{
		guard:   DefaultRefreshGuard,
		now:     time.Now,
		records: make(map[string]domain.SigningKeyRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Get(keyID string) (domain.SigningKeyRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[keyID]
	return record, ok
}

// Put stores a record, replacing any previous one for the same keyId.
func (s *Store) Put(record domain.SigningKeyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.KeyID] = record
}

// RefreshState reports eligibility against the stored FetchedAt at call
// time, so concurrent refresh attempts observe each other's writes.
func (s *Store) RefreshState(keyID string) domain.RefreshState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[keyID]
	if !ok {
		return domain.RefreshMissing
	}
	return domain.RefreshEligibility(record.FetchedAt, s.now(), s.guard)
}
