package revmem

import (
	"context"
	"sync"

	"fedauth/internal/domain"
)

// Repository is an in-memory revoked-token store for single-process
// deployments and tests.
type Repository struct {
	mu      sync.Mutex
	entries map[string]domain.RevokedToken
}

func New() *Repository {
	return &Repository{entries: make(map[string]domain.RevokedToken)}
}

func (r *Repository) Get(_ context.Context, tokenHash string) (*domain.RevokedToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[tokenHash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := entry
	return &copied, nil
}

func (r *Repository) Insert(_ context.Context, entry domain.RevokedToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[entry.TokenHash]; ok {
		return domain.ErrAlreadyRevoked
	}
	r.entries[entry.TokenHash] = entry
	return nil
}

var _ domain.RevokedTokenRepository = (*Repository)(nil)
