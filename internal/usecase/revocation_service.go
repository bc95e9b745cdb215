package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"fedauth/internal/domain"
)

// TokenRevocationService records bearer tokens that must no longer be
// honored before their natural expiry. Raw tokens are hashed before any
// lookup or storage and are never persisted.
type TokenRevocationService struct {
	Repo domain.RevokedTokenRepository
	// FailOpen treats a store error as not-revoked instead of propagating
	// it. Reserved for transient outages such as rolling upgrades; every
	// fail-open decision is logged.
	FailOpen bool
	Now      func() time.Time
}

func NewTokenRevocationService(repo domain.RevokedTokenRepository, failOpen bool) *TokenRevocationService {
	return &TokenRevocationService{Repo: repo, FailOpen: failOpen, Now: time.Now}
}

func HashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

// IsRevoked reports whether rawToken was revoked and the revocation is
// still in force. Entries past their ExpiresAt are inert.
func (s *TokenRevocationService) IsRevoked(ctx context.Context, rawToken string) (bool, error) {
	entry, err := s.Repo.Get(ctx, HashToken(rawToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		if s.FailOpen {
			log.Printf("revocation store unavailable, failing open: %v", err)
			return false, nil
		}
		return false, err
	}
	return s.Now().Before(entry.ExpiresAt), nil
}

// Revoke records rawToken as revoked until expiresAt. Revoking the same
// token twice returns ErrAlreadyRevoked.
func (s *TokenRevocationService) Revoke(ctx context.Context, rawToken string, expiresAt time.Time) error {
	return s.Repo.Insert(ctx, domain.RevokedToken{
		TokenHash: HashToken(rawToken),
		RevokedAt: s.Now(),
		ExpiresAt: expiresAt,
	})
}
