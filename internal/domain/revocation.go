package domain

import (
	"context"
	"time"
)

// RevokedToken records a bearer token that must no longer be honored even
// though it has not naturally expired. Only the one-way hash of the token
// is ever stored.
type RevokedToken struct {
	TokenHash string
	RevokedAt time.Time
	ExpiresAt time.Time
}

type RevokedTokenRepository interface {
	// Get returns the entry for a token hash, or ErrNotFound.
	Get(ctx context.Context, tokenHash string) (*RevokedToken, error)
	// Insert stores a new entry; ErrAlreadyRevoked if the hash exists.
	Insert(ctx context.Context, entry RevokedToken) error
}
