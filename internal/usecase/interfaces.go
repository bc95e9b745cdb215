package usecase

import (
	"context"

	"fedauth/internal/domain"
)

// KeyFetcher dereferences a keyId to the remote signer's published key
// material. Implementations must honor context cancellation; the fetch is
// the only blocking call in the verification path.
type KeyFetcher interface {
	Fetch(ctx context.Context, keyID string) (domain.SigningKeyRecord, error)
}

// KeyCache is the shared verifying-key cache. Put replaces the whole
// record; RefreshState must consult the stored FetchedAt at call time.
type KeyCache interface {
	Get(keyID string) (domain.SigningKeyRecord, bool)
	Put(record domain.SigningKeyRecord)
	RefreshState(keyID string) domain.RefreshState
}
