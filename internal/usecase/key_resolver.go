package usecase

import (
	"context"

	"fedauth/internal/domain"
)

// KeyResolver returns verifiable key material for a keyId, consulting the
// cache first and fetching from the network on miss.
type KeyResolver struct {
	Cache   KeyCache
	Fetcher KeyFetcher
}

func NewKeyResolver(cache KeyCache, fetcher KeyFetcher) *KeyResolver {
	return &KeyResolver{Cache: cache, Fetcher: fetcher}
}

// Resolve returns the cached record for keyID, fetching and caching it on
// miss. No lock is held across the fetch; if two callers race on the same
// unknown keyId both fetch and the second write wins, which is safe because
// records are full replacements.
func (r *KeyResolver) Resolve(ctx context.Context, keyID string) (domain.SigningKeyRecord, error) {
	if record, ok := r.Cache.Get(keyID); ok {
		return record, nil
	}
	record, err := r.Fetcher.Fetch(ctx, keyID)
	if err != nil {
		return domain.SigningKeyRecord{}, err
	}
	r.Cache.Put(record)
	return record, nil
}

// Refresh forces a re-fetch of keyID, refusing with ErrRefreshTooYoung when
// the stored record is inside the guard window. The guard is evaluated
// against the store at call time, so a concurrent refresh that already
// replaced the record makes this one refuse.
func (r *KeyResolver) Refresh(ctx context.Context, keyID string) (domain.SigningKeyRecord, error) {
	if r.Cache.RefreshState(keyID) == domain.RefreshTooYoung {
		return domain.SigningKeyRecord{}, domain.ErrRefreshTooYoung
	}
	record, err := r.Fetcher.Fetch(ctx, keyID)
	if err != nil {
		return domain.SigningKeyRecord{}, err
	}
	r.Cache.Put(record)
	return record, nil
}
