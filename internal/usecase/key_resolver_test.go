package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"fedauth/internal/domain"
	"fedauth/internal/infra/keystore"
)

type countingFetcher struct {
	calls   int
	records map[string]domain.SigningKeyRecord
	err     error
}

func (f *countingFetcher) Fetch(_ context.Context, keyID string) (domain.SigningKeyRecord, error) {
	f.calls++
	if f.err != nil {
		return domain.SigningKeyRecord{}, f.err
	}
	record, ok := f.records[keyID]
	if !ok {
		return domain.SigningKeyRecord{}, domain.ErrKeyFetchFailed
	}
	return record, nil
}

func TestResolveCacheHitDoesNotFetch(t *testing.T) {
	cache := keystore.New()
	cache.Put(domain.SigningKeyRecord{KeyID: "key", FetchedAt: time.Now()})
	fetcher := &countingFetcher{}
	resolver := NewKeyResolver(cache, fetcher)

	record, err := resolver.Resolve(context.Background(), "key")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if record.KeyID != "key" {
		t.Fatalf("unexpected record %q", record.KeyID)
	}
	if fetcher.calls != 0 {
		t.Fatalf("expected no fetch on cache hit, got %d", fetcher.calls)
	}
}

func TestResolveFetchesAndCachesOnMiss(t *testing.T) {
	cache := keystore.New()
	fetcher := &countingFetcher{records: map[string]domain.SigningKeyRecord{
		"key": {KeyID: "key", FetchedAt: time.Now()},
	}}
	resolver := NewKeyResolver(cache, fetcher)

	if _, err := resolver.Resolve(context.Background(), "key"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", fetcher.calls)
	}
	if _, ok := cache.Get("key"); !ok {
		t.Fatalf("expected record cached after fetch")
	}
}

func TestResolvePropagatesFetchFailure(t *testing.T) {
	resolver := NewKeyResolver(keystore.New(), &countingFetcher{err: domain.ErrKeyFetchFailed})
	_, err := resolver.Resolve(context.Background(), "key")
	if !errors.Is(err, domain.ErrKeyFetchFailed) {
		t.Fatalf("expected fetch failure, got %v", err)
	}
}

func TestRefreshRefusedInsideGuardWindow(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := keystore.New(
		keystore.WithClock(func() time.Time { return base.Add(5 * time.Second) }),
		keystore.WithRefreshGuard(30*time.Second),
	)
	cache.Put(domain.SigningKeyRecord{KeyID: "key", FetchedAt: base})
	fetcher := &countingFetcher{}
	resolver := NewKeyResolver(cache, fetcher)

	_, err := resolver.Refresh(context.Background(), "key")
	if !errors.Is(err, domain.ErrRefreshTooYoung) {
		t.Fatalf("expected too-young refusal, got %v", err)
	}
	if fetcher.calls != 0 {
		t.Fatalf("expected no fetch on refused refresh, got %d", fetcher.calls)
	}
}

func TestRefreshReplacesEligibleRecord(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := keystore.New(
		keystore.WithClock(func() time.Time { return base.Add(time.Minute) }),
		keystore.WithRefreshGuard(30*time.Second),
	)
	cache.Put(domain.SigningKeyRecord{KeyID: "key", PEM: []byte("old"), FetchedAt: base})
	fetcher := &countingFetcher{records: map[string]domain.SigningKeyRecord{
		"key": {KeyID: "key", PEM: []byte("new"), FetchedAt: base.Add(time.Minute)},
	}}
	resolver := NewKeyResolver(cache, fetcher)

	record, err := resolver.Refresh(context.Background(), "key")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if string(record.PEM) != "new" {
		t.Fatalf("expected refreshed record, got %q", record.PEM)
	}
	cached, _ := cache.Get("key")
	if string(cached.PEM) != "new" {
		t.Fatalf("expected cache replaced, got %q", cached.PEM)
	}
}
