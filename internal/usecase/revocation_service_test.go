package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"fedauth/internal/domain"
	"fedauth/internal/infra/revmem"
)

type failingRevocationRepo struct{}

func (failingRevocationRepo) Get(context.Context, string) (*domain.RevokedToken, error) {
	return nil, domain.ErrStoreUnavailable
}

func (failingRevocationRepo) Insert(context.Context, domain.RevokedToken) error {
	return domain.ErrStoreUnavailable
}

func TestRevokeThenCheck(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	svc := NewTokenRevocationService(revmem.New(), false)
	svc.Now = func() time.Time { return now }
	ctx := context.Background()

	if err := svc.Revoke(ctx, "token-1", base.Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	revoked, err := svc.IsRevoked(ctx, "token-1")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if !revoked {
		t.Fatalf("expected token revoked before natural expiry")
	}

	// Past the token's natural expiry the entry is inert.
	now = base.Add(2 * time.Hour)
	revoked, err = svc.IsRevoked(ctx, "token-1")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if revoked {
		t.Fatalf("expected entry inert after expiry")
	}
}

func TestUnrevokedTokenNotRevoked(t *testing.T) {
	svc := NewTokenRevocationService(revmem.New(), false)
	revoked, err := svc.IsRevoked(context.Background(), "never-seen")
	if err != nil || revoked {
		t.Fatalf("expected not revoked, got %v %v", revoked, err)
	}
}

func TestRevokeTwiceReturnsAlreadyRevoked(t *testing.T) {
	svc := NewTokenRevocationService(revmem.New(), false)
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)

	if err := svc.Revoke(ctx, "token-1", expiry); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := svc.Revoke(ctx, "token-1", expiry); !errors.Is(err, domain.ErrAlreadyRevoked) {
		t.Fatalf("expected already revoked, got %v", err)
	}
}

func TestIsRevokedFailsClosedByDefault(t *testing.T) {
	svc := NewTokenRevocationService(failingRevocationRepo{}, false)
	_, err := svc.IsRevoked(context.Background(), "token-1")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestIsRevokedFailsOpenWhenConfigured(t *testing.T) {
	svc := NewTokenRevocationService(failingRevocationRepo{}, true)
	revoked, err := svc.IsRevoked(context.Background(), "token-1")
	if err != nil {
		t.Fatalf("expected fail-open, got %v", err)
	}
	if revoked {
		t.Fatalf("fail-open must report not revoked")
	}
}

func TestHashTokenNeverStoresRaw(t *testing.T) {
	repo := revmem.New()
	svc := NewTokenRevocationService(repo, false)
	ctx := context.Background()

	if err := svc.Revoke(ctx, "super-secret-token", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := repo.Get(ctx, "super-secret-token"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("raw token must not be a valid lookup key")
	}
	if _, err := repo.Get(ctx, HashToken("super-secret-token")); err != nil {
		t.Fatalf("hashed lookup should succeed: %v", err)
	}
}
