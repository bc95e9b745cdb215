package keystore

import (
	"testing"
	"time"

	"fedauth/internal/domain"
)

func TestStorePutReplacesWholeRecord(t *testing.T) {
	store := New()
	store.Put(domain.SigningKeyRecord{
		KeyID:     "https://remote.example/actor#main-key",
		PEM:       []byte("old"),
		Owner:     domain.RemoteActorRef{ActorID: "https://remote.example/actor", Domain: "remote.example"},
		FetchedAt: time.Now(),
	})
	store.Put(domain.SigningKeyRecord{
		KeyID:     "https://remote.example/actor#main-key",
		PEM:       []byte("new"),
		Owner:     domain.RemoteActorRef{ActorID: "https://remote.example/actor", Domain: "remote.example"},
		FetchedAt: time.Now(),
	})

	record, ok := store.Get("https://remote.example/actor#main-key")
	if !ok {
		t.Fatalf("expected record")
	}
	if string(record.PEM) != "new" {
		t.Fatalf("expected replaced record, got %q", record.PEM)
	}
}

func TestStoreGetMiss(t *testing.T) {
	store := New()
	if _, ok := store.Get("missing"); ok {
		t.Fatalf("expected miss")
	}
}

func TestRefreshStateTransitions(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	store := New(
		WithClock(func() time.Time { return now }),
		WithRefreshGuard(30*time.Second),
	)

	if state := store.RefreshState("key"); state != domain.RefreshMissing {
		t.Fatalf("expected missing, got %v", state)
	}

	store.Put(domain.SigningKeyRecord{KeyID: "key", FetchedAt: base})

	now = base.Add(10 * time.Second)
	if state := store.RefreshState("key"); state != domain.RefreshTooYoung {
		t.Fatalf("expected too young, got %v", state)
	}

	now = base.Add(31 * time.Second)
	if state := store.RefreshState("key"); state != domain.RefreshEligible {
		t.Fatalf("expected eligible, got %v", state)
	}
}

func TestRefreshEligibilityZeroFetchedAt(t *testing.T) {
	state := domain.RefreshEligibility(time.Time{}, time.Now(), 30*time.Second)
	if state != domain.RefreshMissing {
		t.Fatalf("expected missing, got %v", state)
	}
}
