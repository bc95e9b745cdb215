package peers

import (
	"context"
	"errors"
	"testing"

	"fedauth/internal/domain"
)

func TestStaticStoreParsesPeers(t *testing.T) {
	store, err := NewStaticStore(`[
		{"domain":"peer-a.example","shared_secret":"secret-a","key_id":"key-a"},
		{"domain":"peer-b.example","shared_secret":"secret-b","enabled":false}
	]`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 peers, got %d", store.Len())
	}

	peer, err := store.GetByDomain(context.Background(), "peer-a.example")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !peer.Enabled {
		t.Fatalf("expected peer enabled by default")
	}
	if string(peer.SharedSecret) != "secret-a" || peer.KeyID != "key-a" {
		t.Fatalf("unexpected peer %+v", peer)
	}

	peer, err = store.GetByDomain(context.Background(), "peer-b.example")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if peer.Enabled {
		t.Fatalf("expected peer-b disabled")
	}
}

func TestStaticStoreUnknownDomain(t *testing.T) {
	store, err := NewStaticStore("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := store.GetByDomain(context.Background(), "stranger.example"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStaticStoreRejectsIncompleteEntries(t *testing.T) {
	if _, err := NewStaticStore(`[{"domain":"peer-a.example"}]`); err == nil {
		t.Fatalf("expected error for missing shared_secret")
	}
	if _, err := NewStaticStore(`not json`); err == nil {
		t.Fatalf("expected error for malformed json")
	}
}
