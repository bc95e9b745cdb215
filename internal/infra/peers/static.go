package peers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fedauth/internal/domain"
)

// StaticStore serves peer configuration provisioned out of band via the
// FEDERATION_PEERS environment value. It is read-only after construction.
type StaticStore struct {
	peers map[string]domain.PeerConfig
}

type peerEntry struct {
	Domain       string `json:"domain"`
	SharedSecret string `json:"shared_secret"`
	KeyID        string `json:"key_id"`
	Enabled      *bool  `json:"enabled"`
}

// NewStaticStore parses a JSON array of peer entries. Entries default to
// enabled unless explicitly disabled.
func NewStaticStore(rawJSON string) (*StaticStore, error) {
	store := &StaticStore{peers: make(map[string]domain.PeerConfig)}
	if strings.TrimSpace(rawJSON) == "" {
		return store, nil
	}
	var entries []peerEntry
	if err := json.Unmarshal([]byte(rawJSON), &entries); err != nil {
		return nil, fmt.Errorf("parse federation peers: %w", err)
	}
	for _, entry := range entries {
		if entry.Domain == "" || entry.SharedSecret == "" {
			return nil, fmt.Errorf("federation peer entry missing domain or shared_secret")
		}
		enabled := true
		if entry.Enabled != nil {
			enabled = *entry.Enabled
		}
		store.peers[entry.Domain] = domain.PeerConfig{
			Domain:       entry.Domain,
			SharedSecret: []byte(entry.SharedSecret),
			KeyID:        entry.KeyID,
			Enabled:      enabled,
		}
	}
	return store, nil
}

func (s *StaticStore) GetByDomain(_ context.Context, peerDomain string) (*domain.PeerConfig, error) {
	peer, ok := s.peers[peerDomain]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := peer
	return &copied, nil
}

func (s *StaticStore) Len() int { return len(s.peers) }
