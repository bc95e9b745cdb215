package domain

import "context"

// PeerConfig is the out-of-band provisioned trust record for one closed
// federation peer. Lookups are by exact domain string; an unknown domain
// must yield no record, never a shared default.
type PeerConfig struct {
	Domain       string
	SharedSecret []byte
	KeyID        string
	Enabled      bool
}

type PeerStore interface {
	GetByDomain(ctx context.Context, domain string) (*PeerConfig, error)
}
