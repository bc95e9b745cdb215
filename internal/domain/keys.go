package domain

import (
	"crypto"
	"time"
)

// KeyOwner identifies the single identity a signing key belongs to. A key
// is owned by exactly one local user or one remote actor, never both.
type KeyOwner interface {
	isKeyOwner()
	OwnerID() string
}

type LocalUserRef struct {
	UserID string
}

func (LocalUserRef) isKeyOwner() {}

func (r LocalUserRef) OwnerID() string { return r.UserID }

type RemoteActorRef struct {
	ActorID string
	Domain  string
}

func (RemoteActorRef) isKeyOwner() {}

func (r RemoteActorRef) OwnerID() string { return r.ActorID }

// SigningKeyRecord is the cached verifying material for one keyId. Records
// are replaced wholesale on refresh; fields are never merged.
type SigningKeyRecord struct {
	KeyID     string
	PublicKey crypto.PublicKey
	PEM       []byte
	Owner     KeyOwner
	FetchedAt time.Time
}

// RefreshState classifies a cached record's eligibility for a forced
// re-fetch.
type RefreshState int

const (
	RefreshMissing RefreshState = iota
	// RefreshTooYoung: fetched inside the guard window; must not be
	// replaced yet.
	RefreshTooYoung
	RefreshEligible
)

// RefreshEligibility decides whether a record fetched at fetchedAt may be
// forcibly refreshed at now. The guard bounds the fetch cost a remote can
// impose by repeatedly sending signatures that fail verification.
func RefreshEligibility(fetchedAt, now time.Time, guard time.Duration) RefreshState {
	if fetchedAt.IsZero() {
		return RefreshMissing
	}
	if now.Sub(fetchedAt) < guard {
		return RefreshTooYoung
	}
	return RefreshEligible
}
