package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"fedauth/internal/domain"
)

const DefaultPeerTimestampSkew = 5 * time.Minute

// PeerAuthErrorKind names which check failed, for internal logging only.
// Callers must present every failure as a generic unauthorized response.
type PeerAuthErrorKind string

const (
	PeerAuthMissingDomain        PeerAuthErrorKind = "missing_domain"
	PeerAuthMissingTimestamp     PeerAuthErrorKind = "missing_timestamp"
	PeerAuthMissingContentDigest PeerAuthErrorKind = "missing_content_digest"
	PeerAuthMissingSignature     PeerAuthErrorKind = "missing_signature"
	PeerAuthInvalidTimestamp     PeerAuthErrorKind = "invalid_timestamp"
	PeerAuthInvalidContentDigest PeerAuthErrorKind = "invalid_content_digest"
	PeerAuthUnknownPeer          PeerAuthErrorKind = "unknown_peer"
	PeerAuthInvalidSignature     PeerAuthErrorKind = "invalid_signature"
)

type PeerAuthError struct {
	Kind PeerAuthErrorKind
}

func (e *PeerAuthError) Error() string { return string(e.Kind) }

// PeerProof carries the five proof headers of the trusted-peer channel.
type PeerProof struct {
	Domain    string
	KeyID     string
	Timestamp string
	Digest    string
	Signature string
}

// PeerTrustAuthenticator verifies requests on the closed-peer channel with
// a per-peer shared secret.
type PeerTrustAuthenticator struct {
	Peers domain.PeerStore
	Skew  time.Duration
	Now   func() time.Time
}

func NewPeerTrustAuthenticator(peers domain.PeerStore, skew time.Duration) *PeerTrustAuthenticator {
	if skew <= 0 {
		skew = DefaultPeerTimestampSkew
	}
	return &PeerTrustAuthenticator{Peers: peers, Skew: skew, Now: time.Now}
}

// Authenticate short-circuits in a fixed order: header presence, timestamp
// freshness, body digest, peer lookup, HMAC. Each failure returns a
// distinct kind so logs can tell them apart; the cheap checks run first so
// replayed or malformed requests never reach the HMAC.
func (a *PeerTrustAuthenticator) Authenticate(ctx context.Context, proof PeerProof, method, path, query string, rawBody []byte) (*domain.PeerConfig, *PeerAuthError) {
	if proof.Domain == "" {
		return nil, &PeerAuthError{Kind: PeerAuthMissingDomain}
	}
	if proof.Timestamp == "" {
		return nil, &PeerAuthError{Kind: PeerAuthMissingTimestamp}
	}
	if proof.Digest == "" {
		return nil, &PeerAuthError{Kind: PeerAuthMissingContentDigest}
	}
	if proof.Signature == "" {
		return nil, &PeerAuthError{Kind: PeerAuthMissingSignature}
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(proof.Timestamp), 10, 64)
	if err != nil {
		return nil, &PeerAuthError{Kind: PeerAuthInvalidTimestamp}
	}
	drift := a.Now().Sub(time.Unix(ts, 0))
	if drift < 0 {
		drift = -drift
	}
	if drift > a.Skew {
		return nil, &PeerAuthError{Kind: PeerAuthInvalidTimestamp}
	}

	// The digest binds the signature to the exact bytes received, not to
	// any re-serialized form of them.
	bodySum := sha256.Sum256(rawBody)
	bodyDigest := hex.EncodeToString(bodySum[:])
	if !strings.EqualFold(strings.TrimSpace(proof.Digest), bodyDigest) {
		return nil, &PeerAuthError{Kind: PeerAuthInvalidContentDigest}
	}

	peer, err := a.Peers.GetByDomain(ctx, proof.Domain)
	if err != nil || peer == nil || !peer.Enabled {
		return nil, &PeerAuthError{Kind: PeerAuthUnknownPeer}
	}

	expected := ComputePeerSignature(peer.SharedSecret, proof.Domain, method, path, query, proof.Timestamp, proof.Digest, proof.KeyID)
	claimed := strings.ToLower(strings.TrimSpace(proof.Signature))
	if !hmac.Equal([]byte(expected), []byte(claimed)) {
		return nil, &PeerAuthError{Kind: PeerAuthInvalidSignature}
	}
	return peer, nil
}

// ComputePeerSignature builds the canonical string both sides sign and
// returns the hex HMAC-SHA256 over it.
func ComputePeerSignature(secret []byte, peerDomain, method, path, query, timestamp, digest, keyID string) string {
	canonical := strings.Join([]string{
		peerDomain,
		strings.ToUpper(method),
		path,
		query,
		strings.TrimSpace(timestamp),
		strings.TrimSpace(digest),
		keyID,
	}, "\n")
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}
