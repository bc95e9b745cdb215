package usecase

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"fedauth/internal/domain"
)

// InboxRateLimiter is the cheap pre-verification gate for deliver-to-inbox
// requests. It must run before any key fetch or cryptographic work.
type InboxRateLimiter struct {
	Limiter    domain.RateLimiter
	Requests   int
	Window     time.Duration
	FailClosed bool
}

// Check applies independent counters per client address and, when one can
// be derived, per claimed sender domain. The domain comes from an
// unauthenticated, attacker-controlled field, so that counter is a coarse
// abuse throttle, not an identity-bound limit.
func (l *InboxRateLimiter) Check(ctx context.Context, clientAddr, claimedDomain string) (domain.RateLimitDecision, error) {
	if l.Limiter == nil || l.Requests <= 0 {
		return domain.RateLimitDecision{Allowed: true}, nil
	}
	decision, err := l.allow(ctx, "inbox:addr:"+clientAddr)
	if err != nil || !decision.Allowed {
		return decision, err
	}
	if claimedDomain != "" {
		return l.allow(ctx, "inbox:domain:"+claimedDomain)
	}
	return decision, nil
}

func (l *InboxRateLimiter) allow(ctx context.Context, key string) (domain.RateLimitDecision, error) {
	decision, err := l.Limiter.Allow(ctx, key, l.Requests, l.Window)
	if err != nil {
		if l.FailClosed {
			return domain.RateLimitDecision{Allowed: false}, err
		}
		log.Printf("inbox rate limiter unavailable, failing open: %v", err)
		return domain.RateLimitDecision{Allowed: true}, nil
	}
	return decision, nil
}

// IsInboxPath recognizes deliver-to-inbox requests by path shape alone; the
// payload is not yet verified and must not be trusted for routing.
func IsInboxPath(path string) bool {
	return path == "/inbox" || strings.HasSuffix(path, "/inbox")
}

// ClaimedSenderDomain extracts the host of the keyId a Signature header
// claims, without verifying anything. Empty when no claim can be parsed.
func ClaimedSenderDomain(rawHeader string) string {
	parsed, err := parseSignatureHeader(rawHeader)
	if err != nil {
		return ""
	}
	keyURL, err := url.Parse(parsed.keyID)
	if err != nil {
		return ""
	}
	return keyURL.Hostname()
}
