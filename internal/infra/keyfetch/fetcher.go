package keyfetch

import (
	"context"
	"crypto"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fedauth/internal/domain"
)

const (
	defaultFetchTimeout  = 10 * time.Second
	defaultRetryAttempts = 3
	defaultRetryBase     = 200 * time.Millisecond
	defaultRetryMax      = 2 * time.Second

	acceptActivityJSON = `application/activity+json, application/ld+json; profile="https://www.w3.org/ns/activitystreams"`
)

// Fetcher dereferences a keyId URL to the remote signer's published actor
// document and extracts the verifying key.
type Fetcher struct {
	httpClient    *http.Client
	fetchTimeout  time.Duration
	retryAttempts int
	retryBase     time.Duration
	retryMax      time.Duration
	now           func() time.Time
}

type Option func(*Fetcher)

func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) { f.httpClient = client }
}

func WithFetchTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) { f.fetchTimeout = timeout }
}

func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient:    http.DefaultClient,
		fetchTimeout:  defaultFetchTimeout,
		retryAttempts: defaultRetryAttempts,
		retryBase:     defaultRetryBase,
		retryMax:      defaultRetryMax,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// actorDocument is the subset of a published actor document this fetcher
// reads. The key may also be served as a standalone document.
type actorDocument struct {
	ID        string        `json:"id"`
	PublicKey *publicKeyDoc `json:"publicKey"`

	// Standalone key document fields.
	Owner        string `json:"owner"`
	PublicKeyPem string `json:"publicKeyPem"`
}

type publicKeyDoc struct {
	ID           string `json:"id"`
	Owner        string `json:"owner"`
	PublicKeyPem string `json:"publicKeyPem"`
}

// Fetch dereferences keyID and returns a fully-populated record. The
// returned record always carries a remote owner; local keys never reach
// this path.
func (f *Fetcher) Fetch(ctx context.Context, keyID string) (domain.SigningKeyRecord, error) {
	doc, err := f.fetchWithRetry(ctx, keyID)
	if err != nil {
		return domain.SigningKeyRecord{}, fmt.Errorf("%w: %v", domain.ErrKeyFetchFailed, err)
	}
	record, err := recordFromDocument(keyID, doc)
	if err != nil {
		return domain.SigningKeyRecord{}, fmt.Errorf("%w: %v", domain.ErrInvalidKeyMaterial, err)
	}
	record.FetchedAt = f.now()
	return record, nil
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, keyID string) (*actorDocument, error) {
	delay := f.retryBase
	var lastErr error
	for attempt := 0; attempt < f.retryAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepWithContext(ctx, delay); err != nil {
				return nil, err
			}
			delay *= 2
			if delay > f.retryMax {
				delay = f.retryMax
			}
		}
		doc, err := f.fetchOnce(ctx, keyID)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, keyID string) (*actorDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, keyID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptActivityJSON)
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("actor fetch returned status %d", resp.StatusCode)
	}
	var doc actorDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func recordFromDocument(keyID string, doc *actorDocument) (domain.SigningKeyRecord, error) {
	pemText := doc.PublicKeyPem
	owner := doc.Owner
	docKeyID := doc.ID
	if doc.PublicKey != nil {
		pemText = doc.PublicKey.PublicKeyPem
		owner = doc.PublicKey.Owner
		docKeyID = doc.PublicKey.ID
		if owner == "" {
			owner = doc.ID
		}
	}
	if pemText == "" {
		return domain.SigningKeyRecord{}, errors.New("document has no publicKeyPem")
	}
	if owner == "" {
		return domain.SigningKeyRecord{}, errors.New("document has no key owner")
	}
	// A document advertising a different key id than the one requested
	// must not be cached under the requested id.
	if docKeyID != "" && !sameKeyID(docKeyID, keyID) {
		return domain.SigningKeyRecord{}, fmt.Errorf("document key id %q does not match %q", docKeyID, keyID)
	}
	pub, err := parsePublicKeyPEM(pemText)
	if err != nil {
		return domain.SigningKeyRecord{}, err
	}
	ownerURL, err := url.Parse(owner)
	if err != nil || ownerURL.Host == "" {
		return domain.SigningKeyRecord{}, fmt.Errorf("invalid key owner %q", owner)
	}
	return domain.SigningKeyRecord{
		KeyID:     keyID,
		PublicKey: pub,
		PEM:       []byte(pemText),
		Owner: domain.RemoteActorRef{
			ActorID: owner,
			Domain:  ownerURL.Hostname(),
		},
	}, nil
}

func sameKeyID(a, b string) bool {
	trim := func(s string) string {
		if i := strings.IndexByte(s, '#'); i >= 0 {
			return s[:i]
		}
		return s
	}
	return a == b || trim(a) == trim(b)
}

func parsePublicKeyPEM(pemText string) (crypto.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, errors.New("no PEM block in publicKeyPem")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		// Some servers still publish PKCS#1 RSA keys.
		if rsaPub, rsaErr := x509.ParsePKCS1PublicKey(block.Bytes); rsaErr == nil {
			return rsaPub, nil
		}
		return nil, err
	}
	switch pub.(type) {
	case *rsa.PublicKey, ed25519.PublicKey:
		return pub, nil
	default:
		return nil, fmt.Errorf("unsupported public key type %T", pub)
	}
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
