package usecase

import (
	"context"
	"crypto"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fedauth/internal/domain"
)

// SignedRequest is the subset of an inbound request the verifier needs to
// reconstruct the canonical signing string.
type SignedRequest struct {
	Method  string
	Path    string
	Query   string
	Host    string
	Headers http.Header
}

// signatureHeader is the parsed form of a draft-cavage Signature header.
type signatureHeader struct {
	keyID     string
	headers   []string
	signature []byte
}

// SignatureVerifier verifies HTTP request signatures from arbitrary remote
// servers, recovering from key rotation with one refresh-and-retry cycle.
type SignatureVerifier struct {
	Resolver *KeyResolver
}

func NewSignatureVerifier(resolver *KeyResolver) *SignatureVerifier {
	return &SignatureVerifier{Resolver: resolver}
}

func (v *SignatureVerifier) Verify(ctx context.Context, req SignedRequest, rawHeader string) domain.VerifyResult {
	parsed, err := parseSignatureHeader(rawHeader)
	if err != nil {
		return failure(&domain.VerifyError{Kind: domain.VerifyErrInvalidHeaderFormat, Err: err})
	}

	signingString, missing := buildSigningString(req, parsed.headers)
	if len(missing) > 0 {
		return failure(&domain.VerifyError{Kind: domain.VerifyErrMissingHeaders, Missing: missing})
	}

	record, err := v.Resolver.Resolve(ctx, parsed.keyID)
	if err != nil {
		return failure(&domain.VerifyError{Kind: domain.VerifyErrKeyFetchFailed, Err: err})
	}

	if verifyBytes(record.PublicKey, signingString, parsed.signature) {
		return domain.VerifyResult{Valid: true, Signer: record.Owner}
	}

	// The remote signer may have rotated its key since we cached it. One
	// guarded refresh; a refused or failed refresh ends the attempt.
	record, err = v.Resolver.Refresh(ctx, parsed.keyID)
	if err != nil {
		return failure(&domain.VerifyError{Kind: domain.VerifyErrInvalidSignature, Err: err})
	}
	if verifyBytes(record.PublicKey, signingString, parsed.signature) {
		return domain.VerifyResult{Valid: true, Signer: record.Owner}
	}
	return failure(&domain.VerifyError{Kind: domain.VerifyErrInvalidSignature})
}

func failure(err *domain.VerifyError) domain.VerifyResult {
	return domain.VerifyResult{Valid: false, Err: err}
}

// parseSignatureHeader splits a `k1="v1",k2="v2"` header. keyId, headers
// and signature are all required; anything else is a parse error, distinct
// from a verification failure.
func parseSignatureHeader(raw string) (*signatureHeader, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty signature header")
	}
	params := make(map[string]string)
	for _, part := range splitQuoted(raw) {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, fmt.Errorf("malformed signature parameter %q", part)
		}
		params[key] = strings.Trim(value, `"`)
	}
	keyID := params["keyId"]
	headerList := params["headers"]
	signatureB64 := params["signature"]
	if keyID == "" || headerList == "" || signatureB64 == "" {
		return nil, errors.New("signature header missing keyId, headers or signature")
	}
	signature, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return nil, fmt.Errorf("decode signature: %w", err)
	}
	names := strings.Fields(strings.ToLower(headerList))
	if len(names) == 0 {
		return nil, errors.New("signature header declares no covered headers")
	}
	return &signatureHeader{
		keyID:     keyID,
		headers:   names,
		signature: signature,
	}, nil
}

// splitQuoted splits on commas that are not inside double quotes.
func splitQuoted(raw string) []string {
	var parts []string
	var start int
	inQuotes := false
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				parts = append(parts, raw[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, raw[start:])
	return parts
}

// buildSigningString joins the covered headers into "name: value" lines in
// the exact declared order. The order is part of the signature; it must
// never be re-sorted.
func buildSigningString(req SignedRequest, names []string) (string, []string) {
	lines := make([]string, 0, len(names))
	var missing []string
	for _, name := range names {
		switch name {
		case "(request-target)":
			target := strings.ToLower(req.Method) + " " + req.Path
			if req.Query != "" {
				target += "?" + req.Query
			}
			lines = append(lines, name+": "+target)
		case "(created)", "(expires)":
			// Senders may declare these without sending a matching
			// header; they render as empty rather than failing.
			lines = append(lines, name+": "+headerValue(req.Headers, name))
		case "host":
			value := headerValue(req.Headers, "host")
			if value == "" {
				value = req.Host
			}
			lines = append(lines, name+": "+value)
		default:
			values, ok := req.Headers[http.CanonicalHeaderKey(name)]
			if !ok || len(values) == 0 {
				missing = append(missing, name)
				continue
			}
			lines = append(lines, name+": "+strings.Join(values, ", "))
		}
	}
	if len(missing) > 0 {
		return "", missing
	}
	return strings.Join(lines, "\n"), nil
}

func headerValue(headers http.Header, name string) string {
	values := headers[http.CanonicalHeaderKey(name)]
	if len(values) == 0 {
		return ""
	}
	return strings.Join(values, ", ")
}

func verifyBytes(pub crypto.PublicKey, signingString string, signature []byte) bool {
	switch key := pub.(type) {
	case *rsa.PublicKey:
		digest := sha256.Sum256([]byte(signingString))
		return rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], signature) == nil
	case ed25519.PublicKey:
		return ed25519.Verify(key, []byte(signingString), signature)
	default:
		return false
	}
}
