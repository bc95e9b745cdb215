package domain

import (
	"fmt"
	"strings"
)

// VerifyErrorKind classifies why an HTTP signature failed to verify. The
// kind is logged internally; callers must not echo it to remote servers.
type VerifyErrorKind string

const (
	VerifyErrInvalidHeaderFormat VerifyErrorKind = "invalid_header_format"
	VerifyErrMissingHeaders      VerifyErrorKind = "missing_headers"
	VerifyErrKeyFetchFailed      VerifyErrorKind = "key_fetch_failed"
	VerifyErrInvalidSignature    VerifyErrorKind = "invalid_signature"
)

type VerifyError struct {
	Kind    VerifyErrorKind
	Missing []string
	Err     error
}

func (e *VerifyError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *VerifyError) Unwrap() error { return e.Err }

// VerifyResult is the outcome of signature verification. Signer is set only
// when Valid is true.
type VerifyResult struct {
	Valid  bool
	Signer KeyOwner
	Err    *VerifyError
}

// ActivityKind is the minimal structural classification of a federation
// payload. Only Delete matters to enforcement; everything else is Other.
type ActivityKind string

const (
	ActivityDelete ActivityKind = "Delete"
	ActivityOther  ActivityKind = "Other"
)

// Decision is the enforcement verdict for an inbound federation request.
type Decision string

const (
	DecisionAccept Decision = "accept"
	// DecisionAcceptAmnesty accepts an unverifiable Delete so the sender
	// stops retrying; the payload must be ignored downstream.
	DecisionAcceptAmnesty Decision = "accept_amnesty"
	// DecisionAcceptUnverified accepts in permissive mode with no verified
	// signer; downstream logic must treat the sender as untrusted.
	DecisionAcceptUnverified Decision = "accept_unverified"
	DecisionReject           Decision = "reject"
)
