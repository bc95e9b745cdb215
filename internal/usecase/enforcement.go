package usecase

import (
	"encoding/json"

	"fedauth/internal/domain"
)

// Decide turns a verification outcome into an enforcement verdict. Branch
// order is a contract: the Delete amnesty is evaluated before the strict
// rejection, and applies to no other activity kind.
func Decide(result domain.VerifyResult, kind domain.ActivityKind, strict bool) domain.Decision {
	if result.Valid {
		return domain.DecisionAccept
	}
	// Remote servers retry rejected Deletes indefinitely. Accepting and
	// ignoring a Delete for an entity we cannot verify is harmless, and it
	// stops the retry storm.
	if kind == domain.ActivityDelete {
		return domain.DecisionAcceptAmnesty
	}
	if strict {
		return domain.DecisionReject
	}
	return domain.DecisionAcceptUnverified
}

// ActivityKindFromBody peeks at the payload's type field. This is the only
// structural fact enforcement reads from the (still unverified) payload.
func ActivityKindFromBody(body []byte) domain.ActivityKind {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return domain.ActivityOther
	}
	if envelope.Type == string(domain.ActivityDelete) {
		return domain.ActivityDelete
	}
	return domain.ActivityOther
}
