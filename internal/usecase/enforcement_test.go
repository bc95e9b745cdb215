package usecase

import (
	"testing"

	"fedauth/internal/domain"
)

func TestDecideAcceptsValidSignature(t *testing.T) {
	result := domain.VerifyResult{Valid: true, Signer: testOwner}
	for _, strict := range []bool{true, false} {
		if d := Decide(result, domain.ActivityOther, strict); d != domain.DecisionAccept {
			t.Fatalf("strict=%v: expected accept, got %s", strict, d)
		}
	}
}

func TestDecideDeleteAmnestyInBothModes(t *testing.T) {
	result := domain.VerifyResult{
		Valid: false,
		Err:   &domain.VerifyError{Kind: domain.VerifyErrKeyFetchFailed},
	}
	for _, strict := range []bool{true, false} {
		if d := Decide(result, domain.ActivityDelete, strict); d != domain.DecisionAcceptAmnesty {
			t.Fatalf("strict=%v: expected amnesty, got %s", strict, d)
		}
	}
}

func TestDecideAmnestyScopedToDeleteOnly(t *testing.T) {
	result := domain.VerifyResult{
		Valid: false,
		Err:   &domain.VerifyError{Kind: domain.VerifyErrInvalidSignature},
	}
	if d := Decide(result, domain.ActivityOther, true); d != domain.DecisionReject {
		t.Fatalf("expected strict reject, got %s", d)
	}
	if d := Decide(result, domain.ActivityOther, false); d != domain.DecisionAcceptUnverified {
		t.Fatalf("expected permissive unverified accept, got %s", d)
	}
}

func TestActivityKindFromBody(t *testing.T) {
	cases := []struct {
		body string
		want domain.ActivityKind
	}{
		{`{"type":"Delete","id":"https://remote.example/act/1"}`, domain.ActivityDelete},
		{`{"type":"Create"}`, domain.ActivityOther},
		{`{"type":"delete"}`, domain.ActivityOther},
		{`{}`, domain.ActivityOther},
		{`not json`, domain.ActivityOther},
		{``, domain.ActivityOther},
	}
	for _, tc := range cases {
		if got := ActivityKindFromBody([]byte(tc.body)); got != tc.want {
			t.Fatalf("body %q: expected %s, got %s", tc.body, tc.want, got)
		}
	}
}
