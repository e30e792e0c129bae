package model

import "testing"

func TestVerificationStatus_CanTransition_Forward(t *testing.T) {
	tests := []struct {
		from, to VerificationStatus
		want     bool
	}{
		{VerificationPending, VerificationInProgress, true},
		{VerificationPending, VerificationVerified, false},
		{VerificationInProgress, VerificationVerified, true},
		{VerificationInProgress, VerificationPartial, true},
		{VerificationInProgress, VerificationInsufficient, true},
		{VerificationInProgress, VerificationFailed, true},
		{VerificationInProgress, VerificationCertified, true},
		{VerificationFailed, VerificationInProgress, true},
		{VerificationFailed, VerificationVerified, false},
		{VerificationInsufficient, VerificationVerified, true},
		{VerificationInsufficient, VerificationCertified, true},
		{VerificationInsufficient, VerificationInProgress, true},
		{VerificationUnverified, VerificationVerified, true},
		{VerificationPartial, VerificationVerified, true},
		{VerificationVerified, VerificationCertified, true},

		// Downgrades are never legal.
		{VerificationVerified, VerificationInsufficient, false},
		{VerificationVerified, VerificationPending, false},
		{VerificationVerified, VerificationInProgress, false},
		{VerificationCertified, VerificationVerified, false},
		{VerificationCertified, VerificationInsufficient, false},

		// Self-transition is always allowed (idempotent re-apply).
		{VerificationVerified, VerificationVerified, true},
		{VerificationInsufficient, VerificationInsufficient, true},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestVerificationStatus_Publishable(t *testing.T) {
	if !VerificationVerified.Publishable() || !VerificationCertified.Publishable() {
		t.Error("verified and certified must be publishable")
	}
	for _, s := range []VerificationStatus{
		VerificationPending, VerificationInProgress, VerificationPartial,
		VerificationInsufficient, VerificationUnverified, VerificationFailed,
	} {
		if s.Publishable() {
			t.Errorf("%s must not be publishable", s)
		}
	}
}

func TestVerificationStatus_Escalatable(t *testing.T) {
	if !VerificationInsufficient.Escalatable() || !VerificationUnverified.Escalatable() {
		t.Error("insufficient_sources and unverified must be escalatable")
	}
	for _, s := range []VerificationStatus{
		VerificationPending, VerificationInProgress, VerificationVerified,
		VerificationCertified, VerificationPartial, VerificationFailed,
	} {
		if s.Escalatable() {
			t.Errorf("%s must not be escalatable", s)
		}
	}
}

func TestClaim_Corroborated(t *testing.T) {
	single := Claim{Sources: []string{"https://a.example/1"}}
	if single.Corroborated() {
		t.Error("single-source claim must never be corroborated")
	}

	pair := Claim{Sources: []string{"https://a.example/1", "https://b.example/2"}}
	if !pair.Corroborated() {
		t.Error("two-source claim without conflict should be corroborated")
	}

	conflicted := Claim{
		Sources:         []string{"https://a.example/1", "https://b.example/2"},
		ConflictingInfo: "sources disagree on figures: 500 vs 620",
	}
	if conflicted.Corroborated() {
		t.Error("conflicted claim must not be corroborated")
	}
}
