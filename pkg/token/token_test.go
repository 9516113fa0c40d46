package token

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateAndValidateInvitationToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	signed, err := m.GenerateInvitationToken("sip:conf-1@conf.example.org", "sip:alice@example.org", "standup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := m.ValidateInvitationToken(signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.ConferenceAddress != "sip:conf-1@conf.example.org" {
		t.Fatalf("unexpected conference address %q", claims.ConferenceAddress)
	}
	if claims.Participant != "sip:alice@example.org" {
		t.Fatalf("unexpected participant %q", claims.Participant)
	}
	if claims.Subject != "standup" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.Issuer != "conference-scheduler" {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestValidateInvitationToken_WrongSecret(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	signed, err := m.GenerateInvitationToken("sip:conf-1@conf.example.org", "sip:alice@example.org", "standup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := NewManager("different-secret", time.Hour)
	if _, err := other.ValidateInvitationToken(signed); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestValidateInvitationToken_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)
	signed, err := m.GenerateInvitationToken("sip:conf-1@conf.example.org", "sip:alice@example.org", "standup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := m.ValidateInvitationToken(signed); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected an expiry error, got %v", err)
	}
}

func TestValidateInvitationToken_Garbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	if _, err := m.ValidateInvitationToken("not.a.token"); err == nil {
		t.Fatal("expected parse failure on garbage input")
	}
}
