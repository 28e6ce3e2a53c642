package auth

import (
	"testing"
	"time"
)

func newTestJWTer() *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "vsm-test", TTL: time.Hour}
}

func TestIssueAndParse(t *testing.T) {
	j := newTestJWTer()
	tok, err := j.Issue("user-1", "EDITOR")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if tok == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UID != "user-1" {
		t.Errorf("UID: got %q, want %q", claims.UID, "user-1")
	}
	if claims.Role != "EDITOR" {
		t.Errorf("Role: got %q, want %q", claims.Role, "EDITOR")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	j := newTestJWTer()
	tok, _ := j.Issue("user-1", "USER")

	other := &JWTer{Secret: []byte("other-secret"), Issuer: "vsm-test", TTL: time.Hour}
	if _, err := other.Parse(tok); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	j := newTestJWTer()
	tok, _ := j.Issue("user-1", "USER")

	other := &JWTer{Secret: []byte("test-secret"), Issuer: "someone-else", TTL: time.Hour}
	if _, err := other.Parse(tok); err == nil {
		t.Error("expected error for token with a different issuer")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	// 过期超出 60s leeway
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "vsm-test", TTL: -2 * time.Minute}
	tok, _ := j.Issue("user-1", "USER")

	fresh := newTestJWTer()
	if _, err := fresh.Parse(tok); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	j := newTestJWTer()
	if _, err := j.Parse("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}
