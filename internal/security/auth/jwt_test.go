package auth

import (
	"errors"
	"testing"
	"time"
)

func TestUserTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "workasana", time.Hour)

	token, err := tm.IssueUserToken("u-1", "alice1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := tm.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Role != RoleUser {
		t.Fatalf("expected user role, got %q", claims.Role)
	}
	if claims.UserID != "u-1" || claims.Username != "alice1" {
		t.Fatalf("identity not preserved: id=%q username=%q", claims.UserID, claims.Username)
	}
	if claims.IsAdmin() {
		t.Fatalf("user token reports admin")
	}
}

func TestAdminTokenCarriesNoIdentity(t *testing.T) {
	tm := NewTokenManager("secret", "", 0)

	token, err := tm.IssueAdminToken()
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := tm.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !claims.IsAdmin() {
		t.Fatalf("expected admin role, got %q", claims.Role)
	}
	if claims.UserID != "" || claims.Username != "" {
		t.Fatalf("admin token must not embed identity: %+v", claims)
	}
}

func TestIssueUserTokenRequiresIdentity(t *testing.T) {
	tm := NewTokenManager("secret", "workasana", time.Hour)

	if _, err := tm.IssueUserToken("", "alice1"); err == nil {
		t.Fatalf("expected error for empty user id")
	}
	if _, err := tm.IssueUserToken("u-1", ""); err == nil {
		t.Fatalf("expected error for empty username")
	}
}

func TestVerifyTokenFailures(t *testing.T) {
	tm := NewTokenManager("secret", "workasana", time.Hour)

	// Garbled token
	if _, err := tm.VerifyToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	// Wrong secret
	other := NewTokenManager("different", "workasana", time.Hour)
	token, err := other.IssueAdminToken()
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := tm.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	// Expired token; the constructor clamps non-positive TTLs so build directly
	expiring := &TokenManager{secret: []byte("secret"), issuer: "workasana", ttl: -time.Minute}
	expired, err := expiring.IssueUserToken("u-1", "alice1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := tm.VerifyToken(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestExtractToken(t *testing.T) {
	token, err := ExtractToken("Bearer abc123")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if token != "abc123" {
		t.Fatalf("expected abc123, got %q", token)
	}

	for _, header := range []string{"", "abc123", "Basic abc123", "Bearer a b"} {
		if _, err := ExtractToken(header); err == nil {
			t.Fatalf("expected error for header %q", header)
		}
	}
}
