package auth

import (
	"testing"
	"time"
)

func TestIssuePairRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute, time.Hour)

	pair, err := m.IssuePair(42)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	userID, err := m.VerifyAccess(pair.Access)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}

	userID, err = m.VerifyRefresh(pair.Refresh)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestTokenUseIsNotInterchangeable(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute, time.Hour)

	pair, err := m.IssuePair(7)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	if _, err := m.VerifyAccess(pair.Refresh); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
	if _, err := m.VerifyRefresh(pair.Access); err == nil {
		t.Fatal("access token accepted as refresh token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute, time.Hour)

	token, err := m.IssueAccess(1)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := m.VerifyAccess(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	m := NewTokenManager("secret-a", time.Minute, time.Hour)
	other := NewTokenManager("secret-b", time.Minute, time.Hour)

	token, err := m.IssueAccess(1)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := other.VerifyAccess(token); err == nil {
		t.Fatal("token signed with different secret accepted")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword("hunter2", hash) {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword("hunter3", hash) {
		t.Fatal("wrong password accepted")
	}
}
