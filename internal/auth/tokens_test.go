package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m, err := NewManager("secret", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	tok, err := m.NewAccessToken("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	uid, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid != "u1" {
		t.Fatalf("uid=%q want=u1", uid)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	m, _ := NewManager("secret", time.Hour)
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := m.Parse(tok); err == nil {
			t.Fatalf("parse accepted %q", tok)
		}
	}
}

func TestParseRejectsWrongKey(t *testing.T) {
	a, _ := NewManager("key-a", time.Hour)
	b, _ := NewManager("key-b", time.Hour)
	tok, err := a.NewAccessToken("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.Parse(tok); err == nil {
		t.Fatalf("token verified under wrong key")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := &Manager{signingKey: []byte("secret"), accessTTL: -time.Minute}
	tok, err := m.NewAccessToken("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Parse(tok); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	m, _ := NewManager("secret", time.Hour)
	a, err := m.NewRefreshToken()
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	b, err := m.NewRefreshToken()
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if a == b {
		t.Fatalf("identical refresh tokens")
	}
	if len(a) != 64 {
		t.Fatalf("len=%d want=64", len(a))
	}
}

func TestEmptySigningKeyRejected(t *testing.T) {
	if _, err := NewManager("", time.Hour); err == nil {
		t.Fatalf("empty key accepted")
	}
}
