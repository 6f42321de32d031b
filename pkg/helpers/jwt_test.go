package helpers

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)

	access, aexp, err := m.GenerateAccessToken("user-1", "sid-1", []string{"admin", "user"})
	if err != nil {
		t.Fatalf("generate access: %v", err)
	}
	if time.Until(aexp) > time.Minute {
		t.Fatalf("unexpected access expiry %v", aexp)
	}
	claims, err := m.ParseAccessToken(access)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != "user-1" || claims.SessionID != "sid-1" || !claims.HasRole("admin") {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	refresh, _, err := m.GenerateRefreshToken("user-1", "sid-1")
	if err != nil {
		t.Fatalf("generate refresh: %v", err)
	}
	if _, err := m.ParseAccessToken(refresh); err == nil {
		t.Fatalf("refresh token must not validate as access token")
	}
	rc, err := m.ParseRefreshToken(refresh)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if len(rc.Roles) != 0 {
		t.Fatalf("refresh token should not carry roles")
	}
}

func TestJWTExpired(t *testing.T) {
	t.Parallel()

	m := &JWTManager{AccessSecret: []byte("a"), RefreshSecret: []byte("r"), AccessTTL: -time.Minute}
	tok, _, err := m.GenerateAccessToken("u", "s", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ParseAccessToken(tok); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}
