package auth

import (
	"strings"
	"testing"
	"time"
)

func TestSpectatorTokenRoundTrip(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)

	token, err := ti.GenerateSpectatorToken("game-1", "conn-1")
	if err != nil {
		t.Fatalf("GenerateSpectatorToken() error = %v", err)
	}

	claims, err := ti.ValidateSpectatorToken(token)
	if err != nil {
		t.Fatalf("ValidateSpectatorToken() error = %v", err)
	}
	if claims.GameID != "game-1" || claims.SpectatorID != "conn-1" {
		t.Errorf("claims = %+v", claims)
	}
	if ti.TTL() != time.Hour {
		t.Errorf("TTL() = %v", ti.TTL())
	}
}

func TestValidateSpectatorTokenRejects(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	token, _ := ti.GenerateSpectatorToken("game-1", "conn-1")
	other, _ := ti.GenerateSpectatorToken("game-2", "conn-1")
	// game-1 claims under game-2's signature
	parts, otherParts := strings.Split(token, "."), strings.Split(other, ".")
	tampered := parts[0] + "." + parts[1] + "." + otherParts[2]

	expired := NewTokenIssuer("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _ := expired.GenerateSpectatorToken("game-1", "conn-1")

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", mustSign(t, NewTokenIssuer("other", time.Hour))},
		{"tampered", tampered},
		{"expired", old},
		{"garbage", "not-a-token"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ti.ValidateSpectatorToken(tt.token); err == nil {
				t.Error("ValidateSpectatorToken() succeeded, want error")
			}
		})
	}
}

func mustSign(t *testing.T, ti *TokenIssuer) string {
	t.Helper()
	token, err := ti.GenerateSpectatorToken("game-1", "conn-1")
	if err != nil {
		t.Fatalf("GenerateSpectatorToken() error = %v", err)
	}
	return token
}
