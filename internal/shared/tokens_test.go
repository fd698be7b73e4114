package shared

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens", "spotify_token.json")

	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).UTC(),
	}

	if err := SaveToken(path, token); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}

	loaded, err := LoadToken(path)
	if err != nil {
		t.Fatalf("LoadToken failed: %v", err)
	}

	if loaded.AccessToken != token.AccessToken {
		t.Errorf("access token = %q, want %q", loaded.AccessToken, token.AccessToken)
	}
	if loaded.RefreshToken != token.RefreshToken {
		t.Errorf("refresh token = %q, want %q", loaded.RefreshToken, token.RefreshToken)
	}
	if !loaded.Expiry.Equal(token.Expiry) {
		t.Errorf("expiry = %v, want %v", loaded.Expiry, token.Expiry)
	}
}

func TestLoadTokenMissing(t *testing.T) {
	if _, err := LoadToken(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing token file")
	}
}
