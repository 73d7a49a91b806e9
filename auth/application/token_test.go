package application

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(&AuthConfig{Secret: []byte("secret"), TTL: time.Hour})

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != "user-1" {
		t.Errorf("Verify() = %q, want %q", userID, "user-1")
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer(&AuthConfig{Secret: []byte("secret"), TTL: time.Hour})
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	issuer.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := issuer.Verify(token); err == nil {
		t.Error("Verify() accepted an expired token")
	}
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	issuer := NewTokenIssuer(&AuthConfig{Secret: []byte("secret"), TTL: time.Hour})

	claims := tokenClaims{
		ID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign unsigned token: %v", err)
	}

	if _, err := issuer.Verify(token); err == nil {
		t.Error("Verify() accepted an unsigned token")
	}
}

func TestTokenIssuer_PayloadCarriesOnlyUserID(t *testing.T) {
	issuer := NewTokenIssuer(&AuthConfig{Secret: []byte("secret"), TTL: time.Hour})

	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("ParseUnverified() error = %v", err)
	}

	for key := range claims {
		if key != "id" && key != "iat" && key != "exp" {
			t.Errorf("unexpected claim %q", key)
		}
	}
	if claims["id"] != "user-1" {
		t.Errorf("id claim = %v, want %q", claims["id"], "user-1")
	}
}

func TestNewAuthConfig(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		ttl     string
		wantTTL time.Duration
		wantErr string
	}{
		{name: "defaults", secret: "s", wantTTL: 7 * 24 * time.Hour},
		{name: "custom ttl", secret: "s", ttl: "30m", wantTTL: 30 * time.Minute},
		{name: "missing secret", wantErr: "JWT_SECRET"},
		{name: "bad ttl", secret: "s", ttl: "soon", wantErr: "JWT_TTL"},
		{name: "negative ttl", secret: "s", ttl: "-1h", wantErr: "JWT_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_TTL", tt.ttl)

			cfg, err := NewAuthConfig()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("NewAuthConfig() error = %v, want mention of %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewAuthConfig() error = %v", err)
			}
			if cfg.TTL != tt.wantTTL {
				t.Errorf("TTL = %v, want %v", cfg.TTL, tt.wantTTL)
			}
		})
	}
}
