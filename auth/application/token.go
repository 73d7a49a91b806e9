package application

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// AuthConfig holds the token signing secret and lifetime. It is loaded once
// at startup and handed to NewTokenIssuer.
type AuthConfig struct {
	Secret []byte
	TTL    time.Duration
}

func NewAuthConfig() (*AuthConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	ttl := defaultTokenTTL
	if raw := os.Getenv("JWT_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL %q: %w", raw, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("JWT_TTL must be positive, got %s", parsed)
		}
		ttl = parsed
	}

	return &AuthConfig{
		Secret: []byte(secret),
		TTL:    ttl,
	}, nil
}

// tokenClaims carries nothing but the user ID besides the registered claims
type tokenClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(cfg *AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		now:    time.Now,
	}
}

// Issue returns a signed token for userID that expires after the configured TTL
func (ti *TokenIssuer) Issue(userID string) (string, error) {
	now := ti.now()
	claims := tokenClaims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of token and returns the user ID it carries
func (ti *TokenIssuer) Verify(token string) (string, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return ti.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return "", err
	}

	if claims.ID == "" {
		return "", errors.New("token carries no user id")
	}

	return claims.ID, nil
}
