// Package token issues and verifies the signed identity tokens used by the
// JSON API. Tokens are self-contained: there is no server-side session or
// revocation record, so verification never touches the store.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/chathub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSecret is returned by New when no signing secret is configured.
	// It is a startup condition, never a per-request error.
	ErrNoSecret = errors.New("token: signing secret is not configured")

	// ErrInvalidToken covers malformed tokens, bad signatures and missing claims.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when the token verified but its expiry has passed.
	ErrExpiredToken = errors.New("token has expired")

	errBadTTL = errors.New("token: ttl must be positive")
)

// Claims is the JWT payload. Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Config is the process-wide token configuration.
type Config struct {
	Secret string
	TTL    time.Duration

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Service signs and verifies tokens with an HMAC secret.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// New builds a Service. An empty secret is rejected.
func New(cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, ErrNoSecret
	}
	if cfg.TTL <= 0 {
		return nil, errBadTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    now,
		// Expiry is checked by Verify itself so the boundary is exact
		// and the expired/invalid distinction survives.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// TTL returns the configured lifetime of issued tokens.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs a token for id using the configured TTL.
func (s *Service) Issue(id models.Identity) (string, error) {
	return s.IssueTTL(id, s.ttl)
}

// IssueTTL signs a token for id that expires ttl after issuance.
// The output depends only on the identity, the clock and the secret.
func (s *Service) IssueTTL(id models.Identity, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errBadTTL
	}
	issuedAt := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		Email:    id.Email,
		FullName: id.DisplayName,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of tokenString and returns the
// identity it carries. A token is expired from the instant now >= exp.
func (s *Service) Verify(tokenString string) (models.Identity, error) {
	claims := &Claims{}
	tok, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return models.Identity{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return models.Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if claims.ExpiresAt == nil {
		return models.Identity{}, fmt.Errorf("%w: missing expiry", ErrInvalidToken)
	}
	if !s.now().Before(claims.ExpiresAt.Time) {
		return models.Identity{}, ErrExpiredToken
	}

	return models.Identity{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.FullName,
	}, nil
}
