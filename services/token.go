package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/biosecret/go-todo/models"
)

// Claims is the signed payload of a bearer token: the principal id and role.
type Claims struct {
	ID   string      `json:"id"`
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 bearer tokens. A zero ttl issues
// tokens without an expiry.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer signing with secret.
func NewTokenIssuer(secret []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for p.
func (ti *TokenIssuer) Issue(p models.Principal) (string, error) {
	claims := Claims{ID: p.ID, Role: p.Role}
	if ti.ttl > 0 {
		now := ti.now()
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ti.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and returns the principal it carries. Every failure is
// reported as ErrUnauthenticated.
func (ti *TokenIssuer) Parse(raw string) (models.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ti.now),
	}
	if ti.ttl > 0 {
		// Tokens minted before expiry was enabled carry no exp.
		opts = append(opts, jwt.WithExpirationRequired())
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return ti.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return models.Principal{}, models.ErrUnauthenticated
	}
	if claims.ID == "" || !claims.Role.Valid() {
		return models.Principal{}, models.ErrUnauthenticated
	}
	return models.Principal{ID: claims.ID, Role: claims.Role}, nil
}
