package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer issues and verifies HS256 session tokens with a single process-wide
// secret. Construction fails without a secret so the process refuses to serve
// traffic rather than minting unverifiable tokens.
type Signer struct {
	secret   []byte
	issuer   string
	audience string
}

func NewSigner(secret, issuer, audience string) (*Signer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Signer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}, nil
}

// Issue signs a session token for the given identity with the given lifetime.
func (s *Signer) Issue(subject, email, role string, ttl time.Duration) (string, error) {
	claims := NewSessionClaims(subject, email, role, ttl, s.issuer, s.audience, time.Now().UTC())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry, issuer and audience. It returns ErrExpired
// for tokens that validated structurally but are outside their validity
// window, and ErrMalformed for everything else. Any tampering with the claim
// set invalidates the signature and lands in ErrMalformed.
func (s *Signer) Verify(tokenString string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
			return Claims{}, fmt.Errorf("%w: %w", ErrExpired, err)
		default:
			return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}
	return claims, nil
}
