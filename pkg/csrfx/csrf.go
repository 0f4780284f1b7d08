// Package csrfx implements the anti-forgery defense: a per-session random
// secret and a client-visible signed token derived from it. The signed token
// is "<secret>.<hmac>"; verification requires both a valid signature and that
// the embedded secret equals the session's current secret, so tokens signed
// under a rotated-away secret are rejected even though their signature is
// internally consistent.
package csrfx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/sharedwealth/memberhub/pkg/cryptox"
	"github.com/sharedwealth/memberhub/pkg/sessionx"
)

const (
	// HeaderName is the preferred token transport.
	HeaderName = "X-CSRF-Token"
	// FieldName is the form/query fallback field.
	FieldName = "_csrf"
)

// Rejection reason codes. Stable, machine-distinguishable, non-sensitive.
const (
	ReasonTokenMissing     = "token_missing"
	ReasonMalformedToken   = "malformed_token"
	ReasonInvalidSignature = "invalid_signature"
	ReasonSecretMismatch   = "secret_mismatch"
)

// ErrNoKey reports a missing HMAC key at construction. Fatal configuration
// error: the process must not serve traffic without it.
var ErrNoKey = errors.New("csrfx: signing key is not configured")

// Rejection is the typed outcome of a failed token check.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string { return "csrfx: rejected: " + r.Reason }

// Guard signs and validates anti-forgery tokens with a server-held key.
type Guard struct {
	key    []byte
	exempt map[string]struct{}
}

// NewGuard builds a Guard. exemptPaths are matched exactly against the
// request path; credential endpoints belong here since a client cannot hold a
// token before its first session round-trip completes.
func NewGuard(key string, exemptPaths ...string) (*Guard, error) {
	if key == "" {
		return nil, ErrNoKey
	}
	exempt := make(map[string]struct{}, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = struct{}{}
	}
	return &Guard{key: []byte(key), exempt: exempt}, nil
}

// EnsureSecret returns the session's anti-forgery secret, generating and
// storing one on first touch. Idempotent; concurrent first touches converge
// on a single secret.
func (g *Guard) EnsureSecret(sess *sessionx.Session) string {
	if s := sess.CSRFSecret(); s != "" {
		return s
	}
	return sess.CompareAndSetCSRFSecret(cryptox.MustGenerateToken(cryptox.TokenSize256))
}

// Rotate replaces the session's secret, invalidating every previously issued
// signed token for that session.
func (g *Guard) Rotate(sess *sessionx.Session) string {
	secret := cryptox.MustGenerateToken(cryptox.TokenSize256)
	sess.SetCSRFSecret(secret)
	return secret
}

// SignedToken returns "<secret>.<hex hmac-sha256>". Deterministic for a given
// secret and key; recomputed at verification time rather than stored.
func (g *Guard) SignedToken(secret string) string {
	return secret + "." + g.sign(secret)
}

func (g *Guard) sign(secret string) string {
	mac := hmac.New(sha256.New, g.key)
	mac.Write([]byte(secret))
	return hex.EncodeToString(mac.Sum(nil))
}

// Check validates a client-supplied token against the session's current
// secret. Both checks are required: the HMAC proves the token was minted by
// this server, the secret comparison proves it was minted for the *current*
// session secret and not one rotated away.
func (g *Guard) Check(token, sessionSecret string) error {
	if token == "" {
		return &Rejection{Reason: ReasonTokenMissing}
	}

	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return &Rejection{Reason: ReasonMalformedToken}
	}

	expected := g.sign(parts[0])
	if !hmac.Equal([]byte(parts[1]), []byte(expected)) {
		return &Rejection{Reason: ReasonInvalidSignature}
	}

	// Signature already proved possession; plain equality suffices here.
	if parts[0] != sessionSecret {
		return &Rejection{Reason: ReasonSecretMismatch}
	}

	return nil
}
