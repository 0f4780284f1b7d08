package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret-0123456789abcdef"
	testIssuer   = "memberhub"
	testAudience = "memberhub-web"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(testSecret, testIssuer, testAudience)
	require.NoError(t, err)
	return s
}

func TestNewSigner_RequiresSecret(t *testing.T) {
	_, err := NewSigner("", testIssuer, testAudience)
	require.ErrorIs(t, err, ErrNoSecret)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	s := newTestSigner(t)

	token, err := s.Issue("01USER", "a@b.com", "admin", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01USER", claims.Subject)
	require.Equal(t, "a@b.com", claims.Email)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, testIssuer, claims.Issuer)
	require.Contains(t, claims.Audience, testAudience)
	require.NotEmpty(t, claims.ID, "jti should be set")
	require.WithinDuration(t,
		time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerify_Expired(t *testing.T) {
	s := newTestSigner(t)

	token, err := s.Issue("01USER", "a@b.com", "user", -time.Minute)
	require.NoError(t, err)

	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
	require.NotErrorIs(t, err, ErrMalformed)
}

func TestVerify_Tampered(t *testing.T) {
	s := newTestSigner(t)

	token, err := s.Issue("01USER", "a@b.com", "user", time.Hour)
	require.NoError(t, err)

	// Flip a character in the payload segment; the signature no longer binds.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[10] == 'A' {
		payload[10] = 'B'
	} else {
		payload[10] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = s.Verify(tampered)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestVerify_WrongKey(t *testing.T) {
	s := newTestSigner(t)
	other, err := NewSigner("a-completely-different-secret", testIssuer, testAudience)
	require.NoError(t, err)

	token, err := other.Issue("01USER", "a@b.com", "user", time.Hour)
	require.NoError(t, err)

	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestVerify_IssuerAndAudience(t *testing.T) {
	s := newTestSigner(t)

	tests := []struct {
		name     string
		issuer   string
		audience string
	}{
		{"wrong issuer", "someone-else", testAudience},
		{"wrong audience", testIssuer, "other-app"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other, err := NewSigner(testSecret, tt.issuer, tt.audience)
			require.NoError(t, err)

			token, err := other.Issue("01USER", "a@b.com", "user", time.Hour)
			require.NoError(t, err)

			_, err = s.Verify(token)
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestVerify_Garbage(t *testing.T) {
	s := newTestSigner(t)

	for _, bad := range []string{"", "x", "a.b", "a.b.c", "....."} {
		_, err := s.Verify(bad)
		require.ErrorIs(t, err, ErrMalformed, "token: %q", bad)
	}
}
