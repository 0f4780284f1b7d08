package csrfx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sharedwealth/memberhub/pkg/httpx"
	"github.com/sharedwealth/memberhub/pkg/sessionx"
	"github.com/stretchr/testify/require"
)

const testKey = "test-csrf-hmac-key"

func newTestGuard(t *testing.T, exempt ...string) *Guard {
	t.Helper()
	g, err := NewGuard(testKey, exempt...)
	require.NoError(t, err)
	return g
}

func TestNewGuard_RequiresKey(t *testing.T) {
	_, err := NewGuard("")
	require.ErrorIs(t, err, ErrNoKey)
}

func TestEnsureSecret_LazyAndIdempotent(t *testing.T) {
	g := newTestGuard(t)
	sess := &sessionx.Session{}

	require.Empty(t, sess.CSRFSecret(), "no secret before first touch")

	s1 := g.EnsureSecret(sess)
	require.NotEmpty(t, s1)
	require.Equal(t, s1, sess.CSRFSecret())

	s2 := g.EnsureSecret(sess)
	require.Equal(t, s1, s2, "EnsureSecret must be idempotent")
}

func TestSignedToken_DeterministicAndVerifiable(t *testing.T) {
	g := newTestGuard(t)
	sess := &sessionx.Session{}
	secret := g.EnsureSecret(sess)

	tok := g.SignedToken(secret)
	require.Equal(t, tok, g.SignedToken(secret), "deterministic for a given secret+key")
	require.True(t, strings.HasPrefix(tok, secret+"."))

	require.NoError(t, g.Check(tok, secret))
}

func TestCheck_Rejections(t *testing.T) {
	g := newTestGuard(t)
	secret := "current-secret"
	valid := g.SignedToken(secret)

	tests := []struct {
		name   string
		token  string
		reason string
	}{
		{"missing token", "", ReasonTokenMissing},
		{"no dot", "justonepart", ReasonMalformedToken},
		{"too many dots", "a.b.c", ReasonMalformedToken},
		{"empty secret part", "." + strings.SplitN(valid, ".", 2)[1], ReasonMalformedToken},
		{"empty signature part", secret + ".", ReasonMalformedToken},
		{"bad signature", secret + "." + strings.Repeat("ab", 32), ReasonInvalidSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Check(tt.token, secret)
			var rej *Rejection
			require.ErrorAs(t, err, &rej)
			require.Equal(t, tt.reason, rej.Reason)
		})
	}
}

func TestCheck_StaleSecretRejectedAfterRotation(t *testing.T) {
	g := newTestGuard(t)
	sess := &sessionx.Session{}

	s1 := g.EnsureSecret(sess)
	tokenForS1 := g.SignedToken(s1)

	s2 := g.Rotate(sess)
	require.NotEqual(t, s1, s2)

	// The old token's signature is internally valid but must be rejected as a
	// secret mismatch, not a signature failure.
	err := g.Check(tokenForS1, sess.CSRFSecret())
	var rej *Rejection
	require.ErrorAs(t, err, &rej)
	require.Equal(t, ReasonSecretMismatch, rej.Reason)

	require.NoError(t, g.Check(g.SignedToken(s2), sess.CSRFSecret()))
}

func TestCheck_SingleCharacterCorruption(t *testing.T) {
	g := newTestGuard(t)
	secret := "s3cr3t-value-for-corruption-test"
	valid := g.SignedToken(secret)

	for i := range valid {
		corrupted := []byte(valid)
		if corrupted[i] == 'x' {
			corrupted[i] = 'y'
		} else {
			corrupted[i] = 'x'
		}
		require.Error(t, g.Check(string(corrupted), secret),
			"corrupting byte %d must invalidate the token", i)
	}
}

func middlewareResponse(t *testing.T, g *Guard, req *http.Request, sess *sessionx.Session) *httptest.ResponseRecorder {
	t.Helper()
	if sess != nil {
		req = req.WithContext(sessionx.WithContext(req.Context(), sess))
	}
	rec := httptest.NewRecorder()
	handler := g.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestMiddleware_SafeMethodsPass(t *testing.T) {
	g := newTestGuard(t)
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace} {
		req := httptest.NewRequest(method, "/v1/users/1", nil)
		rec := middlewareResponse(t, g, req, &sessionx.Session{})
		require.Equal(t, http.StatusNoContent, rec.Code, "method %s", method)
	}
}

func TestMiddleware_ExemptPathPasses(t *testing.T) {
	g := newTestGuard(t, "/v1/auth/signin")
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signin", nil)
	rec := middlewareResponse(t, g, req, &sessionx.Session{})
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMiddleware_MissingSessionIsServerError(t *testing.T) {
	g := newTestGuard(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/users/1", nil)
	rec := middlewareResponse(t, g, req, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMiddleware_RejectionsAre403WithReason(t *testing.T) {
	g := newTestGuard(t)
	sess := &sessionx.Session{}
	secret := g.EnsureSecret(sess)

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/users/1", nil)
		rec := middlewareResponse(t, g, req, sess)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, ReasonTokenMissing, decodeEnvelope(t, rec).Reason)
	})

	t.Run("valid token in header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/users/1", nil)
		req.Header.Set(HeaderName, g.SignedToken(secret))
		rec := middlewareResponse(t, g, req, sess)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("valid token in form body", func(t *testing.T) {
		form := url.Values{FieldName: {g.SignedToken(secret)}}
		req := httptest.NewRequest(http.MethodPost, "/v1/users/1",
			strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := middlewareResponse(t, g, req, sess)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("valid token in query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost,
			"/v1/users/1?"+FieldName+"="+url.QueryEscape(g.SignedToken(secret)), nil)
		rec := middlewareResponse(t, g, req, sess)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("header takes priority over query", func(t *testing.T) {
		// Bad header must lose even when the query carries a valid token.
		req := httptest.NewRequest(http.MethodPost,
			"/v1/users/1?"+FieldName+"="+url.QueryEscape(g.SignedToken(secret)), nil)
		req.Header.Set(HeaderName, "garbage")
		rec := middlewareResponse(t, g, req, sess)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, ReasonMalformedToken, decodeEnvelope(t, rec).Reason)
	})
}
