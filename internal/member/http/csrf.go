package http

import (
	"net/http"

	"github.com/sharedwealth/memberhub/pkg/csrfx"
	"github.com/sharedwealth/memberhub/pkg/httpx"
	"github.com/sharedwealth/memberhub/pkg/sessionx"
)

type csrfData struct {
	CSRFToken string `json:"csrf_token"`
}

// CSRFTokenHandler issues the caller's signed anti-forgery token, minting the
// session secret on first touch.
type CSRFTokenHandler struct {
	Guard *csrfx.Guard
}

func (h *CSRFTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := sessionx.FromContext(r.Context())
	if sess == nil {
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	secret := h.Guard.EnsureSecret(sess)
	httpx.OK(w, http.StatusOK, csrfData{CSRFToken: h.Guard.SignedToken(secret)})
}

// CSRFRotateHandler regenerates the session secret. Every previously issued
// token for this session stops validating immediately.
type CSRFRotateHandler struct {
	Guard *csrfx.Guard
}

func (h *CSRFRotateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess := sessionx.FromContext(r.Context())
	if sess == nil {
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	secret := h.Guard.Rotate(sess)
	httpx.OK(w, http.StatusOK, csrfData{CSRFToken: h.Guard.SignedToken(secret)})
}
