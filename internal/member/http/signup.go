package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sharedwealth/memberhub/internal/member/service"
	"github.com/sharedwealth/memberhub/pkg/httpx"
	"github.com/sharedwealth/memberhub/pkg/slogx"
)

type SignUpHandler struct {
	AuthService *service.AuthService
}

type signUpRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	Bio            string `json:"bio"`
	OrganizationID string `json:"organization_id"`
}

type signUpData struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

func (h *SignUpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		httpx.Fail(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Password == "" {
		httpx.Fail(w, http.StatusBadRequest, "password is required")
		return
	}

	res, err := h.AuthService.SignUp(ctx, service.SignUpInput{
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		Bio:            req.Bio,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			httpx.Fail(w, http.StatusConflict, "Email already registered")
			return
		}
		log.Error("sign-up failed", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	data := signUpData{UserID: res.User.ID, Token: res.Token}
	if res.OrgLinkFailed {
		// Partial success: the account exists and is usable, only the
		// organization link was lost.
		httpx.OKMessage(w, http.StatusCreated, data, "Account created; organization link failed")
		return
	}
	httpx.OK(w, http.StatusCreated, data)
}
