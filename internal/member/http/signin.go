package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sharedwealth/memberhub/internal/member/domain"
	"github.com/sharedwealth/memberhub/internal/member/service"
	"github.com/sharedwealth/memberhub/pkg/httpx"
	"github.com/sharedwealth/memberhub/pkg/slogx"
)

type SignInHandler struct {
	AuthService *service.AuthService
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type signInData struct {
	User        signInUser `json:"user"`
	AccessToken string     `json:"access_token"`
}

func (h *SignInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		// Missing fields collapse into the same failure as bad credentials.
		httpx.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	res, err := h.AuthService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.Fail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error("sign-in failed", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httpx.OK(w, http.StatusOK, signInData{
		User:        toSignInUser(res.User),
		AccessToken: res.Token,
	})
}

func toSignInUser(u domain.User) signInUser {
	return signInUser{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
}
