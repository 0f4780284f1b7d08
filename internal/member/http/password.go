package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sharedwealth/memberhub/internal/member/service"
	"github.com/sharedwealth/memberhub/pkg/httpx"
	"github.com/sharedwealth/memberhub/pkg/slogx"
)

type ChangePasswordHandler struct {
	AuthService *service.AuthService
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	auth := httpx.AuthContextFrom(ctx)

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentPassword == "" {
		httpx.Fail(w, http.StatusBadRequest, "current_password is required")
		return
	}
	if req.NewPassword == "" {
		httpx.Fail(w, http.StatusBadRequest, "new_password is required")
		return
	}

	err := h.AuthService.ChangePassword(ctx, auth.ID, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		httpx.OKMessage(w, http.StatusOK, nil, "Password updated")
	case errors.Is(err, service.ErrCurrentPasswordIncorrect):
		httpx.Fail(w, http.StatusForbidden, "Current password is incorrect")
	case errors.Is(err, service.ErrUserNotFound):
		httpx.Fail(w, http.StatusNotFound, "User not found")
	default:
		log.Error("password change failed", "user_id", auth.ID, "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
	}
}
