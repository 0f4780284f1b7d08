package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sharedwealth/memberhub/internal/member/service"
	"github.com/sharedwealth/memberhub/pkg/httpx"
	"github.com/sharedwealth/memberhub/pkg/slogx"
)

type GetUserHandler struct {
	UserService *service.UserService
}

func (h *GetUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	profile, err := h.UserService.GetUserByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.Fail(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error("user lookup failed", "user_id", r.PathValue("id"), "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.OK(w, http.StatusOK, profile)
}

type UpdateUserHandler struct {
	UserService *service.UserService
	AuthService *service.AuthService
}

// updateUserRequest deliberately has no password or role fields: any such
// keys in the request body are dropped during decoding and cannot reach the
// store.
type updateUserRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

func (h *UpdateUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	auth := httpx.AuthContextFrom(ctx)
	targetID := r.PathValue("id")

	// Callers may edit themselves; editing anyone else takes an admin role.
	if auth.ID != targetID {
		isAdmin, err := h.AuthService.IsAdmin(ctx, auth.ID)
		if err != nil {
			log.Error("admin check failed", "user_id", auth.ID, "err", err)
			httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !isAdmin {
			httpx.Fail(w, http.StatusForbidden, "Forbidden")
			return
		}
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.UserService.UpdateUser(ctx, targetID, service.UserUpdate{
		Name: req.Name,
		Bio:  req.Bio,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.Fail(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error("user update failed", "user_id", targetID, "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.OK(w, http.StatusOK, profile)
}
