package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sharedwealth/memberhub/internal/member/domain"
	"github.com/sharedwealth/memberhub/internal/member/store"
)

// UserService exposes profile reads and updates. Password material never
// flows through it: the update input has no hash field at all, so "strip the
// password hash" is enforced by the type system rather than by filtering.
type UserService struct {
	store store.Store
	log   *slog.Logger
}

func NewUserService(s store.Store, log *slog.Logger) *UserService {
	return &UserService{store: s, log: log}
}

// Profile is the client-safe projection of a user. The password hash has no
// field here and cannot leak through serialization.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Bio       string `json:"bio,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserUpdate carries the only fields a profile update may touch.
type UserUpdate struct {
	Name string
	Bio  string
}

func profileOf(u domain.User) Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Bio:       u.Bio,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// GetUserByID returns the sanitized profile for a user.
func (s *UserService) GetUserByID(ctx context.Context, id string) (Profile, error) {
	user, err := s.store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, fmt.Errorf("lookup user: %w", err)
	}
	return profileOf(user), nil
}

// UpdateUser applies a profile update and returns the fresh profile.
func (s *UserService) UpdateUser(ctx context.Context, id string, upd UserUpdate) (Profile, error) {
	if err := s.store.Users().UpdateProfile(ctx, id, upd.Name, upd.Bio); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Profile{}, ErrUserNotFound
		}
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}

	user, err := s.store.Users().GetUserByID(ctx, id)
	if err != nil {
		return Profile{}, fmt.Errorf("reload user: %w", err)
	}
	return profileOf(user), nil
}
