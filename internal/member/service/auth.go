package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sharedwealth/memberhub/internal/member/domain"
	"github.com/sharedwealth/memberhub/internal/member/store"
	"github.com/sharedwealth/memberhub/pkg/cryptox"
	"github.com/sharedwealth/memberhub/pkg/idx"
	"github.com/sharedwealth/memberhub/pkg/jwtx"
)

// Session token lifetimes. Sign-up issues a longer token than sign-in on
// purpose: a freshly created account gets a convenience window, a returning
// session gets the shorter hygiene window.
const (
	SignUpTokenTTL = 7 * 24 * time.Hour
	SignInTokenTTL = 24 * time.Hour
)

// AuthService orchestrates sign-up, sign-in, password changes and role
// queries on top of the credential store and the token signer.
type AuthService struct {
	store  store.Store
	signer *jwtx.Signer
	log    *slog.Logger
}

func NewAuthService(s store.Store, signer *jwtx.Signer, log *slog.Logger) *AuthService {
	return &AuthService{store: s, signer: signer, log: log}
}

type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Bio      string
	// OrganizationID, when set, links the new user to an existing
	// organization. The link is best-effort.
	OrganizationID string
}

type SignUpResult struct {
	User  domain.User
	Token string
	// OrgLinkFailed reports that the requested organization link could not be
	// created. The account itself is fully created.
	OrgLinkFailed bool
}

type SignInResult struct {
	User  domain.User
	Token string
}

// NormalizeEmail is the single place email case/whitespace normalization
// happens; lookups and inserts both go through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates a credential record and issues an immediate session token.
// Duplicate emails fail with ErrEmailTaken whether caught by the lookup or by
// the store's unique index when two sign-ups race. A requested organization
// link that fails is logged and reported, never rolled back.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (SignUpResult, error) {
	email := NormalizeEmail(in.Email)

	if _, err := s.store.Users().GetUserByEmail(ctx, email); err == nil {
		return SignUpResult{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return SignUpResult{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return SignUpResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         in.Name,
		Bio:          in.Bio,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return SignUpResult{}, ErrEmailTaken
		}
		return SignUpResult{}, fmt.Errorf("create user: %w", err)
	}

	res := SignUpResult{User: user}

	if in.OrganizationID != "" {
		if err := s.linkOrganization(ctx, user.ID, in.OrganizationID); err != nil {
			s.log.Warn("organization link failed during sign-up",
				slog.String("user_id", user.ID),
				slog.String("org_id", in.OrganizationID),
				slog.Any("error", err),
			)
			res.OrgLinkFailed = true
		}
	}

	token, err := s.signer.Issue(user.ID, user.Email, string(user.Role), SignUpTokenTTL)
	if err != nil {
		return SignUpResult{}, fmt.Errorf("issue token: %w", err)
	}
	res.Token = token

	return res, nil
}

func (s *AuthService) linkOrganization(ctx context.Context, userID, orgID string) error {
	if _, err := s.store.Organizations().GetOrganizationByID(ctx, orgID); err != nil {
		return fmt.Errorf("lookup organization: %w", err)
	}
	m := domain.Membership{
		ID:             idx.New().String(),
		UserID:         userID,
		OrganizationID: orgID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.Organizations().CreateMembership(ctx, m); err != nil {
		return fmt.Errorf("create membership: %w", err)
	}
	return nil
}

// SignIn verifies credentials and issues a session token. An unknown email
// and a wrong password are deliberately indistinguishable from outside.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	user, err := s.store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return SignInResult{}, ErrInvalidCredentials
		}
		return SignInResult{}, fmt.Errorf("lookup email: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return SignInResult{}, ErrInvalidCredentials
		}
		// A hash we cannot even parse is a data problem, but the caller still
		// only learns "invalid credentials".
		s.log.Error("stored password hash unreadable",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return SignInResult{}, ErrInvalidCredentials
	}

	token, err := s.signer.Issue(user.ID, user.Email, string(user.Role), SignInTokenTTL)
	if err != nil {
		return SignInResult{}, fmt.Errorf("issue token: %w", err)
	}

	return SignInResult{User: user, Token: token}, nil
}

// ChangePassword verifies the current password before replacing the hash. The
// update touches only the hash column; role and profile fields are unreachable
// from here.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(currentPassword, user.PasswordHash); err != nil {
		return ErrCurrentPasswordIncorrect
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	return nil
}

// IsAdmin reports whether the user holds the admin or superadmin role. An
// unresolvable id is an error, distinct from a plain false.
func (s *AuthService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("lookup user: %w", err)
	}
	return user.Role.IsAdmin(), nil
}

// IsSuperAdmin reports whether the user holds exactly the superadmin role.
func (s *AuthService) IsSuperAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("lookup user: %w", err)
	}
	return user.Role.IsSuperAdmin(), nil
}
