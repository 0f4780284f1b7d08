package store

import (
	"context"
	"errors"

	"github.com/sharedwealth/memberhub/internal/member/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres later) implement this. It exposes sub-repositories to keep concerns
// tidy and testable. The service layer treats this as an external collaborator:
// uniqueness enforcement (e.g. the email index) lives in the driver, not here.
type Store interface {
	Users() Users
	Organizations() Organizations

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up a user by normalized (lowercased) email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists if the email is taken; two concurrent sign-ups
	// for the same email race here and the driver rejects the loser.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateProfile mutates name and bio and bumps updated_at. The password
	// hash is deliberately unreachable through this method.
	UpdateProfile(ctx context.Context, userID, name, bio string) error

	// UpdatePasswordHash replaces only the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error
}

type Organizations interface {
	// GetOrganizationByID fetches an organization by id.
	GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error)

	// CreateOrganization inserts a new organization.
	CreateOrganization(ctx context.Context, o domain.Organization) error

	// CreateMembership links a user to an organization. Returns
	// ErrAlreadyExists when the pair is already linked.
	CreateMembership(ctx context.Context, m domain.Membership) error
}
