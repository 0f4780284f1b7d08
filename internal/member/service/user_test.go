package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestUsers(t *testing.T, fs *fakeStore) *UserService {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserService(fs, log)
}

func TestGetUserByID_NeverExposesHash(t *testing.T) {
	fs := newFakeStore()
	auth := newTestAuth(t, fs)
	users := newTestUsers(t, fs)
	ctx := context.Background()

	res, err := auth.SignUp(ctx, SignUpInput{Email: "a@b.com", Password: "pw", Name: "Alice"})
	require.NoError(t, err)

	p, err := users.GetUserByID(ctx, res.User.ID)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", p.Email)
	require.Equal(t, "Alice", p.Name)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	require.NotContains(t, string(raw), res.User.PasswordHash)
	require.NotContains(t, string(raw), "password")
}

func TestGetUserByID_Unknown(t *testing.T) {
	users := newTestUsers(t, newFakeStore())
	_, err := users.GetUserByID(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_TouchesOnlyProfileFields(t *testing.T) {
	fs := newFakeStore()
	auth := newTestAuth(t, fs)
	users := newTestUsers(t, fs)
	ctx := context.Background()

	res, err := auth.SignUp(ctx, SignUpInput{Email: "a@b.com", Password: "pw", Name: "Alice"})
	require.NoError(t, err)

	p, err := users.UpdateUser(ctx, res.User.ID, UserUpdate{Name: "Alicia", Bio: "hi"})
	require.NoError(t, err)
	require.Equal(t, "Alicia", p.Name)
	require.Equal(t, "hi", p.Bio)

	stored := fs.users.byID[res.User.ID]
	require.Equal(t, res.User.PasswordHash, stored.PasswordHash, "hash unreachable from updates")
	require.Equal(t, res.User.Role, stored.Role)

	_, err = auth.SignIn(ctx, "a@b.com", "pw")
	require.NoError(t, err, "credentials survive a profile update")
}

func TestUpdateUser_Unknown(t *testing.T) {
	users := newTestUsers(t, newFakeStore())
	_, err := users.UpdateUser(context.Background(), "ghost", UserUpdate{Name: "x"})
	require.ErrorIs(t, err, ErrUserNotFound)
}
