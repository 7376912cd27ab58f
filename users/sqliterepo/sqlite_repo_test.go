package sqliterepo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"photostream/users"
	"photostream/users/sqliterepo"
)

func openRepo(t *testing.T) *sqliterepo.SQLiteRepo {
	t.Helper()
	repo, err := sqliterepo.New(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newUser() *users.User {
	return &users.User{
		Username:     "johndoe",
		Email:        "john.doe@example.com",
		PasswordHash: "$2a$10$hash",
		FullName:     "John Doe",
		Role:         users.RoleUser,
		ProfileImg:   "default.jpg",
		Active:       true,
	}
}

func TestInsertAndGet(t *testing.T) {
	repo := openRepo(t)
	user := newUser()

	require.NoError(t, repo.Insert(context.Background(), user))
	require.NotEmpty(t, user.ID)

	byID, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Username, byID.Username)
	require.Equal(t, users.RoleUser, byID.Role)
	require.True(t, byID.Active)
	require.False(t, byID.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(context.Background(), user.Email)
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)

	byUsername, err := repo.GetByUsername(context.Background(), user.Username)
	require.NoError(t, err)
	require.Equal(t, user.ID, byUsername.ID)
}

func TestGetMissing(t *testing.T) {
	repo := openRepo(t)

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, users.ErrNotFound)

	_, err = repo.GetByEmail(context.Background(), "missing@example.com")
	require.ErrorIs(t, err, users.ErrNotFound)
}

func TestUniqueConstraints(t *testing.T) {
	repo := openRepo(t)
	require.NoError(t, repo.Insert(context.Background(), newUser()))

	dup := newUser()
	dup.Username = "other"
	require.Error(t, repo.Insert(context.Background(), dup))

	dup = newUser()
	dup.Email = "other@example.com"
	require.Error(t, repo.Insert(context.Background(), dup))
}
