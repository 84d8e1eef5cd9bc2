package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	auth := NewAuthService(newFakeUserRepo())

	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.NoError(t, auth.CheckPassword(hash, "hunter2hunter2"))
	assert.Error(t, auth.CheckPassword(hash, "wrong"))
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo)

	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	user := activeUser("alice@example.com")
	user.PasswordHash = hash
	require.NoError(t, repo.Create(user))

	got, pair, err := auth.Login("Alice@Example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	stored, _ := repo.GetByID(user.ID)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, pair.RefreshToken, *stored.RefreshToken)
}

func TestLoginBadPassword(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo)

	hash, _ := auth.HashPassword("hunter2hunter2")
	user := activeUser("alice@example.com")
	user.PasswordHash = hash
	require.NoError(t, repo.Create(user))

	_, _, err := auth.Login("alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, _, err = auth.Login("nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo)

	hash, _ := auth.HashPassword("hunter2hunter2")
	user := activeUser("alice@example.com")
	user.PasswordHash = hash
	user.IsActive = false
	require.NoError(t, repo.Create(user))

	_, _, err := auth.Login("alice@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo)

	hash, _ := auth.HashPassword("hunter2hunter2")
	user := activeUser("alice@example.com")
	user.PasswordHash = hash
	require.NoError(t, repo.Create(user))

	_, pair, err := auth.Login("alice@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, next, err := auth.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// the old token died in the rotation
	_, _, err = auth.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrBadRefresh)
}

func TestRefreshExpiredToken(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo)

	user := activeUser("alice@example.com")
	require.NoError(t, repo.Create(user))
	stale := time.Now().Add(-time.Hour)
	require.NoError(t, repo.UpdateRefresh(user.ID, "stale-token", stale))

	_, _, err := auth.Refresh("stale-token")
	assert.ErrorIs(t, err, ErrBadRefresh)

	stored, _ := repo.GetByID(user.ID)
	assert.Nil(t, stored.RefreshToken, "expired token is purged")
}
