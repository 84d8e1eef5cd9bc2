package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axiestudio/internal/models"
	"axiestudio/internal/verification"
)

func newVerifyFixture(t *testing.T, users ...*models.User) (*emailVerificationService, *fakeUserRepo, *fakeEmailService, *time.Time) {
	t.Helper()
	repo := newFakeUserRepo(users...)
	emails := &fakeEmailService{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &emailVerificationService{
		repo:     repo,
		emails:   emails,
		auth:     NewAuthService(repo),
		verifier: verification.NewService(verification.EmailTokenPolicy()),
		now:      func() time.Time { return now },
	}
	return svc, repo, emails, &now
}

func pendingUser(email, token string, expires time.Time) *models.User {
	return &models.User{
		Username:                 "alice",
		Email:                    email,
		PasswordHash:             "$2a$10$stub",
		EmailVerificationToken:   &token,
		EmailVerificationExpires: &expires,
	}
}

func TestVerifyEmailActivatesUser(t *testing.T) {
	token := "confirm-me-token"
	user := pendingUser("alice@example.com", token, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, repo, emails, _ := newVerifyFixture(t, user)

	verified, pair, err := svc.VerifyEmail(token)
	require.NoError(t, err)

	assert.True(t, verified.IsActive)
	assert.True(t, verified.EmailVerified)
	assert.Nil(t, verified.EmailVerificationToken, "consumed token must be cleared")
	assert.Nil(t, verified.EmailVerificationExpires)

	require.NotNil(t, pair, "verification logs the user straight in")
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	stored, _ := repo.GetByID(user.ID)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, pair.RefreshToken, *stored.RefreshToken)

	assert.Equal(t, []string{"alice@example.com"}, emails.welcomes)
}

func TestVerifyEmailTokenSingleUse(t *testing.T) {
	token := "confirm-me-token"
	user := pendingUser("alice@example.com", token, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, _, _, _ := newVerifyFixture(t, user)

	_, _, err := svc.VerifyEmail(token)
	require.NoError(t, err)

	_, _, err = svc.VerifyEmail(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "a consumed token no longer resolves")
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	token := "confirm-me-token"
	user := pendingUser("alice@example.com", token, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))
	svc, repo, _, now := newVerifyFixture(t, user)

	*now = now.Add(25 * time.Hour)
	_, _, err := svc.VerifyEmail(token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	stored, _ := repo.GetByID(user.ID)
	assert.False(t, stored.IsActive, "expired token must not activate")
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	svc, _, _, _ := newVerifyFixture(t)

	_, _, err := svc.VerifyEmail("no-such-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = svc.VerifyEmail("   ")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyEmailCorruptSlot(t *testing.T) {
	token := "confirm-me-token"
	user := &models.User{
		Username:               "alice",
		Email:                  "alice@example.com",
		EmailVerificationToken: &token, // expiry missing: upstream bug
	}
	svc, _, _, _ := newVerifyFixture(t, user)

	_, _, err := svc.VerifyEmail(token)
	assert.ErrorIs(t, err, verification.ErrCorruptRecord)
}
