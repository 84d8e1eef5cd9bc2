package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"axiestudio/internal/models"
	"axiestudio/internal/repositories"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByVerificationToken(token string) (*models.User, error) {
	for _, u := range r.users {
		if u.EmailVerificationToken != nil && *u.EmailVerificationToken == token {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(limit, offset int) ([]*models.User, error) {
	var out []*models.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Delete(id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) UpdateUsername(id uuid.UUID, username string) error {
	r.users[id].Username = username
	return nil
}

func (r *fakeUserRepo) UpdatePassword(id uuid.UUID, hash string) error {
	r.users[id].PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) SetEmailVerification(id uuid.UUID, token string, expiresAt time.Time) error {
	u := r.users[id]
	u.EmailVerificationToken = &token
	u.EmailVerificationExpires = &expiresAt
	return nil
}

func (r *fakeUserRepo) ActivateUser(id uuid.UUID) error {
	u := r.users[id]
	u.EmailVerified = true
	u.IsActive = true
	u.EmailVerificationToken = nil
	u.EmailVerificationExpires = nil
	return nil
}

func (r *fakeUserRepo) SetResetCode(id uuid.UUID, code string, expiresAt time.Time) error {
	u := r.users[id]
	u.VerificationCode = &code
	u.VerificationCodeExpires = &expiresAt
	u.VerificationAttempts = 0
	return nil
}

func (r *fakeUserRepo) IncrementResetAttempts(id uuid.UUID) (int, error) {
	u := r.users[id]
	u.VerificationAttempts++
	return u.VerificationAttempts, nil
}

func (r *fakeUserRepo) ClearResetCode(id uuid.UUID) error {
	u := r.users[id]
	u.VerificationCode = nil
	u.VerificationCodeExpires = nil
	u.VerificationAttempts = 0
	return nil
}

func (r *fakeUserRepo) UpdateRefresh(id uuid.UUID, token string, expiresAt time.Time) error {
	u := r.users[id]
	u.RefreshToken = &token
	u.RefreshExpiresAt = &expiresAt
	return nil
}

func (r *fakeUserRepo) GetByRefreshToken(token string) (*models.User, error) {
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ClearRefresh(id uuid.UUID) error {
	u := r.users[id]
	u.RefreshToken = nil
	u.RefreshExpiresAt = nil
	return nil
}

// fakeEmailService records sends instead of dialing SMTP.
type fakeEmailService struct {
	verifications []string // tokens
	resetCodes    []string // codes
	welcomes      []string // emails
	fail          bool
}

var _ EmailService = (*fakeEmailService)(nil)

func (f *fakeEmailService) SendVerificationEmail(email, username, token string) error {
	if f.fail {
		return errDialFailed
	}
	f.verifications = append(f.verifications, token)
	return nil
}

func (f *fakeEmailService) SendResetCodeEmail(email, username, code string) error {
	if f.fail {
		return errDialFailed
	}
	f.resetCodes = append(f.resetCodes, code)
	return nil
}

func (f *fakeEmailService) SendWelcomeEmail(email, username string) error {
	if f.fail {
		return errDialFailed
	}
	f.welcomes = append(f.welcomes, email)
	return nil
}

var errDialFailed = errors.New("smtp dial failed")
