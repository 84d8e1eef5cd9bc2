package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"axiestudio/internal/models"
	"axiestudio/internal/repositories"
	"axiestudio/internal/verification"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrAlreadyVerified = errors.New("email is already verified")
	ErrResendThrottled = errors.New("resend throttled")
)

type UserService interface {
	Signup(req *models.SignupRequest) (*models.User, error)
	ResendVerification(email string) error
	GetUserByID(id uuid.UUID) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers(limit, offset int) ([]*models.User, error)
	UpdateUsername(id uuid.UUID, username string) (*models.User, error)
	DeleteUser(id uuid.UUID) error
}

type userService struct {
	repo     repositories.UserRepository
	emails   EmailService
	auth     AuthService
	verifier *verification.Service
	throttle *resendThrottle
	now      func() time.Time
}

func NewUserService(repo repositories.UserRepository, emails EmailService, auth AuthService) UserService {
	return &userService{
		repo:     repo,
		emails:   emails,
		auth:     auth,
		verifier: verification.NewService(verification.EmailTokenPolicy()),
		throttle: newResendThrottle(maxResendsPerWindow, resendWindow),
		now:      time.Now,
	}
}

// Signup creates an inactive, unverified account and mails a confirmation
// link. The account stays unusable until the token is consumed.
func (s *userService) Signup(req *models.SignupRequest) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" || username == "" {
		return nil, fmt.Errorf("username and email are required")
	}

	if existing, err := s.repo.GetByEmail(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}
	if existing, err := s.repo.GetByUsername(username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	issued, err := s.verifier.Issue(s.now())
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:                 username,
		Email:                    email,
		PasswordHash:             hash,
		IsActive:                 false,
		EmailVerified:            false,
		EmailVerificationToken:   &issued.Code,
		EmailVerificationExpires: &issued.ExpiresAt,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	s.throttle.Allow(user.ID.String(), s.now())
	if err := s.emails.SendVerificationEmail(user.Email, user.Username, issued.Code); err != nil {
		// warn but do not fail signup; the user can hit resend
		log.Printf("[signup] failed to send verification email to %s: %v", user.Email, err)
	}
	return user, nil
}

// ResendVerification issues a fresh token, replacing whatever was stored.
// Unknown emails are not reported to the caller.
func (s *userService) ResendVerification(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("email is required")
	}

	user, err := s.repo.GetByEmail(email)
	if err != nil || user == nil {
		// don't leak existence
		log.Printf("[verify][resend] request for %q: user not found or error: %v", email, err)
		return nil
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}
	if !s.throttle.Allow(user.ID.String(), s.now()) {
		return ErrResendThrottled
	}

	issued, err := s.verifier.Issue(s.now())
	if err != nil {
		return err
	}
	if err := s.repo.SetEmailVerification(user.ID, issued.Code, issued.ExpiresAt); err != nil {
		return err
	}
	return s.emails.SendVerificationEmail(user.Email, user.Username, issued.Code)
}

func (s *userService) GetUserByID(id uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(strings.TrimSpace(strings.ToLower(email)))
}

func (s *userService) ListUsers(limit, offset int) ([]*models.User, error) {
	return s.repo.List(limit, offset)
}

func (s *userService) UpdateUsername(id uuid.UUID, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	if existing, err := s.repo.GetByUsername(username); err != nil {
		return nil, err
	} else if existing != nil && existing.ID != id {
		return nil, ErrUsernameTaken
	}

	if err := s.repo.UpdateUsername(id, username); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

func (s *userService) DeleteUser(id uuid.UUID) error {
	return s.repo.Delete(id)
}
