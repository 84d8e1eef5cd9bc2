package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"axiestudio/internal/models"
	"axiestudio/internal/repositories"
	"axiestudio/internal/verification"
)

var (
	ErrInvalidToken = errors.New("invalid or expired verification token")
	ErrTokenExpired = errors.New("verification token expired")
)

type EmailVerificationService interface {
	// VerifyEmail consumes a confirmation token: activates the account,
	// clears the token slot, and logs the user straight in.
	VerifyEmail(token string) (*models.User, *TokenPair, error)
}

type emailVerificationService struct {
	repo     repositories.UserRepository
	emails   EmailService
	auth     AuthService
	verifier *verification.Service
	now      func() time.Time
}

func NewEmailVerificationService(repo repositories.UserRepository, emails EmailService, auth AuthService) EmailVerificationService {
	return &emailVerificationService{
		repo:     repo,
		emails:   emails,
		auth:     auth,
		verifier: verification.NewService(verification.EmailTokenPolicy()),
		now:      time.Now,
	}
}

func (s *emailVerificationService) VerifyEmail(token string) (*models.User, *TokenPair, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil, ErrInvalidToken
	}

	user, err := s.repo.GetByVerificationToken(token)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || user.EmailVerificationToken == nil {
		return nil, nil, ErrInvalidToken
	}

	rec := verification.Record{
		Code:      *user.EmailVerificationToken,
		ExpiresAt: user.EmailVerificationExpires,
	}
	res, err := s.verifier.Validate(token, rec, s.now())
	if err != nil {
		// code without expiry means the row was corrupted upstream
		log.Printf("[verify] corrupt verification slot for user=%s: %v", user.ID, err)
		return nil, nil, err
	}

	switch res.Outcome {
	case verification.OutcomeSuccess:
		// fall through below
	case verification.OutcomeExpired:
		return nil, nil, ErrTokenExpired
	default:
		return nil, nil, ErrInvalidToken
	}

	if err := s.repo.ActivateUser(user.ID); err != nil {
		return nil, nil, err
	}
	user.EmailVerified = true
	user.IsActive = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpires = nil
	log.Printf("[verify] user %s activated", user.Username)

	if err := s.emails.SendWelcomeEmail(user.Email, user.Username); err != nil {
		log.Printf("[verify] failed to send welcome email to %s: %v", user.Email, err)
	}

	// auto-login after verification
	pair, err := s.auth.NewTokenPair(user.ID, user.IsSuperuser)
	if err != nil {
		log.Printf("[verify] token generation failed for %s: %v", user.Username, err)
		return user, nil, nil
	}
	if err := s.repo.UpdateRefresh(user.ID, pair.RefreshToken, pair.RefreshExpiresAt); err != nil {
		log.Printf("[verify] refresh persist failed for %s: %v", user.Username, err)
		return user, nil, nil
	}
	return user, pair, nil
}
