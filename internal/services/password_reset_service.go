package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"axiestudio/internal/models"
	"axiestudio/internal/repositories"
	"axiestudio/internal/verification"
)

var (
	ErrNoResetCode       = errors.New("no reset code found")
	ErrResetCodeExpired  = errors.New("reset code expired")
	ErrTooManyAttempts   = errors.New("too many attempts")
	ErrInvalidCodeFormat = errors.New("code must be 6 digits")
	ErrInvalidReset      = errors.New("invalid email or verification code")
)

// CodeMismatchError carries the budget left after a wrong guess.
type CodeMismatchError struct {
	Remaining int
}

func (e *CodeMismatchError) Error() string {
	return fmt.Sprintf("invalid code, %d attempts remaining", e.Remaining)
}

type PasswordResetService interface {
	// ForgotPassword issues a 6-digit code and emails it. Unknown emails
	// return nil so responses never reveal whether an account exists.
	ForgotPassword(email string) error
	// VerifyResetCode checks a submitted code without consuming it; the
	// code stays live until the password is actually changed.
	VerifyResetCode(email, code string) error
	// ChangePasswordWithCode re-validates the code, updates the password,
	// and clears the slot.
	ChangePasswordWithCode(email, code, newPassword string) error
}

type passwordResetService struct {
	repo     repositories.UserRepository
	emails   EmailService
	auth     AuthService
	verifier *verification.Service
	throttle *resendThrottle
	now      func() time.Time
}

func NewPasswordResetService(repo repositories.UserRepository, emails EmailService, auth AuthService) PasswordResetService {
	return &passwordResetService{
		repo:     repo,
		emails:   emails,
		auth:     auth,
		verifier: verification.NewService(verification.ResetCodePolicy()),
		throttle: newResendThrottle(maxResendsPerWindow, resendWindow),
		now:      time.Now,
	}
}

func (s *passwordResetService) ForgotPassword(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return fmt.Errorf("email is required")
	}

	user, err := s.repo.GetByEmail(email)
	if err != nil || user == nil {
		// don't leak existence
		log.Printf("[password-reset] request for %q: user not found or error: %v", email, err)
		return nil
	}
	if !s.throttle.Allow(user.ID.String(), s.now()) {
		return ErrResendThrottled
	}

	issued, err := s.verifier.Issue(s.now())
	if err != nil {
		return err
	}
	// replaces any prior code and resets the attempt counter
	if err := s.repo.SetResetCode(user.ID, issued.Code, issued.ExpiresAt); err != nil {
		return err
	}

	if err := s.emails.SendResetCodeEmail(user.Email, user.Username, issued.Code); err != nil {
		log.Printf("[password-reset] failed to send code to %s: %v", user.Email, err)
	}
	return nil
}

func (s *passwordResetService) VerifyResetCode(email, code string) error {
	user, _, err := s.validate(email, code)
	if err != nil {
		return err
	}
	log.Printf("[password-reset] code verified for user %s", user.Username)
	return nil
}

func (s *passwordResetService) ChangePasswordWithCode(email, code, newPassword string) error {
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	user, _, err := s.validate(email, code)
	if err != nil {
		return err
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(user.ID, hash); err != nil {
		return err
	}
	// single use: the code dies with the change it authorized
	if err := s.repo.ClearResetCode(user.ID); err != nil {
		return err
	}
	log.Printf("[password-reset] password changed for user %s", user.Username)
	return nil
}

// validate runs the submitted code through the state machine and persists
// the transition it signals (attempt increment on mismatch). Clearing on
// success is left to the caller that consumes the code.
func (s *passwordResetService) validate(email, code string) (*models.User, verification.Result, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return nil, verification.Result{}, err
	}
	if user == nil {
		return nil, verification.Result{}, ErrInvalidReset
	}

	rec := verification.Record{Attempts: user.VerificationAttempts}
	if user.VerificationCode != nil {
		rec.Code = *user.VerificationCode
	}
	rec.ExpiresAt = user.VerificationCodeExpires

	res, err := s.verifier.Validate(code, rec, s.now())
	if err != nil {
		log.Printf("[password-reset] corrupt reset slot for user=%s: %v", user.ID, err)
		return nil, verification.Result{}, err
	}

	switch res.Outcome {
	case verification.OutcomeSuccess:
		return user, res, nil
	case verification.OutcomeNotFound:
		return nil, res, ErrNoResetCode
	case verification.OutcomeRateLimited:
		return nil, res, ErrTooManyAttempts
	case verification.OutcomeInvalidFormat:
		return nil, res, ErrInvalidCodeFormat
	case verification.OutcomeExpired:
		return nil, res, ErrResetCodeExpired
	case verification.OutcomeMismatch:
		if _, err := s.repo.IncrementResetAttempts(user.ID); err != nil {
			return nil, res, err
		}
		return nil, res, &CodeMismatchError{Remaining: res.RemainingAttempts}
	}
	return nil, res, ErrInvalidReset
}
