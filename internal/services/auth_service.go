package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"axiestudio/internal/middleware"
	"axiestudio/internal/models"
	"axiestudio/internal/repositories"
	"axiestudio/internal/utils"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrBadCredentials = errors.New("invalid email or password")
	ErrInactiveUser   = errors.New("account is not activated")
	ErrBadRefresh     = errors.New("invalid or expired refresh token")
)

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type AuthService interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) error
	NewTokenPair(userID uuid.UUID, superuser bool) (*TokenPair, error)

	// Login authenticates by email/password. Unverified accounts are
	// rejected until the confirmation token is consumed.
	Login(email, password string) (*models.User, *TokenPair, error)
	// Refresh rotates the stored refresh token.
	Refresh(refreshToken string) (*models.User, *TokenPair, error)
}

type authService struct {
	repo repositories.UserRepository
}

func NewAuthService(repo repositories.UserRepository) AuthService {
	return &authService{repo: repo}
}

func (s *authService) HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt generate: %w", err)
	}
	return string(h), nil
}

func (s *authService) CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *authService) NewTokenPair(userID uuid.UUID, superuser bool) (*TokenPair, error) {
	claims := &middleware.Claims{
		UserID:      userID.String(),
		IsSuperuser: superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(middleware.JWTKey)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := utils.NewRefreshToken(32)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		RefreshExpiresAt: time.Now().Add(refreshTokenTTL),
	}, nil
}

func (s *authService) Login(email, password string) (*models.User, *TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.repo.GetByEmail(email)
	if err != nil || user == nil {
		log.Printf("[auth][login] lookup failed for email=%q: err=%v", email, err)
		return nil, nil, ErrBadCredentials
	}
	if err := s.CheckPassword(user.PasswordHash, strings.TrimSpace(password)); err != nil {
		log.Printf("[auth][login] bcrypt mismatch for userID=%s", user.ID)
		return nil, nil, ErrBadCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrInactiveUser
	}

	pair, err := s.NewTokenPair(user.ID, user.IsSuperuser)
	if err != nil {
		return nil, nil, err
	}
	if err := s.repo.UpdateRefresh(user.ID, pair.RefreshToken, pair.RefreshExpiresAt); err != nil {
		return nil, nil, err
	}
	log.Printf("[auth][login] ok userID=%s", user.ID)
	return user, pair, nil
}

func (s *authService) Refresh(refreshToken string) (*models.User, *TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, nil, ErrBadRefresh
	}

	user, err := s.repo.GetByRefreshToken(refreshToken)
	if err != nil || user == nil {
		return nil, nil, ErrBadRefresh
	}
	if user.RefreshExpiresAt == nil || time.Now().After(*user.RefreshExpiresAt) {
		// stale token stays cleared so it cannot be replayed
		if err := s.repo.ClearRefresh(user.ID); err != nil {
			log.Printf("[auth][refresh] clear failed for userID=%s: %v", user.ID, err)
		}
		return nil, nil, ErrBadRefresh
	}

	pair, err := s.NewTokenPair(user.ID, user.IsSuperuser)
	if err != nil {
		return nil, nil, err
	}
	if err := s.repo.UpdateRefresh(user.ID, pair.RefreshToken, pair.RefreshExpiresAt); err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}
