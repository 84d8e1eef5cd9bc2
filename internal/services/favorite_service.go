package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"axiestudio/internal/models"
	"axiestudio/internal/repositories"
)

const maxFavoritesPerUser = 50

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrFavoriteLimit    = errors.New("favorites limit reached")
	ErrInvalidItemType  = errors.New("item_type must be FLOW or COMPONENT")
)

type FavoriteService interface {
	Add(userID uuid.UUID, req *models.FavoriteCreateRequest) (*models.UserFavorite, error)
	List(userID uuid.UUID) ([]*models.UserFavorite, error)
	Remove(userID uuid.UUID, itemID string) error
	IsFavorited(userID uuid.UUID, itemID string) (bool, error)
}

type favoriteService struct {
	repo repositories.FavoriteRepository
}

func NewFavoriteService(repo repositories.FavoriteRepository) FavoriteService {
	return &favoriteService{repo: repo}
}

// Add is idempotent: favoriting an already-favorited item returns the
// existing row.
func (s *favoriteService) Add(userID uuid.UUID, req *models.FavoriteCreateRequest) (*models.UserFavorite, error) {
	itemType := strings.ToUpper(strings.TrimSpace(req.ItemType))
	if itemType != models.FavoriteItemFlow && itemType != models.FavoriteItemComponent {
		return nil, ErrInvalidItemType
	}

	existing, err := s.repo.GetByUserAndItem(userID, req.ItemID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	count, err := s.repo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	if count >= maxFavoritesPerUser {
		return nil, ErrFavoriteLimit
	}

	fav := &models.UserFavorite{
		UserID:          userID,
		ItemID:          req.ItemID,
		ItemType:        itemType,
		ItemName:        req.ItemName,
		ItemDescription: req.ItemDescription,
		ItemAuthor:      req.ItemAuthor,
	}
	if err := s.repo.Create(fav); err != nil {
		return nil, err
	}
	return fav, nil
}

func (s *favoriteService) List(userID uuid.UUID) ([]*models.UserFavorite, error) {
	return s.repo.ListByUser(userID)
}

func (s *favoriteService) Remove(userID uuid.UUID, itemID string) error {
	if err := s.repo.Delete(userID, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrFavoriteNotFound
		}
		return err
	}
	return nil
}

func (s *favoriteService) IsFavorited(userID uuid.UUID, itemID string) (bool, error) {
	fav, err := s.repo.GetByUserAndItem(userID, itemID)
	if err != nil {
		return false, err
	}
	return fav != nil, nil
}
