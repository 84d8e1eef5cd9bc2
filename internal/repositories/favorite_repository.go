package repositories

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"axiestudio/internal/models"
)

type FavoriteRepository interface {
	Create(fav *models.UserFavorite) error
	ListByUser(userID uuid.UUID) ([]*models.UserFavorite, error)
	GetByUserAndItem(userID uuid.UUID, itemID string) (*models.UserFavorite, error)
	Delete(userID uuid.UUID, itemID string) error
	CountByUser(userID uuid.UUID) (int, error)
}

type favoriteRepository struct {
	DB *sql.DB
}

func NewFavoriteRepository(db *sql.DB) FavoriteRepository {
	return &favoriteRepository{DB: db}
}

func (r *favoriteRepository) Create(fav *models.UserFavorite) error {
	const q = `
		INSERT INTO user_favorites (id, user_id, item_id, item_type, item_name, item_description, item_author, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		RETURNING created_at
	`
	if fav.ID == uuid.Nil {
		fav.ID = uuid.New()
	}
	return r.DB.QueryRow(q,
		fav.ID,
		fav.UserID,
		fav.ItemID,
		fav.ItemType,
		fav.ItemName,
		fav.ItemDescription,
		fav.ItemAuthor,
	).Scan(&fav.CreatedAt)
}

func (r *favoriteRepository) ListByUser(userID uuid.UUID) ([]*models.UserFavorite, error) {
	const q = `
		SELECT id, user_id, item_id, item_type, item_name, item_description, item_author, created_at
		FROM user_favorites
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("favorites list: %w", err)
	}
	defer rows.Close()

	var favs []*models.UserFavorite
	for rows.Next() {
		var f models.UserFavorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.ItemID, &f.ItemType, &f.ItemName, &f.ItemDescription, &f.ItemAuthor, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("favorites scan: %w", err)
		}
		favs = append(favs, &f)
	}
	return favs, rows.Err()
}

func (r *favoriteRepository) GetByUserAndItem(userID uuid.UUID, itemID string) (*models.UserFavorite, error) {
	const q = `
		SELECT id, user_id, item_id, item_type, item_name, item_description, item_author, created_at
		FROM user_favorites
		WHERE user_id = $1 AND item_id = $2
	`
	var f models.UserFavorite
	err := r.DB.QueryRow(q, userID, itemID).Scan(
		&f.ID, &f.UserID, &f.ItemID, &f.ItemType, &f.ItemName, &f.ItemDescription, &f.ItemAuthor, &f.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("favorite get: %w", err)
	}
	return &f, nil
}

func (r *favoriteRepository) Delete(userID uuid.UUID, itemID string) error {
	res, err := r.DB.Exec(`DELETE FROM user_favorites WHERE user_id = $1 AND item_id = $2`, userID, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *favoriteRepository) CountByUser(userID uuid.UUID) (int, error) {
	var c int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM user_favorites WHERE user_id = $1`, userID).Scan(&c); err != nil {
		return 0, fmt.Errorf("favorites count: %w", err)
	}
	return c, nil
}
