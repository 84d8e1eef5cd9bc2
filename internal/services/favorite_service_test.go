package services

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"axiestudio/internal/models"
	"axiestudio/internal/repositories"
)

type fakeFavoriteRepo struct {
	favs []*models.UserFavorite
}

var _ repositories.FavoriteRepository = (*fakeFavoriteRepo)(nil)

func (r *fakeFavoriteRepo) Create(fav *models.UserFavorite) error {
	fav.ID = uuid.New()
	r.favs = append(r.favs, fav)
	return nil
}

func (r *fakeFavoriteRepo) ListByUser(userID uuid.UUID) ([]*models.UserFavorite, error) {
	var out []*models.UserFavorite
	for _, f := range r.favs {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFavoriteRepo) GetByUserAndItem(userID uuid.UUID, itemID string) (*models.UserFavorite, error) {
	for _, f := range r.favs {
		if f.UserID == userID && f.ItemID == itemID {
			return f, nil
		}
	}
	return nil, nil
}

func (r *fakeFavoriteRepo) Delete(userID uuid.UUID, itemID string) error {
	for i, f := range r.favs {
		if f.UserID == userID && f.ItemID == itemID {
			r.favs = append(r.favs[:i], r.favs[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *fakeFavoriteRepo) CountByUser(userID uuid.UUID) (int, error) {
	n := 0
	for _, f := range r.favs {
		if f.UserID == userID {
			n++
		}
	}
	return n, nil
}

func TestFavoriteAddAndList(t *testing.T) {
	svc := NewFavoriteService(&fakeFavoriteRepo{})
	userID := uuid.New()

	fav, err := svc.Add(userID, &models.FavoriteCreateRequest{
		ItemID:   "flow-1",
		ItemType: "flow",
		ItemName: "My Flow",
	})
	require.NoError(t, err)
	assert.Equal(t, models.FavoriteItemFlow, fav.ItemType, "item type is normalized")

	favs, err := svc.List(userID)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	ok, err := svc.IsFavorited(userID, "flow-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFavoriteAddIsIdempotent(t *testing.T) {
	repo := &fakeFavoriteRepo{}
	svc := NewFavoriteService(repo)
	userID := uuid.New()
	req := &models.FavoriteCreateRequest{ItemID: "flow-1", ItemType: "FLOW", ItemName: "My Flow"}

	first, err := svc.Add(userID, req)
	require.NoError(t, err)
	second, err := svc.Add(userID, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.favs, 1)
}

func TestFavoriteInvalidType(t *testing.T) {
	svc := NewFavoriteService(&fakeFavoriteRepo{})

	_, err := svc.Add(uuid.New(), &models.FavoriteCreateRequest{
		ItemID:   "x",
		ItemType: "GADGET",
		ItemName: "x",
	})
	assert.ErrorIs(t, err, ErrInvalidItemType)
}

func TestFavoriteLimit(t *testing.T) {
	repo := &fakeFavoriteRepo{}
	svc := NewFavoriteService(repo)
	userID := uuid.New()

	for i := 0; i < maxFavoritesPerUser; i++ {
		_, err := svc.Add(userID, &models.FavoriteCreateRequest{
			ItemID:   fmt.Sprintf("flow-%d", i),
			ItemType: "FLOW",
			ItemName: "f",
		})
		require.NoError(t, err)
	}

	_, err := svc.Add(userID, &models.FavoriteCreateRequest{ItemID: "one-too-many", ItemType: "FLOW", ItemName: "f"})
	assert.ErrorIs(t, err, ErrFavoriteLimit)
}

func TestFavoriteRemove(t *testing.T) {
	svc := NewFavoriteService(&fakeFavoriteRepo{})
	userID := uuid.New()

	_, err := svc.Add(userID, &models.FavoriteCreateRequest{ItemID: "flow-1", ItemType: "FLOW", ItemName: "f"})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(userID, "flow-1"))
	assert.ErrorIs(t, svc.Remove(userID, "flow-1"), ErrFavoriteNotFound)

	ok, _ := svc.IsFavorited(userID, "flow-1")
	assert.False(t, ok)
}
