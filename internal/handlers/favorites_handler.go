package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"axiestudio/internal/models"
	"axiestudio/internal/services"
)

type FavoritesHandler struct {
	favorites services.FavoriteService
}

func NewFavoritesHandler(favorites services.FavoriteService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

// @Summary      Add favorite
// @Tags         Favorites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        favorite  body      models.FavoriteCreateRequest  true  "Item"
// @Success      201       {object}  models.UserFavorite
// @Failure      400       {object}  map[string]string
// @Router       /favorites [post]
func (h *FavoritesHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.FavoriteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fav, err := h.favorites.Add(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidItemType):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrFavoriteLimit):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Favorites limit reached"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		}
		return
	}
	c.JSON(http.StatusCreated, fav)
}

// @Summary      List favorites
// @Tags         Favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.UserFavorite
// @Router       /favorites [get]
func (h *FavoritesHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	favs, err := h.favorites.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list favorites"})
		return
	}
	if favs == nil {
		favs = []*models.UserFavorite{}
	}
	c.JSON(http.StatusOK, favs)
}

// @Summary      Remove favorite
// @Tags         Favorites
// @Security     BearerAuth
// @Param        item_id  path  string  true  "Item ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /favorites/{item_id} [delete]
func (h *FavoritesHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.favorites.Remove(userID, c.Param("item_id")); err != nil {
		if errors.Is(err, services.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Check favorite
// @Tags         Favorites
// @Produce      json
// @Security     BearerAuth
// @Param        item_id  path      string  true  "Item ID"
// @Success      200      {object}  map[string]bool
// @Router       /favorites/check/{item_id} [get]
func (h *FavoritesHandler) Check(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	favorited, err := h.favorites.IsFavorited(userID, c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}
