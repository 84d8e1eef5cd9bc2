package models

import (
	"time"

	"github.com/google/uuid"
)

// item types accepted by the showcase favorites feature
const (
	FavoriteItemFlow      = "FLOW"
	FavoriteItemComponent = "COMPONENT"
)

type UserFavorite struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	ItemID          string    `json:"item_id"`
	ItemType        string    `json:"item_type"`
	ItemName        string    `json:"item_name"`
	ItemDescription *string   `json:"item_description,omitempty"`
	ItemAuthor      *string   `json:"item_author,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type FavoriteCreateRequest struct {
	ItemID          string  `json:"item_id" binding:"required"`
	ItemType        string  `json:"item_type" binding:"required"`
	ItemName        string  `json:"item_name" binding:"required"`
	ItemDescription *string `json:"item_description"`
	ItemAuthor      *string `json:"item_author"`
}
