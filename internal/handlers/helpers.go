package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUserID pulls the authenticated user's id out of the gin context,
// tolerating both string and uuid values.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return uuid.Nil, false
	}
	switch t := v.(type) {
	case uuid.UUID:
		return t, true
	case string:
		if id, err := uuid.Parse(t); err == nil {
			return id, true
		}
	}
	return uuid.Nil, false
}
