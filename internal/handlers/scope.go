package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/middleware"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

// clientForUser resolves the client account owned by a client-role login.
func clientForUser(db *gorm.DB, userID uint) (*models.Client, error) {
	var client models.Client
	if err := db.Where("user_id = ?", userID).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// resolveClientID returns the client a request may act on: admins name any
// client through the query/param, client logins are pinned to their own.
// Writes the error response itself and returns ok=false on failure.
func resolveClientID(c *gin.Context, db *gorm.DB, param string) (uint, bool) {
	role := c.MustGet(middleware.ContextUserRole).(string)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	if role == models.RoleClient {
		client, err := clientForUser(db, userID)
		if err != nil {
			httperr.NotFound(c, "client_not_found", "No client account is linked to this login.")
			return 0, false
		}
		return client.ID, true
	}

	raw := c.Param(param)
	if raw == "" {
		raw = c.Query(param)
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_client_id", "A valid client id is required.")
		return 0, false
	}
	return uint(id), true
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "A valid numeric id is required.")
		return 0, false
	}
	return uint(id), true
}
