package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/middleware"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_not_found"})
		return
	}

	resp := gin.H{
		"user": gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"email":    user.Email,
			"username": user.Username,
			"phone":    user.Phone,
			"role":     user.Role,
			"status":   user.Status,
		},
	}

	if user.Role == models.RoleClient {
		if client, err := clientForUser(h.db, user.ID); err == nil {
			resp["client"] = client
		}
	}

	c.JSON(http.StatusOK, resp)
}
