package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/audit"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/middleware"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/sessions"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/validators"
)

type UserAdminHandler struct {
	db    *gorm.DB
	store *sessions.Store
	audit *audit.Dispatcher
}

func NewUserAdminHandler(db *gorm.DB, store *sessions.Store, audit *audit.Dispatcher) *UserAdminHandler {
	return &UserAdminHandler{db: db, store: store, audit: audit}
}

// --------- Requests ---------

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required,oneof=admin client"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}

// --------- Handlers ---------

func (h *UserAdminHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	role := strings.TrimSpace(c.Query("role"))

	q := h.db.Model(&models.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(username) LIKE ?",
			like, like, like,
		)
	}

	var users []models.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserAdminHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look deliverable.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "email_already_exists", "A user with this email already exists.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         req.Role,
		Status:       models.UserStatusActive,
	}

	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_user"})
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "user_created",
		Entity:   "user",
		EntityID: &user.ID,
	})

	c.JSON(http.StatusCreated, user)
}

func (h *UserAdminHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_user", "Could not load the user.")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Role != nil {
		if *req.Role != models.RoleAdmin && *req.Role != models.RoleClient {
			httperr.BadRequest(c, "invalid_role", "Role must be admin or client.")
			return
		}
		user.Role = *req.Role
	}

	suspending := false
	if req.Status != nil {
		if *req.Status != models.UserStatusActive && *req.Status != models.UserStatusSuspended {
			httperr.BadRequest(c, "invalid_status", "Status must be active or suspended.")
			return
		}
		suspending = *req.Status == models.UserStatusSuspended && user.Status != models.UserStatusSuspended
		user.Status = *req.Status
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Could not save the user.")
		return
	}

	// Suspension takes effect immediately, not at token expiry.
	if suspending {
		_ = h.store.RevokeAllForUser(c.Request.Context(), user.ID, 25*time.Hour)
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "user_updated",
		Entity:   "user",
		EntityID: &user.ID,
	})

	c.JSON(http.StatusOK, user)
}

// Delete removes the user and, when a client account is linked, every row
// that account owns. The whole cascade runs in one transaction so a failed
// step leaves nothing half-deleted.
func (h *UserAdminHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)
	if id == actorID {
		httperr.BadRequest(c, "cannot_delete_self", "You cannot delete your own account.")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_user", "Could not load the user.")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		switch err := tx.Where("user_id = ?", user.ID).First(&client).Error; {
		case err == nil:
			if err := deleteClientData(tx, client.ID); err != nil {
				return err
			}
			if err := tx.Delete(&client).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No linked client account, only the user row goes.
		default:
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_user", "Could not delete the user and its data.")
		return
	}

	_ = h.store.RevokeAllForUser(c.Request.Context(), user.ID, 25*time.Hour)

	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "user_deleted",
		Entity:   "user",
		EntityID: &user.ID,
	})

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
