package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/notification"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httpresp"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/middleware"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
	ucNotif "github.com/moiseinternational-web/mws-lead-backup-2/internal/usecase/notification"
)

type NotificationHandler struct {
	db       *gorm.DB
	repo     domain.Repository
	sendUC   *ucNotif.SendBatch
	updateUC *ucNotif.UpdateBatch
	deleteUC *ucNotif.DeleteBatch
}

func NewNotificationHandler(
	db *gorm.DB,
	repo domain.Repository,
	sendUC *ucNotif.SendBatch,
	updateUC *ucNotif.UpdateBatch,
	deleteUC *ucNotif.DeleteBatch,
) *NotificationHandler {
	return &NotificationHandler{
		db:       db,
		repo:     repo,
		sendUC:   sendUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
	}
}

// --------- Requests ---------

type SendBatchRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message"`
	LeadID  *uint  `json:"lead_id"`

	// Explicit recipient user ids, or all_clients / all to fan out wide.
	Recipients []uint `json:"recipients"`
	Audience   string `json:"audience"`
}

type BatchRefRequest struct {
	BatchID string `json:"batch_id"`

	Title   string `json:"title"`
	Message string `json:"message"`
	Minute  string `json:"minute"` // RFC3339, legacy rows only
}

type UpdateBatchRequest struct {
	Ref BatchRefRequest `json:"ref" binding:"required"`

	Title   string `json:"title" binding:"required"`
	Message string `json:"message"`
}

// --------- My notifications ---------

func (h *NotificationHandler) ListMine(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var rows []models.Notification
	if err := h.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(200).
		Find(&rows).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_notifications"})
		return
	}

	var unread int64
	h.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = false", userID).
		Count(&unread)

	c.JSON(http.StatusOK, gin.H{
		"notifications": rows,
		"unread":        unread,
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	res := h.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_mark_read", "Could not update the notification.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "notification_not_found", "Notification not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	if err := h.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = false", userID).
		Update("read", true).Error; err != nil {

		httperr.Internal(c, "failed_to_mark_read", "Could not update notifications.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

// --------- Admin batches ---------

func (h *NotificationHandler) ListBatches(c *gin.Context) {
	rows, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_batches", "Could not list notification batches.")
		return
	}

	httpresp.List(c, domain.Group(rows))
}

func (h *NotificationHandler) SendBatch(c *gin.Context) {
	var req SendBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	recipients := req.Recipients
	if len(recipients) == 0 && req.Audience != "" {
		var err error
		recipients, err = h.audienceUserIDs(req.Audience)
		if err != nil {
			httperr.BadRequest(c, "invalid_audience", "Audience must be all or all_clients.")
			return
		}
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)

	batch, err := h.sendUC.Execute(c.Request.Context(), ucNotif.SendBatchInput{
		Title:      req.Title,
		Message:    req.Message,
		LeadID:     req.LeadID,
		Recipients: recipients,
		ActorID:    actorID,
	})
	if err != nil {
		writeBusinessOrInternal(c, err, "failed_to_send_batch", "Could not send the notification batch.")
		return
	}

	c.JSON(http.StatusCreated, batch)
}

func (h *NotificationHandler) UpdateBatch(c *gin.Context) {
	var req UpdateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	ref, ok := h.parseRef(c, req.Ref)
	if !ok {
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)

	batch, err := h.updateUC.Execute(c.Request.Context(), ucNotif.UpdateBatchInput{
		Ref:     ref,
		Title:   req.Title,
		Message: req.Message,
		ActorID: actorID,
	})
	if err != nil {
		writeBusinessOrInternal(c, err, "failed_to_update_batch", "Could not update the notification batch.")
		return
	}

	c.JSON(http.StatusOK, batch)
}

func (h *NotificationHandler) DeleteBatch(c *gin.Context) {
	var req BatchRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	ref, ok := h.parseRef(c, req)
	if !ok {
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)

	removed, err := h.deleteUC.Execute(c.Request.Context(), ref, actorID)
	if err != nil {
		writeBusinessOrInternal(c, err, "failed_to_delete_batch", "Could not delete the notification batch.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted", "rows": removed})
}

// --------- Helpers ---------

func (h *NotificationHandler) parseRef(c *gin.Context, req BatchRefRequest) (ucNotif.BatchRef, bool) {
	if req.BatchID != "" {
		return ucNotif.BatchRef{BatchID: req.BatchID}, true
	}

	if req.Title == "" || req.Minute == "" {
		httperr.BadRequest(c, "invalid_batch_ref", "Provide batch_id, or title and minute for legacy rows.")
		return ucNotif.BatchRef{}, false
	}

	minute, err := time.Parse(time.RFC3339, req.Minute)
	if err != nil {
		httperr.BadRequest(c, "invalid_batch_ref", "minute must be RFC3339.")
		return ucNotif.BatchRef{}, false
	}

	return ucNotif.BatchRef{
		Title:   req.Title,
		Message: req.Message,
		Minute:  minute,
	}, true
}

func (h *NotificationHandler) audienceUserIDs(audience string) ([]uint, error) {
	q := h.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive)

	switch audience {
	case "all":
	case "all_clients":
		q = q.Where("role = ?", models.RoleClient)
	default:
		return nil, gorm.ErrInvalidData
	}

	var ids []uint
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
