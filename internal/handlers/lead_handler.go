package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/lead"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/middleware"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
	ucLead "github.com/moiseinternational-web/mws-lead-backup-2/internal/usecase/lead"
)

type LeadHandler struct {
	db       *gorm.DB
	createUC *ucLead.CreateLead
}

func NewLeadHandler(db *gorm.DB, createUC *ucLead.CreateLead) *LeadHandler {
	return &LeadHandler{db: db, createUC: createUC}
}

// --------- Requests ---------

type CreateLeadRequest struct {
	ServiceID       string         `json:"service_id" binding:"required"`
	Answers         models.JSONMap `json:"answers"`
	Value           float64        `json:"value"`
	AttributionDate *string        `json:"attribution_date"`
}

type UpdateLeadRequest struct {
	Status          *string         `json:"status,omitempty"`
	Value           *float64        `json:"value,omitempty"`
	Answers         *models.JSONMap `json:"answers,omitempty"`
	AttributionDate *string         `json:"attribution_date,omitempty"`
}

type AddNoteRequest struct {
	Body string `json:"body" binding:"required"`
}

// --------- Handlers ---------

func (h *LeadHandler) List(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}

	status := c.Query("status")

	q := h.db.Where("client_id = ?", clientID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			q = q.Where("created_at < ?", to.Add(24*time.Hour))
		}
	}

	var leads []models.Lead
	if err := q.Order("created_at DESC").Find(&leads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_leads"})
		return
	}

	c.JSON(http.StatusOK, leads)
}

func (h *LeadHandler) Create(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}

	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var attribution *time.Time
	if req.AttributionDate != nil && *req.AttributionDate != "" {
		t, err := time.Parse("2006-01-02", *req.AttributionDate)
		if err != nil {
			httperr.BadRequest(c, "invalid_attribution_date", "Attribution date must be YYYY-MM-DD.")
			return
		}
		attribution = &t
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)

	l, err := h.createUC.Execute(c.Request.Context(), ucLead.CreateLeadInput{
		ClientID:        clientID,
		ServiceID:       req.ServiceID,
		Answers:         req.Answers,
		Value:           req.Value,
		AttributionDate: attribution,
		ActorID:         actorID,
	})
	if err != nil {
		writeBusinessOrInternal(c, err, "failed_to_create_lead", "Could not create the lead.")
		return
	}

	c.JSON(http.StatusCreated, l)
}

func (h *LeadHandler) Get(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}
	leadID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var l models.Lead
	if err := h.db.
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Appointments", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_time ASC")
		}).
		Where("id = ? AND client_id = ?", leadID, clientID).
		First(&l).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "lead_not_found", "Lead not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_lead", "Could not load the lead.")
		return
	}

	c.JSON(http.StatusOK, l)
}

func (h *LeadHandler) Update(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}
	leadID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var l models.Lead
	if err := h.db.
		Where("id = ? AND client_id = ?", leadID, clientID).
		First(&l).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "lead_not_found", "Lead not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_lead", "Could not load the lead.")
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	if req.Status != nil {
		if !domain.IsValidStatus(*req.Status) {
			httperr.BadRequest(c, "invalid_status", "Unknown lead status.")
			return
		}
		l.Status = *req.Status
	}
	if req.Value != nil {
		l.Value = *req.Value
	}
	if req.AttributionDate != nil {
		if *req.AttributionDate == "" {
			l.AttributionDate = nil
		} else {
			t, err := time.Parse("2006-01-02", *req.AttributionDate)
			if err != nil {
				httperr.BadRequest(c, "invalid_attribution_date", "Attribution date must be YYYY-MM-DD.")
				return
			}
			l.AttributionDate = &t
		}
	}

	if req.Answers != nil {
		var svc models.Service
		if err := h.db.
			Preload("Fields").
			Where("id = ? AND client_id = ?", l.ServiceID, clientID).
			First(&svc).Error; err != nil {
			httperr.Internal(c, "failed_to_get_service", "Could not load the lead's service schema.")
			return
		}
		if err := domain.ValidateAnswers(&svc, *req.Answers); err != nil {
			writeBusinessOrInternal(c, err, "failed_to_update_lead", "Could not save the lead.")
			return
		}
		l.Answers = *req.Answers
	}

	if err := h.db.Save(&l).Error; err != nil {
		httperr.Internal(c, "failed_to_update_lead", "Could not save the lead.")
		return
	}

	c.JSON(http.StatusOK, l)
}

func (h *LeadHandler) Delete(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}
	leadID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND client_id = ?", leadID, clientID).Delete(&models.Lead{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("lead_id = ?", leadID).Delete(&models.LeadNote{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Appointment{}).
			Where("lead_id = ?", leadID).
			Update("lead_id", nil).Error
	})
	if err == gorm.ErrRecordNotFound {
		httperr.NotFound(c, "lead_not_found", "Lead not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_delete_lead", "Could not delete the lead.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// --------- Notes ---------

func (h *LeadHandler) AddNote(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}
	leadID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var count int64
	h.db.Model(&models.Lead{}).
		Where("id = ? AND client_id = ?", leadID, clientID).
		Count(&count)
	if count == 0 {
		httperr.NotFound(c, "lead_not_found", "Lead not found.")
		return
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Note body is required.")
		return
	}

	note := models.LeadNote{
		LeadID:   leadID,
		AuthorID: c.MustGet(middleware.ContextUserID).(uint),
		Body:     req.Body,
	}

	if err := h.db.Create(&note).Error; err != nil {
		httperr.Internal(c, "failed_to_create_note", "Could not save the note.")
		return
	}

	c.JSON(http.StatusCreated, note)
}

func (h *LeadHandler) DeleteNote(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}
	leadID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	noteID, ok := parseUintParam(c, "note_id")
	if !ok {
		return
	}

	res := h.db.
		Where("id = ? AND lead_id = ?", noteID, leadID).
		Where("lead_id IN (?)", h.db.Model(&models.Lead{}).
			Select("id").
			Where("client_id = ?", clientID)).
		Delete(&models.LeadNote{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_note", "Could not delete the note.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "note_not_found", "Note not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
