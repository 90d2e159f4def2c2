package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type AdSpendHandler struct {
	db *gorm.DB
}

func NewAdSpendHandler(db *gorm.DB) *AdSpendHandler {
	return &AdSpendHandler{db: db}
}

// --------- Requests ---------

type CreateAdSpendRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	SpendDate string  `json:"spend_date" binding:"required"`
	Note      string  `json:"note"`
}

type UpdateAdSpendRequest struct {
	Amount    *float64 `json:"amount,omitempty"`
	SpendDate *string  `json:"spend_date,omitempty"`
	Note      *string  `json:"note,omitempty"`
}

// --------- Handlers ---------

func (h *AdSpendHandler) List(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}

	q := h.db.Where("client_id = ?", clientID)

	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			q = q.Where("spend_date >= ?", from)
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			q = q.Where("spend_date < ?", to.Add(24*time.Hour))
		}
	}

	var spends []models.AdSpend
	if err := q.Order("spend_date DESC").Find(&spends).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_ad_spends"})
		return
	}

	c.JSON(http.StatusOK, spends)
}

func (h *AdSpendHandler) Create(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}

	var req CreateAdSpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	date, err := time.Parse("2006-01-02", req.SpendDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_spend_date", "Spend date must be YYYY-MM-DD.")
		return
	}

	spend := models.AdSpend{
		ClientID:  clientID,
		Amount:    req.Amount,
		SpendDate: date,
		Note:      req.Note,
	}

	if err := h.db.Create(&spend).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_ad_spend"})
		return
	}

	c.JSON(http.StatusCreated, spend)
}

func (h *AdSpendHandler) Update(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var spend models.AdSpend
	if err := h.db.
		Where("id = ? AND client_id = ?", id, clientID).
		First(&spend).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "ad_spend_not_found", "Ad spend not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_ad_spend", "Could not load the ad spend.")
		return
	}

	var req UpdateAdSpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	if req.Amount != nil {
		if *req.Amount <= 0 {
			httperr.BadRequest(c, "invalid_amount", "Amount must be positive.")
			return
		}
		spend.Amount = *req.Amount
	}
	if req.SpendDate != nil {
		date, err := time.Parse("2006-01-02", *req.SpendDate)
		if err != nil {
			httperr.BadRequest(c, "invalid_spend_date", "Spend date must be YYYY-MM-DD.")
			return
		}
		spend.SpendDate = date
	}
	if req.Note != nil {
		spend.Note = *req.Note
	}

	if err := h.db.Save(&spend).Error; err != nil {
		httperr.Internal(c, "failed_to_update_ad_spend", "Could not save the ad spend.")
		return
	}

	c.JSON(http.StatusOK, spend)
}

func (h *AdSpendHandler) Delete(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	res := h.db.Where("id = ? AND client_id = ?", id, clientID).Delete(&models.AdSpend{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_ad_spend", "Could not delete the ad spend.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "ad_spend_not_found", "Ad spend not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
