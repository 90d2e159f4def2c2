package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/quote"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/dto"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httpresp"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/middleware"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
	ucQuote "github.com/moiseinternational-web/mws-lead-backup-2/internal/usecase/quote"
)

type QuoteHandler struct {
	db     *gorm.DB
	sendUC *ucQuote.SendQuote
}

func NewQuoteHandler(db *gorm.DB, sendUC *ucQuote.SendQuote) *QuoteHandler {
	return &QuoteHandler{db: db, sendUC: sendUC}
}

// --------- Requests ---------

type QuoteItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type CreateQuoteRequest struct {
	LeadID uint               `json:"lead_id" binding:"required"`
	Items  []QuoteItemRequest `json:"items" binding:"required,min=1"`
}

type UpdateQuoteRequest struct {
	Items []QuoteItemRequest `json:"items" binding:"required,min=1"`
}

// --------- Handlers ---------

// List returns quotes enriched with lead and client details, the flattened
// shape the old all-quotes procedure produced.
func (h *QuoteHandler) List(c *gin.Context) {
	role := c.MustGet(middleware.ContextUserRole).(string)

	q := h.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Lead")

	if role == models.RoleClient {
		clientID, ok := resolveClientID(c, h.db, "client_id")
		if !ok {
			return
		}
		q = q.Where("client_id = ?", clientID)
	} else if raw := c.Query("client_id"); raw != "" {
		q = q.Where("client_id = ?", raw)
	}

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var quotes []models.Quote
	if err := q.Order("created_at DESC").Find(&quotes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_quotes"})
		return
	}

	clientNames := map[uint]string{}
	var clients []models.Client
	if err := h.db.Find(&clients).Error; err == nil {
		for _, cl := range clients {
			clientNames[cl.ID] = cl.BusinessName
		}
	}

	out := make([]dto.QuoteListDTO, 0, len(quotes))
	for _, qt := range quotes {
		out = append(out, dto.QuoteListDTO{
			ID:           qt.ID,
			Status:       qt.Status,
			Total:        qt.Total,
			LeadID:       qt.LeadID,
			LeadStatus:   qt.Lead.Status,
			ClientID:     qt.ClientID,
			BusinessName: clientNames[qt.ClientID],
			ItemCount:    len(qt.Items),
			SentAt:       qt.SentAt,
			CreatedAt:    qt.CreatedAt,
		})
	}

	httpresp.List(c, out)
}

func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var qt models.Quote
	if err := h.scoped(c).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Lead").
		First(&qt, "quotes.id = ?", id).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "quote_not_found", "Quote not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_quote", "Could not load the quote.")
		return
	}

	c.JSON(http.StatusOK, qt)
}

// Create inserts the quote and all of its items in one transaction: either
// the full quote exists or nothing does.
func (h *QuoteHandler) Create(c *gin.Context) {
	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var lead models.Lead
	if err := h.db.First(&lead, req.LeadID).Error; err != nil {
		httperr.NotFound(c, "lead_not_found", "Lead not found.")
		return
	}

	qt := models.Quote{
		LeadID:   lead.ID,
		ClientID: lead.ClientID,
		Status:   string(domain.InitialStatus()),
		Items:    buildQuoteItems(req.Items),
	}
	for _, it := range qt.Items {
		qt.Total += it.Amount
	}

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&qt).Error
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_quote"})
		return
	}

	c.JSON(http.StatusCreated, qt)
}

// Update replaces the item list; only drafts can change.
func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var qt models.Quote
	if err := h.db.First(&qt, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "quote_not_found", "Quote not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_quote", "Could not load the quote.")
		return
	}

	if err := domain.CanEdit(domain.Status(qt.Status)); err != nil {
		httperr.BadRequest(c, "invalid_state", "Only draft quotes can be edited.")
		return
	}

	var req UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	items := buildQuoteItems(req.Items)
	var total float64
	for _, it := range items {
		total += it.Amount
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", qt.ID).Delete(&models.QuoteItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].QuoteID = qt.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		qt.Total = total
		qt.Items = nil
		return tx.Save(&qt).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_quote", "Could not save the quote.")
		return
	}

	qt.Items = items
	c.JSON(http.StatusOK, qt)
}

func (h *QuoteHandler) Accept(c *gin.Context) {
	h.transition(c, domain.CanAccept, domain.StatusAccepted)
}

func (h *QuoteHandler) Reject(c *gin.Context) {
	h.transition(c, domain.CanReject, domain.StatusRejected)
}

func (h *QuoteHandler) transition(
	c *gin.Context,
	guard func(domain.Status) error,
	next domain.Status,
) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var qt models.Quote
	if err := h.scoped(c).First(&qt, "quotes.id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "quote_not_found", "Quote not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_quote", "Could not load the quote.")
		return
	}

	if err := guard(domain.Status(qt.Status)); err != nil {
		httperr.BadRequest(c, "invalid_state", "The quote is not in a state that allows this change.")
		return
	}

	qt.Status = string(next)
	if err := h.db.Save(&qt).Error; err != nil {
		httperr.Internal(c, "failed_to_update_quote", "Could not save the quote.")
		return
	}

	c.JSON(http.StatusOK, qt)
}

func (h *QuoteHandler) Send(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)

	qt, err := h.sendUC.Execute(c.Request.Context(), id, actorID)
	if err != nil {
		if bc := httperr.BusinessCode(err); bc != "" {
			httperr.BadRequest(c, bc, err.Error())
			return
		}
		// Delivery failures carry the webhook's status and body.
		httperr.Write(c, http.StatusBadGateway, "webhook_delivery_failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, qt)
}

func (h *QuoteHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Quote{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("quote_id = ?", id).Delete(&models.QuoteItem{}).Error
	})
	if err == gorm.ErrRecordNotFound {
		httperr.NotFound(c, "quote_not_found", "Quote not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_delete_quote", "Could not delete the quote.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// scoped restricts quote access to the caller's own client for client
// logins; admins see everything.
func (h *QuoteHandler) scoped(c *gin.Context) *gorm.DB {
	role := c.MustGet(middleware.ContextUserRole).(string)
	if role != models.RoleClient {
		return h.db
	}
	userID := c.MustGet(middleware.ContextUserID).(uint)
	if client, err := clientForUser(h.db, userID); err == nil {
		return h.db.Where("quotes.client_id = ?", client.ID)
	}
	return h.db.Where("1 = 0")
}

func buildQuoteItems(reqs []QuoteItemRequest) []models.QuoteItem {
	items := make([]models.QuoteItem, 0, len(reqs))
	for i, ir := range reqs {
		qty := ir.Quantity
		if qty == 0 {
			qty = 1
		}
		items = append(items, models.QuoteItem{
			Position:    i,
			Description: ir.Description,
			Quantity:    qty,
			UnitPrice:   ir.UnitPrice,
			Amount:      qty * ir.UnitPrice,
		})
	}
	return items
}
