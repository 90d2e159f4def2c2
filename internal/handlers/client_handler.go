package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/audit"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/middleware"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/sessions"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/timezone"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/validators"
)

type ClientHandler struct {
	db    *gorm.DB
	store *sessions.Store
	audit *audit.Dispatcher
}

func NewClientHandler(db *gorm.DB, store *sessions.Store, audit *audit.Dispatcher) *ClientHandler {
	return &ClientHandler{db: db, store: store, audit: audit}
}

// --------- Requests ---------

type CreateClientRequest struct {
	BusinessName string `json:"business_name" binding:"required"`
	ContactName  string `json:"contact_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`

	QuoteWebhookURL string `json:"quote_webhook_url"`
	Timezone        string `json:"timezone"`

	CommissionFee float64 `json:"commission_fee"`
	ProfitPercent float64 `json:"profit_percent"`

	// Login created alongside the client.
	UserName     string `json:"user_name" binding:"required"`
	UserEmail    string `json:"user_email" binding:"required,email"`
	UserPassword string `json:"user_password" binding:"required,min=6"`
}

type UpdateClientRequest struct {
	BusinessName    *string  `json:"business_name,omitempty"`
	ContactName     *string  `json:"contact_name,omitempty"`
	Phone           *string  `json:"phone,omitempty"`
	Email           *string  `json:"email,omitempty"`
	QuoteWebhookURL *string  `json:"quote_webhook_url,omitempty"`
	Timezone        *string  `json:"timezone,omitempty"`
	CommissionFee   *float64 `json:"commission_fee,omitempty"`
	ProfitPercent   *float64 `json:"profit_percent,omitempty"`
}

// --------- Handlers ---------

func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Preload("User")
	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(business_name) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.Order("created_at DESC").Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_clients"})
		return
	}

	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	userEmail := strings.ToLower(strings.TrimSpace(req.UserEmail))

	if !validators.IsEmailDomainValid(userEmail) {
		httperr.BadRequest(c, "invalid_email_domain", "The login email domain does not look deliverable.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", userEmail).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "email_already_exists", "A user with this email already exists.")
		return
	}

	if req.Timezone != "" && !timezone.IsValid(req.Timezone) {
		httperr.BadRequest(c, "invalid_timezone", "Unknown timezone name.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.UserPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	var client models.Client

	// Login and client account are one unit: neither exists without the other.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Name:         req.UserName,
			Email:        userEmail,
			PasswordHash: string(hashed),
			Role:         models.RoleClient,
			Status:       models.UserStatusActive,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		client = models.Client{
			UserID:          user.ID,
			BusinessName:    req.BusinessName,
			ContactName:     req.ContactName,
			Phone:           req.Phone,
			Email:           req.Email,
			QuoteWebhookURL: req.QuoteWebhookURL,
			Timezone:        req.Timezone,
			CommissionFee:   req.CommissionFee,
			ProfitPercent:   req.ProfitPercent,
		}
		return tx.Create(&client).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_client"})
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "client_created",
		Entity:   "client",
		EntityID: &client.ID,
	})

	c.JSON(http.StatusCreated, client)
}

// Get returns the client with its leads, ad spends and appointments merged
// into one aggregate. The three collections are independent, so they are
// fetched concurrently and awaited together.
func (h *ClientHandler) Get(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}

	var client models.Client
	if err := h.db.
		Preload("User").
		Preload("Services.Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&client, clientID).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "client_not_found", "Client not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_client", "Could not load the client.")
		return
	}

	var (
		leads        []models.Lead
		spends       []models.AdSpend
		appointments []models.Appointment
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		return h.db.WithContext(ctx).
			Preload("Notes").
			Where("client_id = ?", clientID).
			Order("created_at DESC").
			Find(&leads).Error
	})
	g.Go(func() error {
		return h.db.WithContext(ctx).
			Where("client_id = ?", clientID).
			Order("spend_date DESC").
			Find(&spends).Error
	})
	g.Go(func() error {
		return h.db.WithContext(ctx).
			Where("client_id = ?", clientID).
			Order("start_time ASC").
			Find(&appointments).Error
	})
	if err := g.Wait(); err != nil {
		httperr.Internal(c, "failed_to_get_client_data", "Could not load the client's data.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client":       client,
		"leads":        leads,
		"ad_spends":    spends,
		"appointments": appointments,
	})
}

func (h *ClientHandler) Update(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}

	var client models.Client
	if err := h.db.First(&client, clientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "client_not_found", "Client not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_client", "Could not load the client.")
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	role := c.MustGet(middleware.ContextUserRole).(string)

	if req.BusinessName != nil {
		client.BusinessName = *req.BusinessName
	}
	if req.ContactName != nil {
		client.ContactName = *req.ContactName
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.QuoteWebhookURL != nil {
		client.QuoteWebhookURL = *req.QuoteWebhookURL
	}
	if req.Timezone != nil {
		if *req.Timezone != "" && !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone name.")
			return
		}
		client.Timezone = *req.Timezone
	}

	// Commission terms are the agency's side of the contract.
	if req.CommissionFee != nil || req.ProfitPercent != nil {
		if role != models.RoleAdmin {
			httperr.Forbidden(c, "forbidden", "Only admins may change commission terms.")
			return
		}
		if req.CommissionFee != nil {
			client.CommissionFee = *req.CommissionFee
		}
		if req.ProfitPercent != nil {
			if *req.ProfitPercent < 0 || *req.ProfitPercent > 100 {
				httperr.BadRequest(c, "invalid_profit_percent", "Profit percentage must be between 0 and 100.")
				return
			}
			client.ProfitPercent = *req.ProfitPercent
		}
	}

	if err := h.db.Save(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_update_client", "Could not save the client.")
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "client_updated",
		Entity:   "client",
		EntityID: &client.ID,
	})

	c.JSON(http.StatusOK, client)
}

// Delete removes the client, everything it owns and its login in one
// transaction, so no orphaned user is left able to sign in.
func (h *ClientHandler) Delete(c *gin.Context) {
	clientID, ok := parseUintParam(c, "client_id")
	if !ok {
		return
	}

	var client models.Client
	if err := h.db.First(&client, clientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "client_not_found", "Client not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_client", "Could not load the client.")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteClientData(tx, client.ID); err != nil {
			return err
		}
		if err := tx.Delete(&client).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", client.UserID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, client.UserID).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_client", "Could not delete the client and its data.")
		return
	}

	_ = h.store.RevokeAllForUser(c.Request.Context(), client.UserID, 25*time.Hour)

	actorID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "client_deleted",
		Entity:   "client",
		EntityID: &client.ID,
	})

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// deleteClientData removes every row owned by one client. Runs inside the
// caller's transaction.
func deleteClientData(tx *gorm.DB, clientID uint) error {
	var leadIDs []uint
	if err := tx.Model(&models.Lead{}).
		Where("client_id = ?", clientID).
		Pluck("id", &leadIDs).Error; err != nil {
		return err
	}

	if len(leadIDs) > 0 {
		if err := tx.Where("lead_id IN ?", leadIDs).Delete(&models.LeadNote{}).Error; err != nil {
			return err
		}
		var quoteIDs []uint
		if err := tx.Model(&models.Quote{}).
			Where("lead_id IN ?", leadIDs).
			Pluck("id", &quoteIDs).Error; err != nil {
			return err
		}
		if len(quoteIDs) > 0 {
			if err := tx.Where("quote_id IN ?", quoteIDs).Delete(&models.QuoteItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Quote{}, quoteIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.Lead{}, leadIDs).Error; err != nil {
			return err
		}
	}

	for _, m := range []any{
		&models.Appointment{},
		&models.AdSpend{},
		&models.MwsMonthlyRevenue{},
	} {
		if err := tx.Where("client_id = ?", clientID).Delete(m).Error; err != nil {
			return err
		}
	}

	var serviceIDs []string
	if err := tx.Model(&models.Service{}).
		Where("client_id = ?", clientID).
		Pluck("id", &serviceIDs).Error; err != nil {
		return err
	}
	if len(serviceIDs) > 0 {
		if err := tx.Where("service_id IN ?", serviceIDs).Delete(&models.ServiceField{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", serviceIDs).Delete(&models.Service{}).Error; err != nil {
			return err
		}
	}

	return nil
}
