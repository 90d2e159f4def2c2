package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/revenue"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httpresp"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/middleware"
	ucRevenue "github.com/moiseinternational-web/mws-lead-backup-2/internal/usecase/revenue"
)

type RevenueHandler struct {
	db        *gorm.DB
	repo      domain.Repository
	computeUC *ucRevenue.ComputeMonthly
	paymentUC *ucRevenue.RecordPayment
}

func NewRevenueHandler(
	db *gorm.DB,
	repo domain.Repository,
	computeUC *ucRevenue.ComputeMonthly,
	paymentUC *ucRevenue.RecordPayment,
) *RevenueHandler {
	return &RevenueHandler{
		db:        db,
		repo:      repo,
		computeUC: computeUC,
		paymentUC: paymentUC,
	}
}

// --------- Requests ---------

type RecordPaymentRequest struct {
	Month   string  `json:"month" binding:"required"` // "2006-01"
	PayFull bool    `json:"pay_full"`
	Amount  float64 `json:"amount"`
}

// --------- Handlers ---------

func (h *RevenueHandler) parseComputeInput(c *gin.Context) (ucRevenue.ComputeInput, bool) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return ucRevenue.ComputeInput{}, false
	}

	in := ucRevenue.ComputeInput{ClientID: clientID}

	monthStr := c.Query("month")
	if monthStr == "" {
		now := time.Now()
		in.Year, in.Month = now.Year(), now.Month()
	} else {
		t, err := time.Parse("2006-01", monthStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_month", "month must be YYYY-MM.")
			return ucRevenue.ComputeInput{}, false
		}
		in.Year, in.Month = t.Year(), t.Month()
	}

	// Optional explicit window overriding the calendar month.
	if fromStr, toStr := c.Query("from"), c.Query("to"); fromStr != "" && toStr != "" {
		from, err1 := time.Parse("2006-01-02", fromStr)
		to, err2 := time.Parse("2006-01-02", toStr)
		if err1 != nil || err2 != nil || to.Before(from) {
			httperr.BadRequest(c, "invalid_window", "from/to must be YYYY-MM-DD with from <= to.")
			return ucRevenue.ComputeInput{}, false
		}
		in.Start = from
		in.End = to.Add(24*time.Hour - time.Nanosecond)
	}

	return in, true
}

// Compute previews the commission without persisting anything.
func (h *RevenueHandler) Compute(c *gin.Context) {
	in, ok := h.parseComputeInput(c)
	if !ok {
		return
	}

	out, err := h.computeUC.Execute(c.Request.Context(), in)
	if err != nil {
		writeBusinessOrInternal(c, err, "failed_to_compute_revenue", "Could not compute the revenue.")
		return
	}

	httpresp.OK(c, out)
}

func (h *RevenueHandler) Save(c *gin.Context) {
	in, ok := h.parseComputeInput(c)
	if !ok {
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)

	row, err := h.computeUC.Save(c.Request.Context(), in, actorID)
	if err != nil {
		writeBusinessOrInternal(c, err, "failed_to_save_revenue", "Could not save the revenue.")
		return
	}

	httpresp.OK(c, row)
}

func (h *RevenueHandler) ListForClient(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}

	rows, err := h.repo.ListMonthlyForClient(c.Request.Context(), clientID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_revenue", "Could not list revenue rows.")
		return
	}

	httpresp.List(c, rows)
}

// MonthlySummary lists the stored commission rows of every client for one
// month.
func (h *RevenueHandler) MonthlySummary(c *gin.Context) {
	monthStr := c.Query("month")
	t, err := time.Parse("2006-01", monthStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "month must be YYYY-MM.")
		return
	}

	rows, err := h.repo.ListMonthlyForMonth(
		c.Request.Context(),
		domain.MonthKey(t.Year(), t.Month()),
	)
	if err != nil {
		httperr.Internal(c, "failed_to_list_revenue", "Could not list revenue rows.")
		return
	}

	httpresp.List(c, rows)
}

func (h *RevenueHandler) RecordPayment(c *gin.Context) {
	clientIDRaw := c.Param("client_id")
	clientID, err := strconv.ParseUint(clientIDRaw, 10, 32)
	if err != nil || clientID == 0 {
		httperr.BadRequest(c, "invalid_client_id", "A valid client id is required.")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	month, err := parseMonth(req.Month)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "month must be YYYY-MM.")
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)

	row, err := h.paymentUC.Execute(c.Request.Context(), ucRevenue.RecordPaymentInput{
		ClientID: uint(clientID),
		Month:    month,
		PayFull:  req.PayFull,
		Amount:   req.Amount,
		ActorID:  actorID,
	})
	if err != nil {
		writeBusinessOrInternal(c, err, "failed_to_record_payment", "Could not record the payment.")
		return
	}

	httpresp.OK(c, row)
}
