package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type AppointmentHandler struct {
	db *gorm.DB
}

func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{db: db}
}

// --------- Requests ---------

type CreateAppointmentRequest struct {
	LeadID   *uint  `json:"lead_id"`
	Title    string `json:"title" binding:"required"`
	Location string `json:"location"`
	Notes    string `json:"notes"`

	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time"`
}

type UpdateAppointmentRequest struct {
	Title    *string `json:"title,omitempty"`
	Location *string `json:"location,omitempty"`
	Notes    *string `json:"notes,omitempty"`

	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}

// --------- Handlers ---------

// ListByMonth powers the calendar view: all appointments of one client
// whose start falls inside the given month, in that client's timezone.
func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}

	var client models.Client
	if err := h.db.First(&client, clientID).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Client not found.")
		return
	}

	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))
	if year < 2000 || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "year and month query params are required.")
		return
	}

	loc := locationFromClient(&client)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	var appointments []models.Appointment
	if err := h.db.
		Where("client_id = ? AND start_time >= ? AND start_time < ?", clientID, start, end).
		Order("start_time ASC").
		Find(&appointments).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_appointments"})
		return
	}

	c.JSON(http.StatusOK, appointments)
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}

	var client models.Client
	if err := h.db.First(&client, clientID).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Client not found.")
		return
	}

	day, err := parseDateInClient(&client, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "date must be YYYY-MM-DD.")
		return
	}

	var appointments []models.Appointment
	if err := h.db.
		Where("client_id = ? AND start_time >= ? AND start_time < ?",
			clientID, day, day.Add(24*time.Hour)).
		Order("start_time ASC").
		Find(&appointments).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_appointments"})
		return
	}

	c.JSON(http.StatusOK, appointments)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}

	var client models.Client
	if err := h.db.First(&client, clientID).Error; err != nil {
		httperr.NotFound(c, "client_not_found", "Client not found.")
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.LeadID != nil {
		var count int64
		h.db.Model(&models.Lead{}).
			Where("id = ? AND client_id = ?", *req.LeadID, clientID).
			Count(&count)
		if count == 0 {
			httperr.BadRequest(c, "lead_not_found", "The lead does not belong to this client.")
			return
		}
	}

	loc := locationFromClient(&client)

	start, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.StartTime, loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "date must be YYYY-MM-DD and start_time HH:MM.")
		return
	}

	end := start.Add(time.Hour)
	if req.EndTime != "" {
		end, err = time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.EndTime, loc)
		if err != nil || !end.After(start) {
			httperr.BadRequest(c, "invalid_end_time", "end_time must be HH:MM after start_time.")
			return
		}
	}

	ap := models.Appointment{
		ClientID:  clientID,
		LeadID:    req.LeadID,
		Title:     req.Title,
		Location:  req.Location,
		Notes:     req.Notes,
		StartTime: start,
		EndTime:   end,
	}

	if err := h.db.Create(&ap).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_appointment"})
		return
	}

	c.JSON(http.StatusCreated, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var ap models.Appointment
	if err := h.db.
		Where("id = ? AND client_id = ?", id, clientID).
		First(&ap).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_appointment", "Could not load the appointment.")
		return
	}

	var client models.Client
	if err := h.db.First(&client, clientID).Error; err != nil {
		httperr.Internal(c, "failed_to_get_client", "Could not load the client.")
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	if req.Title != nil {
		ap.Title = *req.Title
	}
	if req.Location != nil {
		ap.Location = *req.Location
	}
	if req.Notes != nil {
		ap.Notes = *req.Notes
	}

	if req.Date != nil || req.StartTime != nil || req.EndTime != nil {
		loc := locationFromClient(&client)

		date := ap.StartTime.In(loc).Format("2006-01-02")
		if req.Date != nil {
			date = *req.Date
		}
		startStr := ap.StartTime.In(loc).Format("15:04")
		if req.StartTime != nil {
			startStr = *req.StartTime
		}
		endStr := ap.EndTime.In(loc).Format("15:04")
		if req.EndTime != nil {
			endStr = *req.EndTime
		}

		start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+startStr, loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "date must be YYYY-MM-DD and start_time HH:MM.")
			return
		}
		end, err := time.ParseInLocation("2006-01-02 15:04", date+" "+endStr, loc)
		if err != nil || !end.After(start) {
			httperr.BadRequest(c, "invalid_end_time", "end_time must be HH:MM after start_time.")
			return
		}

		ap.StartTime = start
		ap.EndTime = end
	}

	if err := h.db.Save(&ap).Error; err != nil {
		httperr.Internal(c, "failed_to_update_appointment", "Could not save the appointment.")
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	res := h.db.Where("id = ? AND client_id = ?", id, clientID).Delete(&models.Appointment{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_appointment", "Could not delete the appointment.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
