package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

// The old data set smuggled commission settings inside the services array
// under a sentinel name. Settings are real columns now; the sentinel names
// stay reserved so imported tooling can never recreate the hack.
var reservedServiceNames = map[string]bool{
	"commission_settings":     true,
	"mws_commission_settings": true,
}

func isReservedServiceName(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	return reservedServiceNames[name] || strings.HasPrefix(name, "__")
}

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type ServiceFieldRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name" binding:"required"`
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Required bool   `json:"required"`
	Options  string `json:"options"`
}

type ServiceRequest struct {
	Name   string                `json:"name" binding:"required"`
	Fields []ServiceFieldRequest `json:"fields"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		Find(&services).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_services"})
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if isReservedServiceName(req.Name) {
		httperr.BadRequest(c, "reserved_service_name", "This service name is reserved.")
		return
	}

	svc := models.Service{
		ID:       uuid.NewString(),
		ClientID: clientID,
		Name:     req.Name,
		Fields:   buildFields("", req.Fields, nil),
	}
	for i := range svc.Fields {
		svc.Fields[i].ServiceID = svc.ID
	}

	if err := h.db.Create(&svc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_service"})
		return
	}

	c.JSON(http.StatusCreated, svc)
}

// Update replaces the field list. Fields that existed before keep their
// ids so stored lead answers stay addressable; new fields get fresh ones.
func (h *ServiceHandler) Update(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}
	serviceID := c.Param("id")

	var svc models.Service
	if err := h.db.
		Preload("Fields").
		Where("id = ? AND client_id = ?", serviceID, clientID).
		First(&svc).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Could not load the service.")
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	if isReservedServiceName(req.Name) {
		httperr.BadRequest(c, "reserved_service_name", "This service name is reserved.")
		return
	}

	existing := make(map[string]bool, len(svc.Fields))
	for _, f := range svc.Fields {
		existing[f.ID] = true
	}

	fields := buildFields(svc.ID, req.Fields, existing)

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", svc.ID).Delete(&models.ServiceField{}).Error; err != nil {
			return err
		}
		svc.Name = req.Name
		svc.Fields = nil
		if err := tx.Save(&svc).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Create(&fields).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not save the service.")
		return
	}

	svc.Fields = fields
	c.JSON(http.StatusOK, svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	clientID, ok := resolveClientID(c, h.db, "client_id")
	if !ok {
		return
	}
	serviceID := c.Param("id")

	res := h.db.Where("id = ? AND client_id = ?", serviceID, clientID).Delete(&models.Service{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_service", "Could not delete the service.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// buildFields assigns ids: requests carrying an id known to the service
// keep it, everything else gets a fresh uuid.
func buildFields(serviceID string, reqs []ServiceFieldRequest, existing map[string]bool) []models.ServiceField {
	fields := make([]models.ServiceField, 0, len(reqs))
	for i, fr := range reqs {
		id := fr.ID
		if id == "" || (existing != nil && !existing[id]) {
			id = uuid.NewString()
		}

		kind := fr.Kind
		if kind == "" {
			kind = models.FieldKindText
		}

		fields = append(fields, models.ServiceField{
			ID:        id,
			ServiceID: serviceID,
			Name:      fr.Name,
			Label:     fr.Label,
			Kind:      kind,
			Required:  fr.Required,
			Options:   fr.Options,
			Position:  i,
		})
	}
	return fields
}
