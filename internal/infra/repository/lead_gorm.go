package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/lead"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type LeadGormRepository struct {
	db *gorm.DB
}

func NewLeadGormRepository(db *gorm.DB) *LeadGormRepository {
	return &LeadGormRepository{db: db}
}

// --------------------------------------------------
// Client / schema
// --------------------------------------------------

func (r *LeadGormRepository) GetClientByID(
	ctx context.Context,
	id uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *LeadGormRepository) GetService(
	ctx context.Context,
	clientID uint,
	serviceID string,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ? AND client_id = ?", serviceID, clientID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// --------------------------------------------------
// Lead
// --------------------------------------------------

func (r *LeadGormRepository) CreateLead(
	ctx context.Context,
	l *models.Lead,
) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// --------------------------------------------------
// Notification fan-out
// --------------------------------------------------

func (r *LeadGormRepository) ListAdminUsers(
	ctx context.Context,
) ([]models.User, error) {

	var admins []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ? AND status = ?", models.RoleAdmin, models.UserStatusActive).
		Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *LeadGormRepository) CreateNotifications(
	ctx context.Context,
	rows []models.Notification,
) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// Compile-time check
var _ domain.Repository = (*LeadGormRepository)(nil)
