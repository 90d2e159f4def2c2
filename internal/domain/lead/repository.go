package lead

import (
	"context"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type Repository interface {
	// -------- Client / schema --------
	GetClientByID(
		ctx context.Context,
		id uint,
	) (*models.Client, error)

	GetService(
		ctx context.Context,
		clientID uint,
		serviceID string,
	) (*models.Service, error)

	// -------- Lead --------
	CreateLead(
		ctx context.Context,
		l *models.Lead,
	) error

	// -------- Notification fan-out --------
	ListAdminUsers(
		ctx context.Context,
	) ([]models.User, error)

	CreateNotifications(
		ctx context.Context,
		rows []models.Notification,
	) error
}
