package notification

import (
	"context"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type Repository interface {
	CreateRows(
		ctx context.Context,
		rows []models.Notification,
	) error

	ListAll(
		ctx context.Context,
	) ([]models.Notification, error)

	// -------- Batch selection --------
	ListByBatchID(
		ctx context.Context,
		batchID string,
	) ([]models.Notification, error)

	ListByLegacyKey(
		ctx context.Context,
		key LegacyKey,
	) ([]models.Notification, error)

	// ReplaceRows deletes old and inserts fresh inside one transaction.
	ReplaceRows(
		ctx context.Context,
		old []models.Notification,
		fresh []models.Notification,
	) error

	DeleteRows(
		ctx context.Context,
		rows []models.Notification,
	) error
}
