package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/notification"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

func (r *NotificationGormRepository) CreateRows(
	ctx context.Context,
	rows []models.Notification,
) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *NotificationGormRepository) ListAll(
	ctx context.Context,
) ([]models.Notification, error) {

	var rows []models.Notification
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// --------------------------------------------------
// Batch selection
// --------------------------------------------------

func (r *NotificationGormRepository) ListByBatchID(
	ctx context.Context,
	batchID string,
) ([]models.Notification, error) {

	var rows []models.Notification
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByLegacyKey selects rows without a batch id whose timestamp falls in
// the same clock minute as the key and whose text matches exactly.
func (r *NotificationGormRepository) ListByLegacyKey(
	ctx context.Context,
	key domain.LegacyKey,
) ([]models.Notification, error) {

	start := key.Minute
	end := start.Add(time.Minute)

	var rows []models.Notification
	if err := r.db.WithContext(ctx).
		Where(
			"batch_id = '' AND title = ? AND message = ? AND created_at >= ? AND created_at < ?",
			key.Title, key.Message, start, end,
		).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// --------------------------------------------------
// Batch mutation
// --------------------------------------------------

func (r *NotificationGormRepository) ReplaceRows(
	ctx context.Context,
	old []models.Notification,
	fresh []models.Notification,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uint, 0, len(old))
		for i := range old {
			ids = append(ids, old[i].ID)
		}
		if len(ids) > 0 {
			if err := tx.Delete(&models.Notification{}, ids).Error; err != nil {
				return err
			}
		}
		if len(fresh) > 0 {
			if err := tx.Create(&fresh).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *NotificationGormRepository) DeleteRows(
	ctx context.Context,
	rows []models.Notification,
) error {

	if len(rows) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	return r.db.WithContext(ctx).Delete(&models.Notification{}, ids).Error
}

// Compile-time check
var _ domain.Repository = (*NotificationGormRepository)(nil)
