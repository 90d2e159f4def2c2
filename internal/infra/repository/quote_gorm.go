package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/quote"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type QuoteGormRepository struct {
	db *gorm.DB
}

func NewQuoteGormRepository(db *gorm.DB) *QuoteGormRepository {
	return &QuoteGormRepository{db: db}
}

func (r *QuoteGormRepository) GetQuote(
	ctx context.Context,
	quoteID uint,
) (*models.Quote, error) {

	var q models.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Lead").
		First(&q, quoteID).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuoteGormRepository) GetClientByID(
	ctx context.Context,
	id uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *QuoteGormRepository) UpdateStatus(
	ctx context.Context,
	quoteID uint,
	status domain.Status,
	sentAt *time.Time,
) error {

	updates := map[string]any{"status": string(status)}
	if sentAt != nil {
		updates["sent_at"] = sentAt
	}

	return r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", quoteID).
		Updates(updates).Error
}

// Compile-time check
var _ domain.Repository = (*QuoteGormRepository)(nil)
