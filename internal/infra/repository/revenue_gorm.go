package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/revenue"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type RevenueGormRepository struct {
	db *gorm.DB
}

func NewRevenueGormRepository(db *gorm.DB) *RevenueGormRepository {
	return &RevenueGormRepository{db: db}
}

func (r *RevenueGormRepository) GetClientByID(
	ctx context.Context,
	id uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *RevenueGormRepository) ListLeads(
	ctx context.Context,
	clientID uint,
) ([]models.Lead, error) {

	var leads []models.Lead
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *RevenueGormRepository) ListAdSpends(
	ctx context.Context,
	clientID uint,
) ([]models.AdSpend, error) {

	var spends []models.AdSpend
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Find(&spends).Error; err != nil {
		return nil, err
	}
	return spends, nil
}

// --------------------------------------------------
// Monthly rows
// --------------------------------------------------

func (r *RevenueGormRepository) GetMonthly(
	ctx context.Context,
	clientID uint,
	month time.Time,
) (*models.MwsMonthlyRevenue, error) {

	var row models.MwsMonthlyRevenue
	if err := r.db.WithContext(ctx).
		Where("client_id = ? AND month = ?", clientID, month).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *RevenueGormRepository) UpsertMonthly(
	ctx context.Context,
	row *models.MwsMonthlyRevenue,
) error {

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "client_id"},
				{Name: "month"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"revenue_amount",
				"status",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *RevenueGormRepository) SaveMonthly(
	ctx context.Context,
	row *models.MwsMonthlyRevenue,
) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *RevenueGormRepository) ListMonthlyForClient(
	ctx context.Context,
	clientID uint,
) ([]models.MwsMonthlyRevenue, error) {

	var rows []models.MwsMonthlyRevenue
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("month DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RevenueGormRepository) ListMonthlyForMonth(
	ctx context.Context,
	month time.Time,
) ([]models.MwsMonthlyRevenue, error) {

	var rows []models.MwsMonthlyRevenue
	if err := r.db.WithContext(ctx).
		Where("month = ?", month).
		Order("client_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Compile-time check
var _ domain.Repository = (*RevenueGormRepository)(nil)
