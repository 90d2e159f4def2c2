package revenue

import (
	"context"
	"time"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type Repository interface {
	GetClientByID(
		ctx context.Context,
		id uint,
	) (*models.Client, error)

	ListLeads(
		ctx context.Context,
		clientID uint,
	) ([]models.Lead, error)

	ListAdSpends(
		ctx context.Context,
		clientID uint,
	) ([]models.AdSpend, error)

	// -------- Monthly rows --------
	GetMonthly(
		ctx context.Context,
		clientID uint,
		month time.Time,
	) (*models.MwsMonthlyRevenue, error)

	// UpsertMonthly inserts or updates on the (client_id, month) key.
	UpsertMonthly(
		ctx context.Context,
		row *models.MwsMonthlyRevenue,
	) error

	SaveMonthly(
		ctx context.Context,
		row *models.MwsMonthlyRevenue,
	) error

	ListMonthlyForClient(
		ctx context.Context,
		clientID uint,
	) ([]models.MwsMonthlyRevenue, error)

	ListMonthlyForMonth(
		ctx context.Context,
		month time.Time,
	) ([]models.MwsMonthlyRevenue, error)
}
