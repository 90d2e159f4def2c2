package quote

import (
	"context"
	"time"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type Repository interface {
	// GetQuote loads the quote with its items in position order and the
	// associated lead.
	GetQuote(
		ctx context.Context,
		quoteID uint,
	) (*models.Quote, error)

	GetClientByID(
		ctx context.Context,
		id uint,
	) (*models.Client, error)

	UpdateStatus(
		ctx context.Context,
		quoteID uint,
		status Status,
		sentAt *time.Time,
	) error
}
