package notification

import (
	"context"
	"time"

	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/notification"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

// BatchRef names one logical batch: by explicit id, or for legacy rows by
// the (title, message, minute) key the old data was grouped on.
type BatchRef struct {
	BatchID string

	Title   string
	Message string
	Minute  time.Time
}

// resolveRows re-selects the member rows of the batch. For legacy refs the
// selection is exactly the rows whose text matches inside the same clock
// minute; a row with identical text in the next minute is a different batch.
func resolveRows(
	ctx context.Context,
	repo domain.Repository,
	ref BatchRef,
) ([]models.Notification, error) {

	var (
		rows []models.Notification
		err  error
	)

	if ref.BatchID != "" {
		rows, err = repo.ListByBatchID(ctx, ref.BatchID)
	} else {
		rows, err = repo.ListByLegacyKey(ctx, domain.LegacyKey{
			Title:   ref.Title,
			Message: ref.Message,
			Minute:  ref.Minute.Truncate(time.Minute),
		})
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, httperr.ErrBusiness("batch_not_found")
	}
	return rows, nil
}
