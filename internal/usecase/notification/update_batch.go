package notification

import (
	"context"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/audit"
	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/notification"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type UpdateBatchInput struct {
	Ref BatchRef

	Title   string
	Message string

	ActorID uint
}

type UpdateBatch struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateBatch(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateBatch {
	return &UpdateBatch{
		repo:  repo,
		audit: audit,
	}
}

// Execute rewrites a sent batch for the same recipient set: the member rows
// are re-selected by their batch key, then deleted and re-inserted with the
// new content in one transaction. Read flags reset, which mirrors how an
// edited announcement should resurface.
func (uc *UpdateBatch) Execute(
	ctx context.Context,
	in UpdateBatchInput,
) (*domain.Batch, error) {

	if in.Title == "" {
		return nil, httperr.ErrBusiness("missing_title")
	}

	rows, err := resolveRows(ctx, uc.repo, in.Ref)
	if err != nil {
		return nil, err
	}

	fresh := make([]models.Notification, 0, len(rows))
	for i := range rows {
		old := &rows[i]
		fresh = append(fresh, models.Notification{
			UserID:    old.UserID,
			BatchID:   old.BatchID,
			Title:     in.Title,
			Message:   in.Message,
			LeadID:    old.LeadID,
			CreatedAt: old.CreatedAt,
		})
	}

	if err := uc.repo.ReplaceRows(ctx, rows, fresh); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "notification_batch_updated",
		Entity:   "notification_batch",
		Metadata: map[string]any{"batch_id": in.Ref.BatchID, "rows": len(fresh)},
	})

	batches := domain.Group(fresh)
	return &batches[0], nil
}
