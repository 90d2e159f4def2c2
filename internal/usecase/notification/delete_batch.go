package notification

import (
	"context"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/audit"
	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/notification"
)

type DeleteBatch struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteBatch(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteBatch {
	return &DeleteBatch{
		repo:  repo,
		audit: audit,
	}
}

// Execute removes every row of the batch and nothing else; the selection
// is re-run against the batch key at delete time.
func (uc *DeleteBatch) Execute(
	ctx context.Context,
	ref BatchRef,
	actorID uint,
) (int, error) {

	rows, err := resolveRows(ctx, uc.repo, ref)
	if err != nil {
		return 0, err
	}

	if err := uc.repo.DeleteRows(ctx, rows); err != nil {
		return 0, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "notification_batch_deleted",
		Entity:   "notification_batch",
		Metadata: map[string]any{"batch_id": ref.BatchID, "rows": len(rows)},
	})

	return len(rows), nil
}
