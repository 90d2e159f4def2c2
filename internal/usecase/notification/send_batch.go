package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/audit"
	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/notification"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type SendBatchInput struct {
	Title   string
	Message string
	LeadID  *uint

	Recipients []uint

	ActorID uint
}

// ======================================================
// USE CASE
// ======================================================

type SendBatch struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSendBatch(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SendBatch {
	return &SendBatch{
		repo:  repo,
		audit: audit,
	}
}

// Execute writes one row per recipient. All rows share a batch id and a
// minute-truncated timestamp so the batch reads back as one logical send.
func (uc *SendBatch) Execute(
	ctx context.Context,
	in SendBatchInput,
) (*domain.Batch, error) {

	if len(in.Recipients) == 0 {
		return nil, httperr.ErrBusiness("no_recipients")
	}
	if in.Title == "" {
		return nil, httperr.ErrBusiness("missing_title")
	}

	batchID := uuid.NewString()
	sentAt := time.Now().Truncate(time.Minute)

	rows := make([]models.Notification, 0, len(in.Recipients))
	for _, userID := range in.Recipients {
		rows = append(rows, models.Notification{
			UserID:    userID,
			BatchID:   batchID,
			Title:     in.Title,
			Message:   in.Message,
			LeadID:    in.LeadID,
			CreatedAt: sentAt,
		})
	}

	if err := uc.repo.CreateRows(ctx, rows); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "notification_batch_sent",
		Entity:   "notification_batch",
		Metadata: map[string]any{"batch_id": batchID, "recipients": len(rows)},
	})

	return &domain.Batch{
		BatchID:    batchID,
		Title:      in.Title,
		Message:    in.Message,
		SentAt:     sentAt,
		Recipients: in.Recipients,
		Count:      len(in.Recipients),
	}, nil
}
