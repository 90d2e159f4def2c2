package lead

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/audit"
	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/lead"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"

	"github.com/google/uuid"
)

// ======================================================
// INPUT
// ======================================================

type CreateLeadInput struct {
	ClientID  uint
	ServiceID string

	Answers models.JSONMap
	Value   float64

	AttributionDate *time.Time

	// Acting user, for the audit trail.
	ActorID uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateLead struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   *zap.SugaredLogger
}

func NewCreateLead(
	repo domain.Repository,
	audit *audit.Dispatcher,
	log *zap.SugaredLogger,
) *CreateLead {
	return &CreateLead{
		repo:  repo,
		audit: audit,
		log:   log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateLead) Execute(
	ctx context.Context,
	in CreateLeadInput,
) (*models.Lead, error) {

	client, err := uc.repo.GetClientByID(ctx, in.ClientID)
	if err != nil {
		return nil, httperr.ErrBusiness("client_not_found")
	}

	svc, err := uc.repo.GetService(ctx, in.ClientID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	if err := domain.ValidateAnswers(svc, in.Answers); err != nil {
		return nil, err
	}

	l := &models.Lead{
		ClientID:        in.ClientID,
		ServiceID:       svc.ID,
		Answers:         in.Answers,
		Status:          domain.StatusNew,
		Value:           in.Value,
		AttributionDate: in.AttributionDate,
	}

	if err := uc.repo.CreateLead(ctx, l); err != nil {
		return nil, err
	}

	// Best effort: a failed fan-out never fails the lead itself.
	uc.notifyNewLead(ctx, client, l)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "lead_created",
		Entity:   "lead",
		EntityID: &l.ID,
	})

	return l, nil
}

// notifyNewLead writes one notification row for the owning client's user
// and one per active admin, all under the same batch id.
func (uc *CreateLead) notifyNewLead(
	ctx context.Context,
	client *models.Client,
	l *models.Lead,
) {

	admins, err := uc.repo.ListAdminUsers(ctx)
	if err != nil {
		uc.log.Warnw("new-lead fan-out: listing admins failed",
			"lead_id", l.ID, "error", err)
		return
	}

	recipients := []uint{client.UserID}
	for _, a := range admins {
		if a.ID == client.UserID {
			continue
		}
		recipients = append(recipients, a.ID)
	}

	batchID := uuid.NewString()
	sentAt := time.Now().Truncate(time.Minute)

	rows := make([]models.Notification, 0, len(recipients))
	for _, userID := range recipients {
		rows = append(rows, models.Notification{
			UserID:    userID,
			BatchID:   batchID,
			Title:     "New lead received",
			Message:   "A new lead was captured for " + client.BusinessName + ".",
			LeadID:    &l.ID,
			CreatedAt: sentAt,
		})
	}

	if err := uc.repo.CreateNotifications(ctx, rows); err != nil {
		uc.log.Warnw("new-lead fan-out failed",
			"lead_id", l.ID, "recipients", len(rows), "error", err)
	}
}
