package revenue

import (
	"context"
	"time"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/audit"
	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/revenue"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type RecordPaymentInput struct {
	ClientID uint
	Month    time.Time

	// PayFull settles the remaining due; otherwise Amount is applied.
	PayFull bool
	Amount  float64

	ActorID uint
}

type RecordPayment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRecordPayment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RecordPayment {
	return &RecordPayment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *RecordPayment) Execute(
	ctx context.Context,
	in RecordPaymentInput,
) (*models.MwsMonthlyRevenue, error) {

	row, err := uc.repo.GetMonthly(ctx, in.ClientID, in.Month)
	if err != nil {
		return nil, httperr.ErrBusiness("revenue_not_found")
	}

	payment, err := domain.Reconcile(row.RevenueAmount, row.PaidAmount, in.PayFull, in.Amount)
	if err != nil {
		return nil, err
	}

	row.PaidAmount = payment.PaidAmount
	row.Status = payment.Status

	if err := uc.repo.SaveMonthly(ctx, row); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "revenue_payment_recorded",
		Entity:   "mws_monthly_revenue",
		EntityID: &row.ID,
		Metadata: payment,
	})

	return row, nil
}
