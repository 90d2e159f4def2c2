package revenue

import (
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type Payment struct {
	PaidAmount float64
	Status     string
}

// StatusFor derives the payment status from amounts alone.
func StatusFor(paid, due float64) string {
	switch {
	case paid+Epsilon >= due:
		return models.RevenueStatusPaid
	case paid > 0:
		return models.RevenueStatusPartiallyPaid
	default:
		return models.RevenueStatusUnpaid
	}
}

// Reconcile applies one confirmed payment against a monthly total.
// payFull settles the remaining due in one go; otherwise amount is added to
// the existing paid total, clamped so the row never records more than due.
func Reconcile(totalDue, existingPaid float64, payFull bool, amount float64) (Payment, error) {
	remaining := totalDue - existingPaid
	if remaining <= Epsilon {
		return Payment{}, httperr.ErrBusiness("already_paid")
	}

	if payFull {
		return Payment{
			PaidAmount: totalDue,
			Status:     models.RevenueStatusPaid,
		}, nil
	}

	if amount <= 0 {
		return Payment{}, httperr.ErrBusiness("invalid_payment_amount")
	}
	if amount > remaining {
		amount = remaining
	}

	paid := existingPaid + amount
	return Payment{
		PaidAmount: paid,
		Status:     StatusFor(paid, totalDue),
	}, nil
}
