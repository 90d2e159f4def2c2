package revenue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, models.RevenueStatusUnpaid, StatusFor(0, 260))
	assert.Equal(t, models.RevenueStatusPartiallyPaid, StatusFor(100, 260))
	assert.Equal(t, models.RevenueStatusPaid, StatusFor(260, 260))
	// Within a cent counts as settled.
	assert.Equal(t, models.RevenueStatusPaid, StatusFor(259.995, 260))
}

func TestReconcilePartialPayment(t *testing.T) {
	p, err := Reconcile(260, 0, false, 100)

	assert.NoError(t, err)
	assert.InDelta(t, 100, p.PaidAmount, Epsilon)
	assert.Equal(t, models.RevenueStatusPartiallyPaid, p.Status)
}

func TestReconcilePayFullSettlesRemaining(t *testing.T) {
	p, err := Reconcile(260, 100, true, 0)

	assert.NoError(t, err)
	assert.InDelta(t, 260, p.PaidAmount, Epsilon)
	assert.Equal(t, models.RevenueStatusPaid, p.Status)
}

func TestReconcileClampsOverpayment(t *testing.T) {
	p, err := Reconcile(260, 200, false, 500)

	assert.NoError(t, err)
	assert.InDelta(t, 260, p.PaidAmount, Epsilon)
	assert.Equal(t, models.RevenueStatusPaid, p.Status)
}

func TestReconcileAlreadyPaid(t *testing.T) {
	_, err := Reconcile(260, 260, false, 10)

	assert.Error(t, err)
	assert.Equal(t, "already_paid", httperr.BusinessCode(err))

	// payFull on a settled row is rejected the same way.
	_, err = Reconcile(260, 260, true, 0)
	assert.Equal(t, "already_paid", httperr.BusinessCode(err))
}

func TestReconcileRejectsNonPositiveAmount(t *testing.T) {
	_, err := Reconcile(260, 0, false, 0)
	assert.Equal(t, "invalid_payment_amount", httperr.BusinessCode(err))

	_, err = Reconcile(260, 0, false, -5)
	assert.Equal(t, "invalid_payment_amount", httperr.BusinessCode(err))
}

func TestReconcileAccumulatesAcrossPayments(t *testing.T) {
	first, err := Reconcile(260, 0, false, 150)
	assert.NoError(t, err)

	second, err := Reconcile(260, first.PaidAmount, false, 110)
	assert.NoError(t, err)

	assert.InDelta(t, 260, second.PaidAmount, Epsilon)
	assert.Equal(t, models.RevenueStatusPaid, second.Status)
}
