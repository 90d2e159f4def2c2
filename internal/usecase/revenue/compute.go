package revenue

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/audit"
	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/revenue"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type ComputeInput struct {
	ClientID uint
	Year     int
	Month    time.Month

	// Optional explicit window; when zero the calendar month in the
	// client's reporting timezone is used.
	Start time.Time
	End   time.Time
}

type ComputeOutput struct {
	ClientID uint           `json:"client_id"`
	Month    time.Time      `json:"month"`
	Result   domain.Result  `json:"result"`
	Stored   *StoredMonthly `json:"stored"`

	// Pending means the stored amount differs from the computed one
	// beyond the cent tolerance (or no row exists yet).
	Pending bool `json:"pending"`
}

type StoredMonthly struct {
	RevenueAmount float64 `json:"revenue_amount"`
	PaidAmount    float64 `json:"paid_amount"`
	Status        string  `json:"status"`
}

// ======================================================
// USE CASE
// ======================================================

type ComputeMonthly struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewComputeMonthly(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ComputeMonthly {
	return &ComputeMonthly{
		repo:  repo,
		audit: audit,
	}
}

// Execute computes the commission for one client and month without writing
// anything. Leads and spends are fetched concurrently; the math itself is a
// single pass over the fetched rows.
func (uc *ComputeMonthly) Execute(
	ctx context.Context,
	in ComputeInput,
) (*ComputeOutput, error) {

	client, err := uc.repo.GetClientByID(ctx, in.ClientID)
	if err != nil {
		return nil, httperr.ErrBusiness("client_not_found")
	}

	start, end := in.Start, in.End
	if start.IsZero() || end.IsZero() {
		loc := timezone.Location(client.Timezone)
		start, end = domain.MonthWindow(in.Year, in.Month, loc)
	}

	var (
		leads  []models.Lead
		spends []models.AdSpend
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leads, err = uc.repo.ListLeads(gctx, in.ClientID)
		return err
	})
	g.Go(func() error {
		var err error
		spends, err = uc.repo.ListAdSpends(gctx, in.ClientID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := domain.Calculate(domain.Input{
		Leads:   leads,
		Spends:  spends,
		Fee:     client.CommissionFee,
		Percent: client.ProfitPercent,
		Start:   start,
		End:     end,
	})

	out := &ComputeOutput{
		ClientID: in.ClientID,
		Month:    domain.MonthKey(in.Year, in.Month),
		Result:   result,
		Pending:  true,
	}

	stored, err := uc.repo.GetMonthly(ctx, in.ClientID, out.Month)
	switch {
	case err == nil:
		out.Stored = &StoredMonthly{
			RevenueAmount: stored.RevenueAmount,
			PaidAmount:    stored.PaidAmount,
			Status:        stored.Status,
		}
		out.Pending = domain.NeedsSave(stored.RevenueAmount, result.Commission)
	case err == gorm.ErrRecordNotFound:
		// no row yet, stays pending
	default:
		return nil, err
	}

	return out, nil
}

// Save upserts the computed commission on the (client_id, month) key. A
// recompute within the cent tolerance of the stored value is a no-op so
// floating-point drift never causes churn.
func (uc *ComputeMonthly) Save(
	ctx context.Context,
	in ComputeInput,
	actorID uint,
) (*models.MwsMonthlyRevenue, error) {

	out, err := uc.Execute(ctx, in)
	if err != nil {
		return nil, err
	}

	row := &models.MwsMonthlyRevenue{
		ClientID:      in.ClientID,
		Month:         out.Month,
		RevenueAmount: out.Result.Commission,
		Status:        models.RevenueStatusUnpaid,
	}

	if out.Stored != nil {
		if !out.Pending {
			existing, err := uc.repo.GetMonthly(ctx, in.ClientID, out.Month)
			if err != nil {
				return nil, err
			}
			return existing, nil
		}
		row.PaidAmount = out.Stored.PaidAmount
		row.Status = domain.StatusFor(out.Stored.PaidAmount, out.Result.Commission)
	}

	if err := uc.repo.UpsertMonthly(ctx, row); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "revenue_saved",
		Entity:   "mws_monthly_revenue",
		EntityID: &row.ID,
		Metadata: out.Result,
	})

	return row, nil
}
