package revenue

import (
	"math"
	"time"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/lead"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

// Epsilon is the tolerance used both for "does the stored amount need
// re-saving" and for the paid-vs-due comparison. Amounts are currency with
// cent precision, so anything closer than a cent is the same number.
const Epsilon = 0.01

type Input struct {
	Leads  []models.Lead
	Spends []models.AdSpend

	// Commission terms of the client.
	Fee     float64
	Percent float64

	// Inclusive attribution window.
	Start time.Time
	End   time.Time
}

type Result struct {
	WonRevenue float64 `json:"won_revenue"`
	AdSpend    float64 `json:"ad_spend"`
	Profit     float64 `json:"profit"`
	Commission float64 `json:"commission"`
}

// AttributionTime is the instant a lead's value counts toward: the explicit
// attribution date when set, its creation time otherwise.
func AttributionTime(l *models.Lead) time.Time {
	if l.AttributionDate != nil {
		return *l.AttributionDate
	}
	return l.CreatedAt
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// Calculate runs the commission formula over already-fetched rows:
//
//	profit     = Σ won lead values − Σ ad spend   (window-filtered)
//	commission = fee + (profit > 0 ? profit × percent/100 : 0)
func Calculate(in Input) Result {
	var res Result

	for i := range in.Leads {
		l := &in.Leads[i]
		if l.Status != lead.StatusWon {
			continue
		}
		if !inWindow(AttributionTime(l), in.Start, in.End) {
			continue
		}
		res.WonRevenue += l.Value
	}

	for i := range in.Spends {
		if !inWindow(in.Spends[i].SpendDate, in.Start, in.End) {
			continue
		}
		res.AdSpend += in.Spends[i].Amount
	}

	res.Profit = res.WonRevenue - res.AdSpend

	res.Commission = in.Fee
	if res.Profit > 0 {
		res.Commission += res.Profit * in.Percent / 100
	}

	return res
}

// NeedsSave reports whether a recomputed commission differs from the stored
// one beyond floating-point drift.
func NeedsSave(stored, computed float64) bool {
	return math.Abs(stored-computed) > Epsilon
}

// MonthWindow returns the inclusive bounds of a calendar month in loc.
func MonthWindow(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// MonthKey normalizes any instant to the first-of-month date the revenue
// row is keyed by.
func MonthKey(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}
