package revenue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/lead"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

func monthInput(fee, percent float64) Input {
	start, end := MonthWindow(2026, time.March, time.UTC)
	return Input{
		Fee:     fee,
		Percent: percent,
		Start:   start,
		End:     end,
	}
}

func wonLead(value float64, at time.Time) models.Lead {
	return models.Lead{
		Status:    lead.StatusWon,
		Value:     value,
		CreatedAt: at,
	}
}

func TestCalculateCommission(t *testing.T) {
	mid := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	in := monthInput(100, 20)
	in.Leads = []models.Lead{wonLead(1000, mid)}
	in.Spends = []models.AdSpend{{Amount: 200, SpendDate: mid}}

	res := Calculate(in)

	assert.InDelta(t, 1000, res.WonRevenue, Epsilon)
	assert.InDelta(t, 200, res.AdSpend, Epsilon)
	assert.InDelta(t, 800, res.Profit, Epsilon)
	assert.InDelta(t, 260, res.Commission, Epsilon)
}

func TestCalculateNegativeProfitKeepsBaseFee(t *testing.T) {
	mid := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	in := monthInput(150, 30)
	in.Leads = []models.Lead{wonLead(100, mid)}
	in.Spends = []models.AdSpend{{Amount: 500, SpendDate: mid}}

	res := Calculate(in)

	assert.InDelta(t, -400, res.Profit, Epsilon)
	// No percentage on a loss, the fee still applies.
	assert.InDelta(t, 150, res.Commission, Epsilon)
}

func TestCalculateIgnoresNonWonLeads(t *testing.T) {
	mid := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	in := monthInput(0, 10)
	in.Leads = []models.Lead{
		wonLead(500, mid),
		{Status: lead.StatusNew, Value: 900, CreatedAt: mid},
		{Status: lead.StatusLost, Value: 900, CreatedAt: mid},
	}

	res := Calculate(in)

	assert.InDelta(t, 500, res.WonRevenue, Epsilon)
	assert.InDelta(t, 50, res.Commission, Epsilon)
}

func TestCalculateWindowIsInclusive(t *testing.T) {
	start, end := MonthWindow(2026, time.March, time.UTC)

	in := monthInput(0, 100)
	in.Leads = []models.Lead{
		wonLead(10, start),
		wonLead(20, end),
		wonLead(40, start.Add(-time.Nanosecond)), // February
		wonLead(80, end.Add(time.Nanosecond)),    // April
	}

	res := Calculate(in)

	assert.InDelta(t, 30, res.WonRevenue, Epsilon)
}

func TestAttributionDateOverridesCreation(t *testing.T) {
	created := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)
	attributed := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	l := wonLead(300, created)
	l.AttributionDate = &attributed

	in := monthInput(0, 0)
	in.Leads = []models.Lead{l}

	res := Calculate(in)

	// Created in February, attributed to March: March keeps the value.
	assert.InDelta(t, 300, res.WonRevenue, Epsilon)
}

func TestCalculateIsOrderIndependent(t *testing.T) {
	mid := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	leads := []models.Lead{wonLead(100, mid), wonLead(250, mid), wonLead(75.5, mid)}
	reversed := []models.Lead{leads[2], leads[1], leads[0]}

	a := monthInput(50, 15)
	a.Leads = leads
	b := monthInput(50, 15)
	b.Leads = reversed

	assert.InDelta(t, Calculate(a).Commission, Calculate(b).Commission, Epsilon)
}

func TestNeedsSave(t *testing.T) {
	assert.False(t, NeedsSave(260, 260))
	assert.False(t, NeedsSave(260, 260.005))
	assert.True(t, NeedsSave(260, 260.02))
	assert.True(t, NeedsSave(0, 100))
}

func TestMonthWindowCoversWholeMonth(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	start, end := MonthWindow(2026, time.February, loc)

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, loc), start)
	assert.True(t, end.Before(time.Date(2026, 3, 1, 0, 0, 0, 0, loc)))
	assert.True(t, end.After(time.Date(2026, 2, 28, 23, 59, 59, 0, loc)))
}

func TestMonthKey(t *testing.T) {
	key := MonthKey(2026, time.March)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), key)
}
