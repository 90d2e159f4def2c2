package revenue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/audit"
	domainLead "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/lead"
	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/revenue"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type MockRevenueRepository struct {
	mock.Mock
}

func (m *MockRevenueRepository) GetClientByID(ctx context.Context, id uint) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockRevenueRepository) ListLeads(ctx context.Context, clientID uint) ([]models.Lead, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lead), args.Error(1)
}

func (m *MockRevenueRepository) ListAdSpends(ctx context.Context, clientID uint) ([]models.AdSpend, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AdSpend), args.Error(1)
}

func (m *MockRevenueRepository) GetMonthly(ctx context.Context, clientID uint, month time.Time) (*models.MwsMonthlyRevenue, error) {
	args := m.Called(ctx, clientID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MwsMonthlyRevenue), args.Error(1)
}

func (m *MockRevenueRepository) UpsertMonthly(ctx context.Context, row *models.MwsMonthlyRevenue) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockRevenueRepository) SaveMonthly(ctx context.Context, row *models.MwsMonthlyRevenue) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockRevenueRepository) ListMonthlyForClient(ctx context.Context, clientID uint) ([]models.MwsMonthlyRevenue, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MwsMonthlyRevenue), args.Error(1)
}

func (m *MockRevenueRepository) ListMonthlyForMonth(ctx context.Context, month time.Time) ([]models.MwsMonthlyRevenue, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MwsMonthlyRevenue), args.Error(1)
}

type nopSink struct{}

func (nopSink) Log(userID *uint, action, entity string, entityID *uint, metadata any) error {
	return nil
}

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(nopSink{}, zap.NewNop().Sugar())
}

func commissionClient() *models.Client {
	return &models.Client{
		ID:            1,
		CommissionFee: 100,
		ProfitPercent: 20,
		Timezone:      "UTC",
	}
}

func marchInput() ComputeInput {
	return ComputeInput{ClientID: 1, Year: 2026, Month: time.March}
}

func marchRows() ([]models.Lead, []models.AdSpend) {
	mid := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		{Status: domainLead.StatusWon, Value: 1000, CreatedAt: mid},
	}
	spends := []models.AdSpend{
		{Amount: 200, SpendDate: mid},
	}
	return leads, spends
}

func TestComputeMonthly(t *testing.T) {
	repo := new(MockRevenueRepository)
	uc := NewComputeMonthly(repo, testDispatcher())

	leads, spends := marchRows()
	repo.On("GetClientByID", mock.Anything, uint(1)).Return(commissionClient(), nil)
	repo.On("ListLeads", mock.Anything, uint(1)).Return(leads, nil)
	repo.On("ListAdSpends", mock.Anything, uint(1)).Return(spends, nil)
	repo.On("GetMonthly", mock.Anything, uint(1), domain.MonthKey(2026, time.March)).
		Return(nil, gorm.ErrRecordNotFound)

	out, err := uc.Execute(context.Background(), marchInput())

	assert.NoError(t, err)
	assert.InDelta(t, 260, out.Result.Commission, domain.Epsilon)
	assert.True(t, out.Pending)
	assert.Nil(t, out.Stored)
}

func TestComputeMonthlyNotPendingWhenStoredMatches(t *testing.T) {
	repo := new(MockRevenueRepository)
	uc := NewComputeMonthly(repo, testDispatcher())

	leads, spends := marchRows()
	repo.On("GetClientByID", mock.Anything, uint(1)).Return(commissionClient(), nil)
	repo.On("ListLeads", mock.Anything, uint(1)).Return(leads, nil)
	repo.On("ListAdSpends", mock.Anything, uint(1)).Return(spends, nil)
	repo.On("GetMonthly", mock.Anything, uint(1), mock.Anything).
		Return(&models.MwsMonthlyRevenue{RevenueAmount: 260, Status: models.RevenueStatusUnpaid}, nil)

	out, err := uc.Execute(context.Background(), marchInput())

	assert.NoError(t, err)
	assert.False(t, out.Pending)
	assert.NotNil(t, out.Stored)
}

func TestComputeMonthlyPendingWhenStoredDrifts(t *testing.T) {
	repo := new(MockRevenueRepository)
	uc := NewComputeMonthly(repo, testDispatcher())

	leads, spends := marchRows()
	repo.On("GetClientByID", mock.Anything, uint(1)).Return(commissionClient(), nil)
	repo.On("ListLeads", mock.Anything, uint(1)).Return(leads, nil)
	repo.On("ListAdSpends", mock.Anything, uint(1)).Return(spends, nil)
	repo.On("GetMonthly", mock.Anything, uint(1), mock.Anything).
		Return(&models.MwsMonthlyRevenue{RevenueAmount: 200}, nil)

	out, err := uc.Execute(context.Background(), marchInput())

	assert.NoError(t, err)
	assert.True(t, out.Pending)
}

func TestComputeMonthlyUnknownClient(t *testing.T) {
	repo := new(MockRevenueRepository)
	uc := NewComputeMonthly(repo, testDispatcher())

	repo.On("GetClientByID", mock.Anything, uint(1)).Return(nil, gorm.ErrRecordNotFound)

	_, err := uc.Execute(context.Background(), marchInput())

	assert.Equal(t, "client_not_found", httperr.BusinessCode(err))
}

func TestSaveUpsertsPendingAmount(t *testing.T) {
	repo := new(MockRevenueRepository)
	uc := NewComputeMonthly(repo, testDispatcher())

	leads, spends := marchRows()
	repo.On("GetClientByID", mock.Anything, uint(1)).Return(commissionClient(), nil)
	repo.On("ListLeads", mock.Anything, uint(1)).Return(leads, nil)
	repo.On("ListAdSpends", mock.Anything, uint(1)).Return(spends, nil)
	repo.On("GetMonthly", mock.Anything, uint(1), mock.Anything).
		Return(nil, gorm.ErrRecordNotFound)

	var saved *models.MwsMonthlyRevenue
	repo.On("UpsertMonthly", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*models.MwsMonthlyRevenue)
		}).
		Return(nil)

	row, err := uc.Save(context.Background(), marchInput(), 99)

	assert.NoError(t, err)
	assert.InDelta(t, 260, row.RevenueAmount, domain.Epsilon)
	assert.Equal(t, models.RevenueStatusUnpaid, row.Status)
	assert.Equal(t, domain.MonthKey(2026, time.March), saved.Month)
}

func TestSaveIsNoOpWithinTolerance(t *testing.T) {
	repo := new(MockRevenueRepository)
	uc := NewComputeMonthly(repo, testDispatcher())

	leads, spends := marchRows()
	existing := &models.MwsMonthlyRevenue{
		ID:            5,
		RevenueAmount: 260,
		PaidAmount:    100,
		Status:        models.RevenueStatusPartiallyPaid,
	}

	repo.On("GetClientByID", mock.Anything, uint(1)).Return(commissionClient(), nil)
	repo.On("ListLeads", mock.Anything, uint(1)).Return(leads, nil)
	repo.On("ListAdSpends", mock.Anything, uint(1)).Return(spends, nil)
	repo.On("GetMonthly", mock.Anything, uint(1), mock.Anything).Return(existing, nil)

	row, err := uc.Save(context.Background(), marchInput(), 99)

	assert.NoError(t, err)
	assert.Equal(t, uint(5), row.ID)
	repo.AssertNotCalled(t, "UpsertMonthly", mock.Anything, mock.Anything)
}

func TestSavePreservesPaidAmountOnRecompute(t *testing.T) {
	repo := new(MockRevenueRepository)
	uc := NewComputeMonthly(repo, testDispatcher())

	leads, spends := marchRows()
	// Stored amount is stale; the row already has a partial payment.
	existing := &models.MwsMonthlyRevenue{
		RevenueAmount: 200,
		PaidAmount:    150,
		Status:        models.RevenueStatusPartiallyPaid,
	}

	repo.On("GetClientByID", mock.Anything, uint(1)).Return(commissionClient(), nil)
	repo.On("ListLeads", mock.Anything, uint(1)).Return(leads, nil)
	repo.On("ListAdSpends", mock.Anything, uint(1)).Return(spends, nil)
	repo.On("GetMonthly", mock.Anything, uint(1), mock.Anything).Return(existing, nil)
	repo.On("UpsertMonthly", mock.Anything, mock.Anything).Return(nil)

	row, err := uc.Save(context.Background(), marchInput(), 99)

	assert.NoError(t, err)
	assert.InDelta(t, 260, row.RevenueAmount, domain.Epsilon)
	assert.InDelta(t, 150, row.PaidAmount, domain.Epsilon)
	assert.Equal(t, models.RevenueStatusPartiallyPaid, row.Status)
}

// --------- RecordPayment ---------

func TestRecordPayment(t *testing.T) {
	repo := new(MockRevenueRepository)
	uc := NewRecordPayment(repo, testDispatcher())

	month := domain.MonthKey(2026, time.March)
	row := &models.MwsMonthlyRevenue{ID: 5, RevenueAmount: 260}

	repo.On("GetMonthly", mock.Anything, uint(1), month).Return(row, nil)
	repo.On("SaveMonthly", mock.Anything, row).Return(nil)

	got, err := uc.Execute(context.Background(), RecordPaymentInput{
		ClientID: 1,
		Month:    month,
		Amount:   100,
		ActorID:  99,
	})

	assert.NoError(t, err)
	assert.InDelta(t, 100, got.PaidAmount, domain.Epsilon)
	assert.Equal(t, models.RevenueStatusPartiallyPaid, got.Status)
}

func TestRecordPaymentMissingRow(t *testing.T) {
	repo := new(MockRevenueRepository)
	uc := NewRecordPayment(repo, testDispatcher())

	month := domain.MonthKey(2026, time.March)
	repo.On("GetMonthly", mock.Anything, uint(1), month).Return(nil, gorm.ErrRecordNotFound)

	_, err := uc.Execute(context.Background(), RecordPaymentInput{ClientID: 1, Month: month, Amount: 10})

	assert.Equal(t, "revenue_not_found", httperr.BusinessCode(err))
}

func TestRecordPaymentAlreadyPaidLeavesRow(t *testing.T) {
	repo := new(MockRevenueRepository)
	uc := NewRecordPayment(repo, testDispatcher())

	month := domain.MonthKey(2026, time.March)
	row := &models.MwsMonthlyRevenue{RevenueAmount: 260, PaidAmount: 260, Status: models.RevenueStatusPaid}
	repo.On("GetMonthly", mock.Anything, uint(1), month).Return(row, nil)

	_, err := uc.Execute(context.Background(), RecordPaymentInput{ClientID: 1, Month: month, Amount: 10})

	assert.Equal(t, "already_paid", httperr.BusinessCode(err))
	repo.AssertNotCalled(t, "SaveMonthly", mock.Anything, mock.Anything)
}
