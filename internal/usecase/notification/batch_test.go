package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/audit"
	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/notification"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateRows(ctx context.Context, rows []models.Notification) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListAll(ctx context.Context) ([]models.Notification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListByBatchID(ctx context.Context, batchID string) ([]models.Notification, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ListByLegacyKey(ctx context.Context, key domain.LegacyKey) ([]models.Notification, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) ReplaceRows(ctx context.Context, old, fresh []models.Notification) error {
	args := m.Called(ctx, old, fresh)
	return args.Error(0)
}

func (m *MockNotificationRepository) DeleteRows(ctx context.Context, rows []models.Notification) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

type nopSink struct{}

func (nopSink) Log(userID *uint, action, entity string, entityID *uint, metadata any) error {
	return nil
}

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(nopSink{}, zap.NewNop().Sugar())
}

// --------- SendBatch ---------

func TestSendBatchWritesOneRowPerRecipient(t *testing.T) {
	repo := new(MockNotificationRepository)
	uc := NewSendBatch(repo, testDispatcher())

	var rows []models.Notification
	repo.On("CreateRows", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			rows = args.Get(1).([]models.Notification)
		}).
		Return(nil)

	b, err := uc.Execute(context.Background(), SendBatchInput{
		Title:      "Monthly report ready",
		Message:    "Check your dashboard.",
		Recipients: []uint{10, 11, 12},
		ActorID:    1,
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, b.Count)
	assert.NotEmpty(t, b.BatchID)
	assert.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, b.BatchID, r.BatchID)
		assert.Equal(t, r.CreatedAt, r.CreatedAt.Truncate(time.Minute))
	}
}

func TestSendBatchNoRecipients(t *testing.T) {
	uc := NewSendBatch(new(MockNotificationRepository), testDispatcher())

	_, err := uc.Execute(context.Background(), SendBatchInput{Title: "T"})

	assert.Equal(t, "no_recipients", httperr.BusinessCode(err))
}

func TestSendBatchMissingTitle(t *testing.T) {
	uc := NewSendBatch(new(MockNotificationRepository), testDispatcher())

	_, err := uc.Execute(context.Background(), SendBatchInput{Recipients: []uint{1}})

	assert.Equal(t, "missing_title", httperr.BusinessCode(err))
}

// --------- UpdateBatch ---------

func TestUpdateBatchRewritesRowsForSameRecipients(t *testing.T) {
	repo := new(MockNotificationRepository)
	uc := NewUpdateBatch(repo, testDispatcher())

	at := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	leadID := uint(7)
	existing := []models.Notification{
		{ID: 1, UserID: 10, BatchID: "b-1", Title: "Old", Read: true, LeadID: &leadID, CreatedAt: at},
		{ID: 2, UserID: 11, BatchID: "b-1", Title: "Old", CreatedAt: at},
	}

	repo.On("ListByBatchID", mock.Anything, "b-1").Return(existing, nil)

	var fresh []models.Notification
	repo.On("ReplaceRows", mock.Anything, existing, mock.Anything).
		Run(func(args mock.Arguments) {
			fresh = args.Get(2).([]models.Notification)
		}).
		Return(nil)

	b, err := uc.Execute(context.Background(), UpdateBatchInput{
		Ref:     BatchRef{BatchID: "b-1"},
		Title:   "Corrected",
		Message: "Updated text",
		ActorID: 1,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Corrected", b.Title)
	assert.Len(t, fresh, 2)
	for _, r := range fresh {
		assert.Equal(t, "b-1", r.BatchID)
		assert.Equal(t, "Corrected", r.Title)
		// Rewritten rows resurface as unread.
		assert.False(t, r.Read)
	}
	assert.Equal(t, &leadID, fresh[0].LeadID)
}

func TestUpdateBatchNotFound(t *testing.T) {
	repo := new(MockNotificationRepository)
	uc := NewUpdateBatch(repo, testDispatcher())

	repo.On("ListByBatchID", mock.Anything, "missing").Return([]models.Notification{}, nil)

	_, err := uc.Execute(context.Background(), UpdateBatchInput{
		Ref:   BatchRef{BatchID: "missing"},
		Title: "T",
	})

	assert.Equal(t, "batch_not_found", httperr.BusinessCode(err))
}

func TestUpdateBatchLegacyRefTruncatesMinute(t *testing.T) {
	repo := new(MockNotificationRepository)
	uc := NewUpdateBatch(repo, testDispatcher())

	minute := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	rows := []models.Notification{
		{ID: 1, UserID: 10, Title: "Old blast", Message: "m", CreatedAt: minute.Add(20 * time.Second)},
	}

	repo.On("ListByLegacyKey", mock.Anything, domain.LegacyKey{
		Title:   "Old blast",
		Message: "m",
		Minute:  minute,
	}).Return(rows, nil)
	repo.On("ReplaceRows", mock.Anything, rows, mock.Anything).Return(nil)

	_, err := uc.Execute(context.Background(), UpdateBatchInput{
		Ref: BatchRef{
			Title:   "Old blast",
			Message: "m",
			Minute:  minute.Add(45 * time.Second), // any instant inside the minute
		},
		Title: "New title",
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

// --------- DeleteBatch ---------

func TestDeleteBatch(t *testing.T) {
	repo := new(MockNotificationRepository)
	uc := NewDeleteBatch(repo, testDispatcher())

	rows := []models.Notification{
		{ID: 1, BatchID: "b-1"},
		{ID: 2, BatchID: "b-1"},
	}
	repo.On("ListByBatchID", mock.Anything, "b-1").Return(rows, nil)
	repo.On("DeleteRows", mock.Anything, rows).Return(nil)

	n, err := uc.Execute(context.Background(), BatchRef{BatchID: "b-1"}, 1)

	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDeleteBatchNotFound(t *testing.T) {
	repo := new(MockNotificationRepository)
	uc := NewDeleteBatch(repo, testDispatcher())

	repo.On("ListByBatchID", mock.Anything, "gone").Return([]models.Notification{}, nil)

	_, err := uc.Execute(context.Background(), BatchRef{BatchID: "gone"}, 1)

	assert.Equal(t, "batch_not_found", httperr.BusinessCode(err))
	repo.AssertNotCalled(t, "DeleteRows", mock.Anything, mock.Anything)
}
