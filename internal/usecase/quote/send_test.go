package quote

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/audit"
	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/quote"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) GetQuote(ctx context.Context, quoteID uint) (*models.Quote, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *MockQuoteRepository) GetClientByID(ctx context.Context, id uint) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockQuoteRepository) UpdateStatus(
	ctx context.Context,
	quoteID uint,
	status domain.Status,
	sentAt *time.Time,
) error {
	args := m.Called(ctx, quoteID, status, sentAt)
	return args.Error(0)
}

type fakeSender struct {
	err      error
	calls    int
	lastURL  string
	lastBody any
}

func (f *fakeSender) Send(ctx context.Context, url string, payload any) error {
	f.calls++
	f.lastURL = url
	f.lastBody = payload
	return f.err
}

type nopSink struct{}

func (nopSink) Log(userID *uint, action, entity string, entityID *uint, metadata any) error {
	return nil
}

func newTestDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(nopSink{}, zap.NewNop().Sugar())
}

func draftQuote() *models.Quote {
	return &models.Quote{
		ID:       7,
		LeadID:   3,
		ClientID: 1,
		Status:   string(domain.StatusDraft),
		Total:    1500,
		Items: []models.QuoteItem{
			{Position: 0, Description: "Roof repair", Quantity: 1, UnitPrice: 1000, Amount: 1000},
			{Position: 1, Description: "Gutter cleaning", Quantity: 2, UnitPrice: 250, Amount: 500},
		},
		Lead: models.Lead{ID: 3, Answers: models.JSONMap{"name": "Jordan"}},
	}
}

func webhookClient() *models.Client {
	return &models.Client{
		ID:              1,
		QuoteWebhookURL: "https://hooks.example.com/quotes",
		Timezone:        "America/New_York",
	}
}

func TestSendQuoteDeliversAndMarksSent(t *testing.T) {
	repo := new(MockQuoteRepository)
	sender := &fakeSender{}
	uc := NewSendQuote(repo, sender, newTestDispatcher())

	repo.On("GetQuote", mock.Anything, uint(7)).Return(draftQuote(), nil)
	repo.On("GetClientByID", mock.Anything, uint(1)).Return(webhookClient(), nil)
	repo.On("UpdateStatus", mock.Anything, uint(7), domain.StatusSent, mock.Anything).Return(nil)

	q, err := uc.Execute(context.Background(), 7, 99)

	assert.NoError(t, err)
	assert.Equal(t, string(domain.StatusSent), q.Status)
	assert.NotNil(t, q.SentAt)
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "https://hooks.example.com/quotes", sender.lastURL)
	repo.AssertExpectations(t)
}

func TestSendQuoteDeliveryFailureLeavesStatus(t *testing.T) {
	repo := new(MockQuoteRepository)
	sender := &fakeSender{err: errors.New("connection refused")}
	uc := NewSendQuote(repo, sender, newTestDispatcher())

	repo.On("GetQuote", mock.Anything, uint(7)).Return(draftQuote(), nil)
	repo.On("GetClientByID", mock.Anything, uint(1)).Return(webhookClient(), nil)

	_, err := uc.Execute(context.Background(), 7, 99)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendQuoteMissingWebhookURL(t *testing.T) {
	repo := new(MockQuoteRepository)
	sender := &fakeSender{}
	uc := NewSendQuote(repo, sender, newTestDispatcher())

	client := webhookClient()
	client.QuoteWebhookURL = ""

	repo.On("GetQuote", mock.Anything, uint(7)).Return(draftQuote(), nil)
	repo.On("GetClientByID", mock.Anything, uint(1)).Return(client, nil)

	_, err := uc.Execute(context.Background(), 7, 99)

	assert.Equal(t, "missing_webhook_url", httperr.BusinessCode(err))
	assert.Zero(t, sender.calls)
}

func TestSendQuoteRejectedCannotBeSent(t *testing.T) {
	repo := new(MockQuoteRepository)
	uc := NewSendQuote(repo, &fakeSender{}, newTestDispatcher())

	q := draftQuote()
	q.Status = string(domain.StatusRejected)
	repo.On("GetQuote", mock.Anything, uint(7)).Return(q, nil)

	_, err := uc.Execute(context.Background(), 7, 99)

	assert.Equal(t, "invalid_state", httperr.BusinessCode(err))
}

func TestSendQuoteAcceptedKeepsStatus(t *testing.T) {
	repo := new(MockQuoteRepository)
	sender := &fakeSender{}
	uc := NewSendQuote(repo, sender, newTestDispatcher())

	q := draftQuote()
	q.Status = string(domain.StatusAccepted)
	repo.On("GetQuote", mock.Anything, uint(7)).Return(q, nil)
	repo.On("GetClientByID", mock.Anything, uint(1)).Return(webhookClient(), nil)

	got, err := uc.Execute(context.Background(), 7, 99)

	// Re-sending an accepted quote delivers again but never regresses it.
	assert.NoError(t, err)
	assert.Equal(t, string(domain.StatusAccepted), got.Status)
	assert.Equal(t, 1, sender.calls)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBuildPayloadShape(t *testing.T) {
	payload := BuildPayload(draftQuote())

	b, err := json.Marshal(payload)
	assert.NoError(t, err)

	var decoded map[string]any
	assert.NoError(t, json.Unmarshal(b, &decoded))

	assert.Equal(t, "quote_sent_by_email", decoded["event"])

	quoteBody := decoded["quote"].(map[string]any)
	items := quoteBody["items"].([]any)
	assert.Len(t, items, 2)

	first := items[0].(map[string]any)
	assert.Equal(t, "Roof repair", first["description"])

	leadData := decoded["lead_data"].(map[string]any)
	assert.Equal(t, "Jordan", leadData["name"])
}

func TestBuildPayloadEmptyItemsIsArray(t *testing.T) {
	q := draftQuote()
	q.Items = nil

	b, err := json.Marshal(BuildPayload(q))
	assert.NoError(t, err)
	assert.Contains(t, string(b), `"items":[]`)
}
