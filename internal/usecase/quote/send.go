package quote

import (
	"context"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/audit"
	domain "github.com/moiseinternational-web/mws-lead-backup-2/internal/domain/quote"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/timezone"
)

// Sender is the outbound webhook transport.
type Sender interface {
	Send(ctx context.Context, url string, payload any) error
}

// ======================================================
// PAYLOAD
// ======================================================

// Items must serialize as an ordered array regardless of how they are
// stored, so the payload rebuilds them explicitly.
type QuotePayloadItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

type QuotePayloadBody struct {
	ID     uint               `json:"id"`
	LeadID uint               `json:"lead_id"`
	Status string             `json:"status"`
	Total  float64            `json:"total"`
	Items  []QuotePayloadItem `json:"items"`
}

type QuotePayload struct {
	Event    string           `json:"event"`
	Quote    QuotePayloadBody `json:"quote"`
	LeadData models.JSONMap   `json:"lead_data"`
}

func BuildPayload(q *models.Quote) QuotePayload {
	items := make([]QuotePayloadItem, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, QuotePayloadItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}

	return QuotePayload{
		Event: "quote_sent_by_email",
		Quote: QuotePayloadBody{
			ID:     q.ID,
			LeadID: q.LeadID,
			Status: q.Status,
			Total:  q.Total,
			Items:  items,
		},
		LeadData: q.Lead.Answers,
	}
}

// ======================================================
// USE CASE
// ======================================================

type SendQuote struct {
	repo   domain.Repository
	sender Sender
	audit  *audit.Dispatcher
}

func NewSendQuote(
	repo domain.Repository,
	sender Sender,
	audit *audit.Dispatcher,
) *SendQuote {
	return &SendQuote{
		repo:   repo,
		sender: sender,
		audit:  audit,
	}
}

// Execute delivers the quote to the client's webhook and, on success,
// advances a non-accepted quote to "sent". The two steps are separate
// writes: a delivered webhook followed by a failed status update leaves the
// quote re-sendable, and receivers must tolerate a duplicate.
func (uc *SendQuote) Execute(
	ctx context.Context,
	quoteID uint,
	actorID uint,
) (*models.Quote, error) {

	q, err := uc.repo.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, httperr.ErrBusiness("quote_not_found")
	}

	if err := domain.CanSend(domain.Status(q.Status)); err != nil {
		return nil, err
	}

	client, err := uc.repo.GetClientByID(ctx, q.ClientID)
	if err != nil {
		return nil, err
	}

	if client.QuoteWebhookURL == "" {
		return nil, httperr.ErrBusiness("missing_webhook_url")
	}

	if err := uc.sender.Send(ctx, client.QuoteWebhookURL, BuildPayload(q)); err != nil {
		// Status is untouched on any delivery failure.
		return nil, err
	}

	if domain.Status(q.Status) != domain.StatusAccepted {
		now := timezone.NowIn(client.Timezone)
		if err := uc.repo.UpdateStatus(ctx, q.ID, domain.StatusSent, &now); err != nil {
			return nil, err
		}
		q.Status = string(domain.StatusSent)
		q.SentAt = &now
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "quote_sent",
		Entity:   "quote",
		EntityID: &q.ID,
	})

	return q, nil
}
