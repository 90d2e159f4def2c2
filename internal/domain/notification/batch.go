package notification

import (
	"sort"
	"time"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

// Batch is the logical send a set of notification rows belongs to. Rows
// written by this system carry an explicit BatchID; rows imported from the
// old data set have none and fall back to the (title, message, minute) key.
type Batch struct {
	BatchID string `json:"batch_id"`
	Legacy  bool   `json:"legacy"`

	Title   string    `json:"title"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`

	Recipients []uint `json:"recipients"`
	Count      int    `json:"count"`
}

type LegacyKey struct {
	Title   string
	Message string
	Minute  time.Time
}

func LegacyKeyFor(n *models.Notification) LegacyKey {
	return LegacyKey{
		Title:   n.Title,
		Message: n.Message,
		Minute:  n.CreatedAt.Truncate(time.Minute),
	}
}

// Group collapses rows into logical batches, newest first.
func Group(rows []models.Notification) []Batch {
	byBatch := make(map[string]*Batch)
	byLegacy := make(map[LegacyKey]*Batch)
	var out []*Batch

	add := func(b *Batch, n *models.Notification) {
		b.Recipients = append(b.Recipients, n.UserID)
		b.Count = len(b.Recipients)
		if n.CreatedAt.Before(b.SentAt) {
			b.SentAt = n.CreatedAt
		}
	}

	for i := range rows {
		n := &rows[i]

		if n.BatchID != "" {
			b, ok := byBatch[n.BatchID]
			if !ok {
				b = &Batch{
					BatchID: n.BatchID,
					Title:   n.Title,
					Message: n.Message,
					SentAt:  n.CreatedAt,
				}
				byBatch[n.BatchID] = b
				out = append(out, b)
			}
			add(b, n)
			continue
		}

		key := LegacyKeyFor(n)
		b, ok := byLegacy[key]
		if !ok {
			b = &Batch{
				Legacy:  true,
				Title:   n.Title,
				Message: n.Message,
				SentAt:  key.Minute,
			}
			byLegacy[key] = b
			out = append(out, b)
		}
		add(b, n)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SentAt.After(out[j].SentAt)
	})

	batches := make([]Batch, 0, len(out))
	for _, b := range out {
		batches = append(batches, *b)
	}
	return batches
}
