package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
)

func TestGroupByBatchID(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 30, 12, 0, time.UTC)

	rows := []models.Notification{
		{ID: 1, UserID: 10, BatchID: "b-1", Title: "March report", CreatedAt: at},
		{ID: 2, UserID: 11, BatchID: "b-1", Title: "March report", CreatedAt: at},
		{ID: 3, UserID: 12, BatchID: "b-2", Title: "Reminder", CreatedAt: at.Add(time.Hour)},
	}

	batches := Group(rows)

	assert.Len(t, batches, 2)
	// Newest first.
	assert.Equal(t, "b-2", batches[0].BatchID)
	assert.Equal(t, "b-1", batches[1].BatchID)
	assert.Equal(t, 2, batches[1].Count)
	assert.ElementsMatch(t, []uint{10, 11}, batches[1].Recipients)
	assert.False(t, batches[0].Legacy)
}

func TestGroupLegacyRowsCollapseWithinMinute(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	rows := []models.Notification{
		{ID: 1, UserID: 10, Title: "Old blast", Message: "hello", CreatedAt: base.Add(5 * time.Second)},
		{ID: 2, UserID: 11, Title: "Old blast", Message: "hello", CreatedAt: base.Add(40 * time.Second)},
		// Next minute: a separate batch even with identical text.
		{ID: 3, UserID: 12, Title: "Old blast", Message: "hello", CreatedAt: base.Add(65 * time.Second)},
	}

	batches := Group(rows)

	assert.Len(t, batches, 2)
	assert.True(t, batches[0].Legacy)
	assert.True(t, batches[1].Legacy)
	assert.Equal(t, 1, batches[0].Count)
	assert.Equal(t, 2, batches[1].Count)
	assert.Equal(t, base, batches[1].SentAt)
}

func TestGroupLegacyKeyDistinguishesText(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 30, 10, 0, time.UTC)

	rows := []models.Notification{
		{ID: 1, UserID: 10, Title: "A", Message: "x", CreatedAt: at},
		{ID: 2, UserID: 11, Title: "A", Message: "y", CreatedAt: at},
	}

	assert.Len(t, Group(rows), 2)
}

func TestGroupMixedBatchAndLegacy(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 30, 10, 0, time.UTC)

	rows := []models.Notification{
		{ID: 1, UserID: 10, BatchID: "b-1", Title: "New style", CreatedAt: at},
		{ID: 2, UserID: 10, Title: "New style", CreatedAt: at},
	}

	batches := Group(rows)

	// Same text and minute, but an explicit id never merges into a
	// legacy bucket.
	assert.Len(t, batches, 2)
}

func TestLegacyKeyTruncatesToMinute(t *testing.T) {
	n := models.Notification{
		Title:     "T",
		Message:   "M",
		CreatedAt: time.Date(2026, 3, 10, 9, 30, 59, 999, time.UTC),
	}

	key := LegacyKeyFor(&n)

	assert.Equal(t, time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC), key.Minute)
}

func TestGroupEmpty(t *testing.T) {
	assert.Empty(t, Group(nil))
}
