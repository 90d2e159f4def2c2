package handlers

import (
	"time"

	"github.com/moiseinternational-web/mws-lead-backup-2/internal/models"
	"github.com/moiseinternational-web/mws-lead-backup-2/internal/timezone"
)

// resolve the reporting timezone of a client account
func locationFromClient(client *models.Client) *time.Location {
	if client != nil {
		return timezone.Location(client.Timezone)
	}
	return timezone.Location("")
}

func parseDateInClient(client *models.Client, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromClient(client),
	)
}

// parseMonth reads "2006-01" into the first-of-month key used by the
// revenue rows.
func parseMonth(monthStr string) (time.Time, error) {
	t, err := time.Parse("2006-01", monthStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}
