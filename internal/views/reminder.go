package views

import (
	"fmt"
	"time"

	"github.com/poofware/coi-service/internal/constants"
	"github.com/poofware/coi-service/internal/models"
	"github.com/poofware/coi-service/internal/utils"
)

// ReminderLabel derives the display string for a record's reminder column.
// The stored status stays one of Not Sent, Sent or Pending.
func ReminderLabel(rec *models.COIRecord, now time.Time) string {
	today := utils.DateOnly(now)
	switch rec.ReminderStatus {
	case models.ReminderSent:
		if rec.LastReminderSent == nil {
			return "Sent"
		}
		days := utils.DaysBetween(rec.LastReminderSent.In(today.Location()), today)
		if days <= 0 {
			return "Sent today"
		}
		return fmt.Sprintf("Sent %dd ago", days)
	case models.ReminderPending:
		return "Pending"
	}

	if expiry, ok := utils.ParseDate(rec.ExpiryDate, today.Location()); ok {
		if d := utils.DaysBetween(today, expiry); d > 0 && d <= constants.ExpiringSoonDays {
			return fmt.Sprintf("Due in %dd", d)
		}
	}
	return string(models.ReminderNotSent)
}
