package views

import (
	"time"

	"github.com/poofware/coi-service/internal/constants"
	"github.com/poofware/coi-service/internal/models"
	"github.com/poofware/coi-service/internal/utils"
)

// Stats are the summary cards of the dashboard, computed off the full collection.
type Stats struct {
	Total            int `json:"total"`
	Active           int `json:"active"`
	Rejected         int `json:"rejected"`
	ExpiringIn30Days int `json:"expiringIn30Days"`
	Expired          int `json:"expired"`
	ExpiringSoon     int `json:"expiringSoon"`
	NotProcessed     int `json:"notProcessed"`
}

func Summarize(records []*models.COIRecord, now time.Time) Stats {
	today := utils.DateOnly(now)
	var s Stats
	for _, rec := range records {
		if rec == nil {
			continue
		}
		s.Total++
		switch rec.Status {
		case models.COIStatusActive:
			s.Active++
		case models.COIStatusRejected:
			s.Rejected++
		case models.COIStatusExpired:
			s.Expired++
		case models.COIStatusExpiringSoon:
			s.ExpiringSoon++
		case models.COIStatusNotProcessed:
			s.NotProcessed++
		}
		if expiry, ok := utils.ParseDate(rec.ExpiryDate, today.Location()); ok &&
			withinDays(expiry, today, constants.ExpiringSoonDays) {
			s.ExpiringIn30Days++
		}
	}
	return s
}
