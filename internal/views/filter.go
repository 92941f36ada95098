// Package views holds the pure projections over the record collection:
// filtering, paging, summary counts and the display-side joins.
package views

import (
	"strings"
	"time"

	"github.com/poofware/coi-service/internal/constants"
	"github.com/poofware/coi-service/internal/models"
	"github.com/poofware/coi-service/internal/utils"
)

// Criteria is the transient filter state of the dashboard. Empty fields match all.
type Criteria struct {
	Property     string              `json:"property"`
	Status       string              `json:"status"`
	ExpiryFilter models.ExpiryFilter `json:"expiryFilter"`
	SearchTerm   string              `json:"searchTerm"`
}

func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Filter returns the records satisfying every active criterion, in input order.
// Expiry windows are evaluated against local midnight of now.
func Filter(records []*models.COIRecord, c Criteria, now time.Time) []*models.COIRecord {
	today := utils.DateOnly(now)
	term := strings.ToLower(strings.TrimSpace(c.SearchTerm))

	out := make([]*models.COIRecord, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if c.Property != "" && rec.Property != c.Property && rec.PropertyID != c.Property {
			continue
		}
		if c.Status != "" && string(rec.Status) != c.Status {
			continue
		}
		if term != "" && !matchesSearch(rec, term) {
			continue
		}
		if !InExpiryWindow(rec.ExpiryDate, c.ExpiryFilter, today) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesSearch(rec *models.COIRecord, term string) bool {
	for _, field := range []string{rec.TenantName, rec.Property, rec.Unit, rec.COIName, rec.TenantEmail} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// InExpiryWindow reports whether expiryDate falls in the named window relative
// to today (a local midnight). Unknown or "all" windows match everything;
// a missing or unparseable date never matches a specific window.
func InExpiryWindow(expiryDate string, window models.ExpiryFilter, today time.Time) bool {
	var days int
	switch window {
	case models.ExpiryFilterExpired:
	case models.ExpiryFilterExpiring30:
		days = constants.ExpiringSoonDays
	case models.ExpiryFilterExpiring90:
		days = constants.ExpiringLongDays
	default:
		return true
	}

	expiry, ok := utils.ParseDate(expiryDate, today.Location())
	if !ok {
		return false
	}
	if window == models.ExpiryFilterExpired {
		return expiry.Before(today)
	}
	return withinDays(expiry, today, days)
}

// withinDays: today <= expiry <= today+days.
func withinDays(expiry, today time.Time, days int) bool {
	return !expiry.Before(today) && !expiry.After(today.AddDate(0, 0, days))
}
