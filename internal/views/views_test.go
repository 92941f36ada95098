package views

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poofware/coi-service/internal/models"
)

var today = time.Date(2026, time.January, 15, 9, 30, 0, 0, time.UTC)

func rec(id, expiry string, status models.COIStatus) *models.COIRecord {
	return &models.COIRecord{
		ID:             id,
		Property:       "Prestige",
		PropertyID:     "prop_1",
		TenantName:     "Tenant " + id,
		TenantEmail:    "tenant" + id + "@example.com",
		Unit:           "A" + id,
		COIName:        "Policy " + id,
		ExpiryDate:     expiry,
		Status:         status,
		ReminderStatus: models.ReminderNotSent,
	}
}

func recordIDs(in []*models.COIRecord) []string {
	out := make([]string, len(in))
	for i, r := range in {
		out[i] = r.ID
	}
	return out
}

func TestFilterExpiredWindow(t *testing.T) {
	records := []*models.COIRecord{
		rec("old", "2020-01-01", models.COIStatusExpired),
		rec("future", "2099-01-01", models.COIStatusActive),
		rec("blank", "", models.COIStatusActive),
	}

	got := Filter(records, Criteria{ExpiryFilter: models.ExpiryFilterExpired}, today)
	assert.Equal(t, []string{"old"}, recordIDs(got))

	got = Filter(records, Criteria{ExpiryFilter: models.ExpiryFilterAll}, today)
	assert.Len(t, got, 3)
}

func TestFilterExpiringWindowsAreInclusive(t *testing.T) {
	records := []*models.COIRecord{
		rec("today", "2026-01-15", models.COIStatusActive),
		rec("d30", "2026-02-14", models.COIStatusActive),
		rec("d31", "2026-02-15", models.COIStatusActive),
		rec("d90", "2026-04-15", models.COIStatusActive),
		rec("yesterday", "2026-01-14", models.COIStatusActive),
	}

	got := Filter(records, Criteria{ExpiryFilter: models.ExpiryFilterExpiring30}, today)
	assert.Equal(t, []string{"today", "d30"}, recordIDs(got))

	got = Filter(records, Criteria{ExpiryFilter: models.ExpiryFilterExpiring90}, today)
	assert.Equal(t, []string{"today", "d30", "d31", "d90"}, recordIDs(got))
}

func TestFilterCombinesCriteria(t *testing.T) {
	a := rec("1", "2027-01-01", models.COIStatusActive)
	b := rec("2", "2027-01-01", models.COIStatusRejected)
	c := rec("3", "2027-01-01", models.COIStatusActive)
	c.Property, c.PropertyID = "Oak Tree Tower", "prop_2"
	c.TenantName = "Jane Cooper"
	records := []*models.COIRecord{a, b, c}

	assert.Equal(t, []string{"1", "3"}, recordIDs(Filter(records, Criteria{Status: "Active"}, today)))
	assert.Equal(t, []string{"3"}, recordIDs(Filter(records, Criteria{Property: "Oak Tree Tower"}, today)))
	assert.Equal(t, []string{"3"}, recordIDs(Filter(records, Criteria{Property: "prop_2"}, today)))
	assert.Equal(t, []string{"3"}, recordIDs(Filter(records, Criteria{SearchTerm: "  jane "}, today)))
	assert.Equal(t, []string{"2"}, recordIDs(Filter(records, Criteria{SearchTerm: "tenant2@"}, today)))
	assert.Empty(t, Filter(records, Criteria{Status: "Rejected", Property: "Oak Tree Tower"}, today))
	assert.Len(t, Filter(records, Criteria{}, today), 3)
}

func TestFilterIsIdempotent(t *testing.T) {
	var records []*models.COIRecord
	for i := 0; i < 12; i++ {
		st := models.COIStatusActive
		if i%3 == 0 {
			st = models.COIStatusRejected
		}
		records = append(records, rec(fmt.Sprint(i), "2026-02-01", st))
	}
	crit := Criteria{Status: "Active", ExpiryFilter: models.ExpiryFilterExpiring30}
	once := Filter(records, crit, today)
	assert.Equal(t, recordIDs(once), recordIDs(Filter(once, crit, today)))
}

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	assert.Equal(t, 3, TotalPages(len(items), 10))
	assert.Len(t, Paginate(items, 1, 10), 10)
	assert.Equal(t, []int{20, 21, 22, 23, 24}, Paginate(items, 3, 10))
	assert.Empty(t, Paginate(items, 4, 10))
	assert.Empty(t, Paginate(items, 0, 10))
	assert.Empty(t, Paginate(items, math.MaxInt/50, 100))
	assert.Empty(t, Paginate(items, math.MaxInt, 10))
	assert.Len(t, Paginate(items, 1, math.MaxInt), 25)
	assert.Empty(t, Paginate([]int{}, 1, 10))

	var rebuilt []int
	for p := 1; p <= TotalPages(len(items), 10); p++ {
		rebuilt = append(rebuilt, Paginate(items, p, 10)...)
	}
	assert.Equal(t, items, rebuilt)

	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 1, TotalPages(25, math.MaxInt))
}

func TestSummarize(t *testing.T) {
	records := []*models.COIRecord{
		rec("1", "2026-02-01", models.COIStatusActive),
		rec("2", "2026-06-01", models.COIStatusActive),
		rec("3", "2025-01-01", models.COIStatusExpired),
		rec("4", "2026-01-20", models.COIStatusRejected),
		rec("5", "", models.COIStatusNotProcessed),
		rec("6", "2026-01-30", models.COIStatusExpiringSoon),
	}

	s := Summarize(records, today)
	assert.Equal(t, Stats{
		Total:            6,
		Active:           2,
		Rejected:         1,
		ExpiringIn30Days: 3,
		Expired:          1,
		ExpiringSoon:     1,
		NotProcessed:     1,
	}, s)
	assert.LessOrEqual(t, s.Active+s.Rejected, s.Total)
	assert.Equal(t, Stats{}, Summarize(nil, today))
}

func TestReminderLabel(t *testing.T) {
	r := rec("1", "2027-01-01", models.COIStatusActive)
	assert.Equal(t, "Not Sent", ReminderLabel(r, today))

	r.ExpiryDate = "2026-01-25"
	assert.Equal(t, "Due in 10d", ReminderLabel(r, today))

	sent := today.AddDate(0, 0, -3)
	r.RecordReminder(sent, models.ReminderTypeEmail, nil)
	assert.Equal(t, "Sent 3d ago", ReminderLabel(r, today))

	r.RecordReminder(today, models.ReminderTypeEmail, nil)
	assert.Equal(t, "Sent today", ReminderLabel(r, today))

	r.LastReminderSent = nil
	assert.Equal(t, "Sent", ReminderLabel(r, today))

	r.ReminderStatus = models.ReminderPending
	assert.Equal(t, "Pending", ReminderLabel(r, today))
}

func TestEnrich(t *testing.T) {
	props := []*models.Property{
		{ID: "prop_1", Name: "Prestige", Label: "Prestige", Value: "Prestige"},
		{ID: "prop_2", Name: "Oak Tree Tower", Label: "Oak Tree Tower", Value: "Oak Tree Tower"},
	}
	byID := rec("1", "2027-01-01", models.COIStatusActive)
	byName := rec("2", "2027-01-01", models.COIStatusActive)
	byName.PropertyID, byName.Property = "", "Oak Tree Tower"
	orphan := rec("3", "2027-01-01", models.COIStatusActive)
	orphan.PropertyID, orphan.Property = "gone", "Nowhere"

	rows := Enrich([]*models.COIRecord{byID, byName, orphan, nil}, props, today)
	require.Len(t, rows, 3)

	assert.Equal(t, "prop_1", rows[0].PropertyDetails.ID)
	assert.Equal(t, "prop_2", rows[1].PropertyDetails.ID)
	assert.Equal(t, "prop_2", rows[1].PropertyID)
	assert.Nil(t, rows[2].PropertyDetails)
	assert.Equal(t, "Not Sent", rows[0].ReminderLabel)
	assert.Empty(t, byName.PropertyID, "input untouched")
}

func TestFilterCache(t *testing.T) {
	fc := NewFilterCache(time.Minute, time.Minute)
	records := []*models.COIRecord{
		rec("1", "2027-01-01", models.COIStatusActive),
		rec("2", "2027-01-01", models.COIStatusRejected),
	}
	var rev uint64 = 1
	calls := 0
	snapshot := func() (uint64, []*models.COIRecord) {
		calls++
		return rev, records
	}
	crit := Criteria{Status: "Active"}

	first := fc.Filter(1, snapshot, crit, today)
	second := fc.Filter(1, snapshot, crit, today.Add(time.Hour))
	assert.Equal(t, 1, calls, "a hit takes no snapshot")
	assert.Equal(t, recordIDs(first), recordIDs(second))

	rev = 2
	fc.Filter(2, snapshot, crit, today)
	fc.Filter(2, snapshot, crit, today)
	assert.Equal(t, 2, calls)

	fc.Filter(2, snapshot, crit, today.AddDate(0, 0, 1))
	fc.Filter(2, snapshot, Criteria{Status: "Rejected"}, today)
	assert.Equal(t, 4, calls)
	assert.Equal(t, 4, fc.Len())

	fc.Flush()
	assert.Zero(t, fc.Len())
}

func TestFilterCacheStoresUnderSnapshotRevision(t *testing.T) {
	fc := NewFilterCache(time.Minute, time.Minute)
	records := []*models.COIRecord{rec("1", "2027-01-01", models.COIStatusActive)}
	calls := 0
	// the collection moved on between reading the revision and the snapshot
	snapshot := func() (uint64, []*models.COIRecord) {
		calls++
		return 8, records
	}

	fc.Filter(7, snapshot, Criteria{}, today)
	fc.Filter(8, snapshot, Criteria{}, today)
	assert.Equal(t, 1, calls)

	fc.Filter(7, snapshot, Criteria{}, today)
	assert.Equal(t, 2, calls, "stale revision is never served")
}
