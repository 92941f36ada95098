package views

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/poofware/coi-service/internal/models"
	"github.com/poofware/coi-service/internal/utils"
)

// FilterCache memoizes Filter results. A result is reused only while the
// collection revision, the criteria and the calendar day are unchanged.
// Cached slices are shared; callers must not modify them.
type FilterCache struct {
	c *cache.Cache
}

func NewFilterCache(ttl, cleanup time.Duration) *FilterCache {
	return &FilterCache{c: cache.New(ttl, cleanup)}
}

func filterKey(revision uint64, crit Criteria, now time.Time) string {
	return fmt.Sprintf("%d|%s|%q|%q|%s|%q",
		revision,
		utils.DateOnly(now).Format(utils.DateLayout),
		crit.Property, crit.Status, crit.ExpiryFilter, crit.SearchTerm)
}

// Snapshot returns a collection copy together with the revision it describes.
type Snapshot func() (uint64, []*models.COIRecord)

// Filter returns the result memoized for revision. On a miss it takes a
// snapshot and stores the result under the snapshot's own revision.
func (f *FilterCache) Filter(revision uint64, snapshot Snapshot, crit Criteria, now time.Time) []*models.COIRecord {
	if v, ok := f.c.Get(filterKey(revision, crit, now)); ok {
		return v.([]*models.COIRecord)
	}
	rev, records := snapshot()
	out := Filter(records, crit, now)
	f.c.SetDefault(filterKey(rev, crit, now), out)
	return out
}

// Flush drops every entry; used when the collection is replaced wholesale.
func (f *FilterCache) Flush() {
	f.c.Flush()
}

func (f *FilterCache) Len() int {
	return f.c.ItemCount()
}
