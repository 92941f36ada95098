package services

import (
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/poofware/coi-service/internal/constants"
	"github.com/poofware/coi-service/internal/dtos"
	"github.com/poofware/coi-service/internal/models"
	"github.com/poofware/coi-service/internal/store"
	"github.com/poofware/coi-service/internal/utils"
	"github.com/poofware/coi-service/internal/views"
)

// DashboardService owns the transient table state and builds the
// read-only projections over the record store.
type DashboardService struct {
	store *store.RecordStore
	cache *views.FilterCache
	now   utils.Clock

	debounced     func(f func())
	searchMu      sync.Mutex
	pendingSearch *string
}

func NewDashboardService(st *store.RecordStore, searchDelay time.Duration, now utils.Clock) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		store:     st,
		cache:     views.NewFilterCache(constants.FilterCacheTTL, constants.FilterCacheCleanup),
		now:       now,
		debounced: debounce.New(searchDelay),
	}
}

// ----------------------------- filters -----------------------------

// UpdateFilters applies the supplied criteria. A search term in req is
// applied immediately and cancels any pending debounced term.
func (s *DashboardService) UpdateFilters(req dtos.UpdateFiltersRequest) (views.Criteria, error) {
	if req.Status != nil && *req.Status != "" && !models.COIStatus(*req.Status).Valid() {
		return views.Criteria{}, utils.NewValidationError([]dtos.ValidationErrorDetail{invalidStatusDetail()})
	}
	if req.ExpiryFilter != nil && !validExpiryFilter(*req.ExpiryFilter) {
		return views.Criteria{}, utils.NewValidationError([]dtos.ValidationErrorDetail{
			fieldError("expiryFilter", "oneof", "all expired expiring30 expiring90"),
		})
	}
	if req.SearchTerm != nil {
		s.dropPendingSearch()
	}
	return s.store.UpdateFilters(func(c *views.Criteria) {
		if req.Property != nil {
			c.Property = *req.Property
		}
		if req.Status != nil {
			c.Status = *req.Status
		}
		if req.ExpiryFilter != nil {
			c.ExpiryFilter = models.ExpiryFilter(*req.ExpiryFilter)
		}
		if req.SearchTerm != nil {
			c.SearchTerm = *req.SearchTerm
		}
	}), nil
}

func (s *DashboardService) SetPropertyFilter(v string) views.Criteria {
	return s.store.UpdateFilters(func(c *views.Criteria) { c.Property = v })
}

func (s *DashboardService) SetStatusFilter(v string) (views.Criteria, error) {
	return s.UpdateFilters(dtos.UpdateFiltersRequest{Status: &v})
}

func (s *DashboardService) SetExpiryFilter(v string) (views.Criteria, error) {
	return s.UpdateFilters(dtos.UpdateFiltersRequest{ExpiryFilter: &v})
}

// ClearFilters resets every criterion, including a pending search.
func (s *DashboardService) ClearFilters() views.Criteria {
	s.dropPendingSearch()
	return s.store.UpdateFilters(func(c *views.Criteria) { *c = views.Criteria{} })
}

func (s *DashboardService) Filters() views.Criteria {
	return s.store.Filters()
}

// SetSearchTerm schedules term to be applied after the debounce delay.
// A newer term replaces a pending one.
func (s *DashboardService) SetSearchTerm(term string) {
	s.searchMu.Lock()
	s.pendingSearch = &term
	s.searchMu.Unlock()
	s.debounced(func() { s.FlushSearch() })
}

// FlushSearch applies the pending search term now. It reports false when
// nothing was pending.
func (s *DashboardService) FlushSearch() bool {
	s.searchMu.Lock()
	defer s.searchMu.Unlock()
	if s.pendingSearch == nil {
		return false
	}
	term := *s.pendingSearch
	s.pendingSearch = nil
	s.store.UpdateFilters(func(c *views.Criteria) { c.SearchTerm = term })
	return true
}

func (s *DashboardService) dropPendingSearch() {
	s.searchMu.Lock()
	s.pendingSearch = nil
	s.searchMu.Unlock()
}

func validExpiryFilter(v string) bool {
	switch models.ExpiryFilter(v) {
	case "", models.ExpiryFilterAll, models.ExpiryFilterExpired,
		models.ExpiryFilterExpiring30, models.ExpiryFilterExpiring90:
		return true
	}
	return false
}

// ----------------------------- pagination -----------------------------

func (s *DashboardService) UpdatePagination(req dtos.UpdatePaginationRequest) (store.Pagination, error) {
	var details []dtos.ValidationErrorDetail
	if req.Page != nil && *req.Page < 1 {
		details = append(details, fieldError("page", "min", "1"))
	}
	if req.RowsPerPage != nil && !constants.ValidRowsPerPage(*req.RowsPerPage) {
		details = append(details, fieldError("rowsPerPage", "oneof", "10 25 50 100"))
	}
	if len(details) > 0 {
		return store.Pagination{}, utils.NewValidationError(details)
	}
	// Page size first: it resets the page.
	if req.RowsPerPage != nil {
		s.store.SetRowsPerPage(*req.RowsPerPage)
	}
	if req.Page != nil {
		s.store.SetPage(*req.Page)
	}
	return s.store.Pagination(), nil
}

func (s *DashboardService) SetPage(page int) (store.Pagination, error) {
	return s.UpdatePagination(dtos.UpdatePaginationRequest{Page: &page})
}

func (s *DashboardService) SetRowsPerPage(n int) (store.Pagination, error) {
	return s.UpdatePagination(dtos.UpdatePaginationRequest{RowsPerPage: &n})
}

// ----------------------------- selection -----------------------------

func (s *DashboardService) Selection() []string {
	return s.store.Selection()
}

func (s *DashboardService) SetSelection(ids []string) []string {
	s.store.SetSelection(ids)
	return s.store.Selection()
}

func (s *DashboardService) ToggleSelection(id string) []string {
	s.store.ToggleSelection(id)
	return s.store.Selection()
}

func (s *DashboardService) ClearSelection() []string {
	s.store.ClearSelection()
	return s.store.Selection()
}

// ----------------------------- projections -----------------------------

// Filtered returns the records matching crit, memoized per store revision and day.
func (s *DashboardService) Filtered(crit views.Criteria) []*models.COIRecord {
	return s.filtered(crit, s.now())
}

func (s *DashboardService) filtered(crit views.Criteria, now time.Time) []*models.COIRecord {
	return s.cache.Filter(s.store.Revision(), s.store.Snapshot, crit, now)
}

// ListCOIs is the filtered collection joined with properties, unpaginated.
func (s *DashboardService) ListCOIs(crit views.Criteria) dtos.ListCOIsResponse {
	filtered := s.Filtered(crit)
	return dtos.ListCOIsResponse{
		Items: views.Enrich(filtered, s.store.Properties(), s.now()),
		Total: len(filtered),
	}
}

func (s *DashboardService) Stats() views.Stats {
	return s.stats(s.now())
}

func (s *DashboardService) stats(now time.Time) (st views.Stats) {
	s.store.ReadCOIs(func(recs []*models.COIRecord) {
		st = views.Summarize(recs, now)
	})
	return st
}

// View builds the current page of the table together with the summary cards.
func (s *DashboardService) View() dtos.DashboardView {
	now := s.now()
	crit := s.store.Filters()
	pg := s.store.Pagination()

	filtered := s.filtered(crit, now)
	page := views.Paginate(filtered, pg.Page, pg.RowsPerPage)

	return dtos.DashboardView{
		Rows:               views.Enrich(page, s.store.Properties(), now),
		Page:               pg.Page,
		RowsPerPage:        pg.RowsPerPage,
		RowsPerPageOptions: constants.RowsPerPageChoices,
		TotalPages:         views.TotalPages(len(filtered), pg.RowsPerPage),
		FilteredCount:      len(filtered),
		Stats:              s.stats(now),
		Filters:            crit,
		SelectedIDs:        s.store.Selection(),
	}
}
