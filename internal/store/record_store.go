// Package store owns the authoritative in-memory COI and property
// collections plus the transient dashboard state (filters, paging, selection).
package store

import (
	"sync"

	"github.com/poofware/coi-service/internal/constants"
	"github.com/poofware/coi-service/internal/models"
	"github.com/poofware/coi-service/internal/views"
)

// Pagination is the current page (1-based) and page size.
type Pagination struct {
	Page        int `json:"page"`
	RowsPerPage int `json:"rowsPerPage"`
}

// RecordStore is safe for concurrent use. Reads hand out copies. Mutations
// that must persist first run inside Transact so they never interleave.
type RecordStore struct {
	tx sync.Mutex

	mu         sync.RWMutex
	cois       []*models.COIRecord
	properties []*models.Property
	revision   uint64

	filters    views.Criteria
	pagination Pagination
	selection  []string
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		pagination: Pagination{Page: constants.DefaultPage, RowsPerPage: constants.DefaultRowsPerPage},
	}
}

// Transact runs fn while holding the transaction lock. Reads stay available
// while fn waits on persistence.
func (s *RecordStore) Transact(fn func() error) error {
	s.tx.Lock()
	defer s.tx.Unlock()
	return fn()
}

// ----------------------------- collections -----------------------------

func (s *RecordStore) COIs() []*models.COIRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneCOIs(s.cois)
}

// Snapshot returns the revision together with a copy of the collection it describes.
func (s *RecordStore) Snapshot() (uint64, []*models.COIRecord) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision, models.CloneCOIs(s.cois)
}

// ReadCOIs runs fn over the live collection under the read lock. fn must
// not modify or retain the records.
func (s *RecordStore) ReadCOIs(fn func([]*models.COIRecord)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.cois)
}

func (s *RecordStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *RecordStore) COI(id string) (*models.COIRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.cois[i].Clone(), true
	}
	return nil, false
}

func (s *RecordStore) COICount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cois)
}

func (s *RecordStore) indexOf(id string) int {
	for i, c := range s.cois {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// ReplaceCOIs swaps the whole collection (boot load, reset).
func (s *RecordStore) ReplaceCOIs(recs []*models.COIRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cois = models.CloneCOIs(recs)
	s.revision++
	s.pruneSelectionLocked()
}

func (s *RecordStore) PrependCOI(rec *models.COIRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]*models.COIRecord, 0, len(s.cois)+1)
	next = append(next, rec.Clone())
	s.cois = append(next, s.cois...)
	s.revision++
}

// UpsertCOIs replaces records in place by id; unknown ids are prepended.
func (s *RecordStore) UpsertCOIs(recs ...*models.COIRecord) {
	if len(recs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range recs {
		if i := s.indexOf(rec.ID); i >= 0 {
			s.cois[i] = rec.Clone()
			continue
		}
		s.cois = append([]*models.COIRecord{rec.Clone()}, s.cois...)
	}
	s.revision++
}

// RemoveCOI drops id from the collection and always purges it from the selection.
func (s *RecordStore) RemoveCOI(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deselectLocked(id)
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.cois = append(s.cois[:i:i], s.cois[i+1:]...)
	s.revision++
	return true
}

// RemoveCOIs drops every listed id in one step and clears the selection.
func (s *RecordStore) RemoveCOIs(ids []string) int {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
	next := make([]*models.COIRecord, 0, len(s.cois))
	for _, c := range s.cois {
		if _, ok := drop[c.ID]; !ok {
			next = append(next, c)
		}
	}
	removed := len(s.cois) - len(next)
	if removed > 0 {
		s.cois = next
		s.revision++
	}
	return removed
}

func (s *RecordStore) Properties() []*models.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneProperties(s.properties)
}

func (s *RecordStore) PropertyCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.properties)
}

func (s *RecordStore) ReplaceProperties(props []*models.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties = models.CloneProperties(props)
}

func (s *RecordStore) AddProperty(p *models.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties = append(s.properties, p.Clone())
}

func (s *RecordStore) RemoveProperty(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.properties {
		if p.ID == id {
			s.properties = append(s.properties[:i:i], s.properties[i+1:]...)
			return true
		}
	}
	return false
}

// ----------------------------- filters & paging -----------------------------

func (s *RecordStore) Filters() views.Criteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// UpdateFilters applies fn to the criteria; the page resets to 1.
func (s *RecordStore) UpdateFilters(fn func(*views.Criteria)) views.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.filters)
	s.pagination.Page = constants.DefaultPage
	return s.filters
}

func (s *RecordStore) Pagination() Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

func (s *RecordStore) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pagination.Page = page
}

// SetRowsPerPage changes the page size and resets to page 1.
func (s *RecordStore) SetRowsPerPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pagination.RowsPerPage = n
	s.pagination.Page = constants.DefaultPage
}

// ----------------------------- selection -----------------------------

func (s *RecordStore) Selection() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.selection...)
}

// SetSelection replaces the selection, keeping first-seen order and dropping duplicates.
func (s *RecordStore) SetSelection(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		s.selection = append(s.selection, id)
	}
}

// ToggleSelection flips membership of id and reports whether it is now selected.
func (s *RecordStore) ToggleSelection(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deselectLocked(id) {
		return false
	}
	s.selection = append(s.selection, id)
	return true
}

func (s *RecordStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
}

func (s *RecordStore) deselectLocked(id string) bool {
	for i, sel := range s.selection {
		if sel == id {
			s.selection = append(s.selection[:i:i], s.selection[i+1:]...)
			return true
		}
	}
	return false
}

func (s *RecordStore) pruneSelectionLocked() {
	if len(s.selection) == 0 {
		return
	}
	kept := s.selection[:0]
	for _, id := range s.selection {
		if s.indexOf(id) >= 0 {
			kept = append(kept, id)
		}
	}
	s.selection = kept
}
