package dtos

import (
	"github.com/poofware/coi-service/internal/views"
)

// UpdateFiltersRequest changes only the supplied criteria.
type UpdateFiltersRequest struct {
	Property     *string `json:"property,omitempty"`
	Status       *string `json:"status,omitempty"`
	ExpiryFilter *string `json:"expiryFilter,omitempty"`
	SearchTerm   *string `json:"searchTerm,omitempty"`
}

type SearchRequest struct {
	SearchTerm string `json:"searchTerm"`
}

type UpdatePaginationRequest struct {
	Page        *int `json:"page,omitempty" validate:"omitempty,min=1"`
	RowsPerPage *int `json:"rowsPerPage,omitempty" validate:"omitempty,oneof=10 25 50 100"`
}

type SelectionRequest struct {
	IDs []string `json:"ids"`
}

type ToggleSelectionRequest struct {
	ID string `json:"id" validate:"required"`
}

type SelectionResponse struct {
	SelectedIDs []string `json:"selectedIds"`
}

// DashboardView is the read-only projection the table renders.
type DashboardView struct {
	Rows               []views.Row    `json:"rows"`
	Page               int            `json:"page"`
	RowsPerPage        int            `json:"rowsPerPage"`
	RowsPerPageOptions []int          `json:"rowsPerPageOptions"`
	TotalPages         int            `json:"totalPages"`
	FilteredCount      int            `json:"filteredCount"`
	Stats              views.Stats    `json:"stats"`
	Filters            views.Criteria `json:"filters"`
	SelectedIDs        []string       `json:"selectedIds"`
}
