package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/poofware/coi-service/internal/dtos"
	"github.com/poofware/coi-service/internal/services"
	"github.com/poofware/coi-service/internal/utils"
)

type DashboardController struct {
	dashboardService *services.DashboardService
	validate         *validator.Validate
}

func NewDashboardController(s *services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: s, validate: services.NewValidator()}
}

// ViewHandler => GET /api/v1/dashboard
func (c *DashboardController) ViewHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, c.dashboardService.View())
}

// StatsHandler => GET /api/v1/dashboard/stats
func (c *DashboardController) StatsHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, c.dashboardService.Stats())
}

// UpdateFiltersHandler => PUT /api/v1/dashboard/filters
func (c *DashboardController) UpdateFiltersHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdateFiltersRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	crit, err := c.dashboardService.UpdateFilters(req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, crit)
}

// ClearFiltersHandler => DELETE /api/v1/dashboard/filters
func (c *DashboardController) ClearFiltersHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, c.dashboardService.ClearFilters())
}

// SearchHandler => PUT /api/v1/dashboard/search[?flush=true]
// Without flush the term is debounced and 202 is returned.
func (c *DashboardController) SearchHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SearchRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	c.dashboardService.SetSearchTerm(req.SearchTerm)

	if flush, _ := strconv.ParseBool(r.URL.Query().Get("flush")); flush {
		c.dashboardService.FlushSearch()
		utils.RespondWithJSON(w, http.StatusOK, c.dashboardService.Filters())
		return
	}
	utils.RespondWithJSON(w, http.StatusAccepted, req)
}

// UpdatePaginationHandler => PUT /api/v1/dashboard/pagination
func (c *DashboardController) UpdatePaginationHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdatePaginationRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if !validateRequest(w, c.validate, req) {
		return
	}
	pg, err := c.dashboardService.UpdatePagination(req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, pg)
}

// SetSelectionHandler => PUT /api/v1/dashboard/selection
func (c *DashboardController) SetSelectionHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SelectionRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.SelectionResponse{
		SelectedIDs: c.dashboardService.SetSelection(req.IDs),
	})
}

// ClearSelectionHandler => DELETE /api/v1/dashboard/selection
func (c *DashboardController) ClearSelectionHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, dtos.SelectionResponse{
		SelectedIDs: c.dashboardService.ClearSelection(),
	})
}

// ToggleSelectionHandler => POST /api/v1/dashboard/selection/toggle
func (c *DashboardController) ToggleSelectionHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.ToggleSelectionRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if !validateRequest(w, c.validate, req) {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.SelectionResponse{
		SelectedIDs: c.dashboardService.ToggleSelection(req.ID),
	})
}
