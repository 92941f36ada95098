package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/poofware/coi-service/internal/dtos"
	"github.com/poofware/coi-service/internal/models"
	"github.com/poofware/coi-service/internal/services"
	"github.com/poofware/coi-service/internal/utils"
	"github.com/poofware/coi-service/internal/views"
)

type COIController struct {
	coiService       *services.COIService
	dashboardService *services.DashboardService
}

func NewCOIController(coiService *services.COIService, dashboardService *services.DashboardService) *COIController {
	return &COIController{coiService: coiService, dashboardService: dashboardService}
}

// ListCOIsHandler => GET /api/v1/cois?property=&status=&expiry_filter=&search_term=
func (c *COIController) ListCOIsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	crit := views.Criteria{
		Property:     q.Get("property"),
		Status:       q.Get("status"),
		ExpiryFilter: models.ExpiryFilter(q.Get("expiry_filter")),
		SearchTerm:   q.Get("search_term"),
	}
	utils.RespondWithJSON(w, http.StatusOK, c.dashboardService.ListCOIs(crit))
}

// GetCOIHandler => GET /api/v1/cois/{id}
func (c *COIController) GetCOIHandler(w http.ResponseWriter, r *http.Request) {
	row, err := c.coiService.GetCOI(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, row)
}

// CreateCOIHandler => POST /api/v1/cois
func (c *COIController) CreateCOIHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CreateCOIHandler")

	var req dtos.CreateCOIRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	rec, err := c.coiService.CreateCOI(r.Context(), req)
	if err != nil {
		logger.WithError(err).Debug("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, rec)
}

// UpdateCOIHandler => PATCH /api/v1/cois/{id}
func (c *COIController) UpdateCOIHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdateCOIRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	rec, err := c.coiService.UpdateCOI(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rec)
}

// DeleteCOIHandler => DELETE /api/v1/cois/{id}
func (c *COIController) DeleteCOIHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.coiService.DeleteCOI(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkDeleteHandler => POST /api/v1/cois/bulk-delete
func (c *COIController) BulkDeleteHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.BulkDeleteRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	resp, err := c.coiService.BulkDeleteCOIs(r.Context(), req.IDs)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// SendReminderHandler => POST /api/v1/cois/{id}/reminders
func (c *COIController) SendReminderHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SendReminderRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	rec, err := c.coiService.SendReminder(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rec)
}

// SendBulkRemindersHandler => POST /api/v1/cois/reminders/bulk
func (c *COIController) SendBulkRemindersHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SendBulkRemindersRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	resp, err := c.coiService.SendBulkReminders(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
