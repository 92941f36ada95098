package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/poofware/coi-service/internal/routes"
)

// Controllers groups the handlers served by the router.
type Controllers struct {
	Health    *HealthController
	COI       *COIController
	Property  *PropertyController
	Dashboard *DashboardController
	Admin     *AdminController
	Metrics   http.Handler
}

// NewRouter registers every route. Static paths come before their {id} siblings.
func NewRouter(c Controllers) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc(routes.Health, c.Health.HealthCheckHandler).Methods(http.MethodGet)
	if c.Metrics != nil {
		router.Handle(routes.Metrics, c.Metrics).Methods(http.MethodGet)
	}

	router.HandleFunc(routes.COIs, c.COI.ListCOIsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.COIs, c.COI.CreateCOIHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.COIsBulkDelete, c.COI.BulkDeleteHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.COIsBulkReminders, c.COI.SendBulkRemindersHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.COIReminders, c.COI.SendReminderHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.COIByID, c.COI.GetCOIHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.COIByID, c.COI.UpdateCOIHandler).Methods(http.MethodPatch)
	router.HandleFunc(routes.COIByID, c.COI.DeleteCOIHandler).Methods(http.MethodDelete)

	router.HandleFunc(routes.Properties, c.Property.ListPropertiesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Properties, c.Property.CreatePropertyHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.PropertyOptions, c.Property.PropertyOptionsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PropertyByID, c.Property.DeletePropertyHandler).Methods(http.MethodDelete)

	router.HandleFunc(routes.Dashboard, c.Dashboard.ViewHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.DashboardStats, c.Dashboard.StatsHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.DashboardFilters, c.Dashboard.UpdateFiltersHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.DashboardFilters, c.Dashboard.ClearFiltersHandler).Methods(http.MethodDelete)
	router.HandleFunc(routes.DashboardSearch, c.Dashboard.SearchHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.DashboardPagination, c.Dashboard.UpdatePaginationHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.DashboardSelectionToggle, c.Dashboard.ToggleSelectionHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.DashboardSelection, c.Dashboard.SetSelectionHandler).Methods(http.MethodPut)
	router.HandleFunc(routes.DashboardSelection, c.Dashboard.ClearSelectionHandler).Methods(http.MethodDelete)

	router.HandleFunc(routes.AdminReset, c.Admin.ResetHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.AdminReinitialize, c.Admin.ReinitializeHandler).Methods(http.MethodPost)

	return router
}
