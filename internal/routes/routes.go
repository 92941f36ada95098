package routes

const (
	// Health
	Health  = "/health"
	Metrics = "/metrics"

	// COI records
	COIs              = "/api/v1/cois"
	COIByID           = "/api/v1/cois/{id}"
	COIsBulkDelete    = "/api/v1/cois/bulk-delete"
	COIReminders      = "/api/v1/cois/{id}/reminders"
	COIsBulkReminders = "/api/v1/cois/reminders/bulk"

	// Properties
	Properties      = "/api/v1/properties"
	PropertyByID    = "/api/v1/properties/{id}"
	PropertyOptions = "/api/v1/properties/options"

	// Dashboard state + projections
	Dashboard                = "/api/v1/dashboard"
	DashboardStats           = "/api/v1/dashboard/stats"
	DashboardFilters         = "/api/v1/dashboard/filters"
	DashboardSearch          = "/api/v1/dashboard/search"
	DashboardPagination      = "/api/v1/dashboard/pagination"
	DashboardSelection       = "/api/v1/dashboard/selection"
	DashboardSelectionToggle = "/api/v1/dashboard/selection/toggle"

	// Admin
	AdminReset        = "/api/v1/admin/reset"
	AdminReinitialize = "/api/v1/admin/reinitialize"
)
