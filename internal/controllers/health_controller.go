package controllers

import (
	"net/http"

	"github.com/poofware/coi-service/internal/app"
	"github.com/poofware/coi-service/internal/dtos"
	"github.com/poofware/coi-service/internal/utils"
)

// HealthController checks storage connectivity.
type HealthController struct {
	app *app.App
}

func NewHealthController(app *app.App) *HealthController {
	return &HealthController{app}
}

// HealthCheckHandler => GET /health
func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.app.KV.Ping(r.Context()); err != nil {
		utils.Logger.WithError(err).Error("coi-service storage unreachable")
		utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeInternal, "Storage unreachable", nil, err)
		return
	}
	resp := dtos.HealthCheckResponse{Status: "OK", Storage: c.app.Config.StorageDriver}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
