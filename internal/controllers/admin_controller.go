package controllers

import (
	"net/http"

	"github.com/poofware/coi-service/internal/services"
	"github.com/poofware/coi-service/internal/utils"
)

type AdminController struct {
	coiService *services.COIService
}

func NewAdminController(s *services.COIService) *AdminController {
	return &AdminController{coiService: s}
}

// ResetHandler => POST /api/v1/admin/reset
func (c *AdminController) ResetHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := c.coiService.Reset(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ReinitializeHandler => POST /api/v1/admin/reinitialize
func (c *AdminController) ReinitializeHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := c.coiService.Reinitialize(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
