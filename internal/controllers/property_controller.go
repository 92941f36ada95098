package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/poofware/coi-service/internal/dtos"
	"github.com/poofware/coi-service/internal/services"
	"github.com/poofware/coi-service/internal/utils"
)

type PropertyController struct {
	propertyService *services.PropertyService
}

func NewPropertyController(s *services.PropertyService) *PropertyController {
	return &PropertyController{propertyService: s}
}

// ListPropertiesHandler => GET /api/v1/properties
func (c *PropertyController) ListPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, dtos.ListPropertiesResponse{
		Properties: c.propertyService.ListProperties(),
	})
}

// PropertyOptionsHandler => GET /api/v1/properties/options
func (c *PropertyController) PropertyOptionsHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, dtos.PropertyOptionsResponse{
		Options: c.propertyService.PropertyOptions(),
	})
}

// CreatePropertyHandler => POST /api/v1/properties
func (c *PropertyController) CreatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreatePropertyRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	p, err := c.propertyService.CreateProperty(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// DeletePropertyHandler => DELETE /api/v1/properties/{id}
func (c *PropertyController) DeletePropertyHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.propertyService.DeleteProperty(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
