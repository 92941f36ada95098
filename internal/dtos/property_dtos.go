package dtos

import "github.com/poofware/coi-service/internal/models"

// CreatePropertyRequest accepts any of the three display aliases.
type CreatePropertyRequest struct {
	Name    string `json:"name"`
	Label   string `json:"label,omitempty"`
	Value   string `json:"value,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

type ListPropertiesResponse struct {
	Properties []*models.Property `json:"properties"`
}

type PropertyOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type PropertyOptionsResponse struct {
	Options []PropertyOption `json:"options"`
}
