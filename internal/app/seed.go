package app

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/poofware/coi-service/internal/models"
)

//go:embed default_dataset.json
var defaultDatasetJSON []byte

type dataset struct {
	Properties []*models.Property  `json:"properties"`
	COIs       []*models.COIRecord `json:"cois"`
}

// DefaultDataset decodes a fresh copy of the built-in records and properties.
// Seeded records start at row version 1 and keep their fixed ids.
func DefaultDataset() ([]*models.COIRecord, []*models.Property, error) {
	var ds dataset
	if err := json.Unmarshal(defaultDatasetJSON, &ds); err != nil {
		return nil, nil, fmt.Errorf("decode default dataset: %w", err)
	}
	for _, p := range ds.Properties {
		p.Normalize()
	}
	for _, c := range ds.COIs {
		if c.RowVersion == 0 {
			c.RowVersion = 1
		}
	}
	return ds.COIs, ds.Properties, nil
}
