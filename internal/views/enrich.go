package views

import (
	"time"

	"github.com/poofware/coi-service/internal/models"
)

// Row is a record as the table renders it.
type Row struct {
	models.COIRecord
	PropertyDetails *models.Property `json:"propertyDetails"`
	ReminderLabel   string           `json:"reminderLabel"`
}

// Enrich joins each record to its property (by id, then by display name)
// and derives the reminder label. Inputs are not modified.
func Enrich(records []*models.COIRecord, properties []*models.Property, now time.Time) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		row := Row{COIRecord: *rec, ReminderLabel: ReminderLabel(rec, now)}

		prop := models.FindProperty(properties, rec.PropertyID)
		if prop == nil {
			prop = models.FindProperty(properties, rec.Property)
		}
		if prop != nil {
			row.PropertyDetails = prop.Clone()
			if row.PropertyID == "" {
				row.PropertyID = prop.ID
			}
			if row.Property == "" {
				row.Property = prop.DisplayName()
			}
		}
		rows = append(rows, row)
	}
	return rows
}
