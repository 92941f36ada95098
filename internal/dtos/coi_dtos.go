package dtos

import (
	"time"

	"github.com/poofware/coi-service/internal/models"
	"github.com/poofware/coi-service/internal/views"
)

// CreateCOIRequest mirrors the create form. Property may name a property
// (name/label/value) or carry its id; PropertyID wins when both are present.
type CreateCOIRequest struct {
	Property    string            `json:"property" validate:"required"`
	PropertyID  string            `json:"propertyId,omitempty"`
	TenantName  string            `json:"tenantName" validate:"required"`
	TenantEmail string            `json:"tenantEmail" validate:"required,email"`
	Unit        string            `json:"unit" validate:"required"`
	COIName     string            `json:"coiName" validate:"required"`
	ExpiryDate  string            `json:"expiryDate" validate:"required,datetime=2006-01-02"`
	Status      *models.COIStatus `json:"status,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	DocumentURL *string           `json:"documentUrl,omitempty"`
}

// UpdateCOIRequest is a partial update; nil fields are left unchanged.
// RowVersion, when set, must match the stored version.
type UpdateCOIRequest struct {
	Property       *string           `json:"property,omitempty"`
	PropertyID     *string           `json:"propertyId,omitempty"`
	TenantName     *string           `json:"tenantName,omitempty"`
	TenantEmail    *string           `json:"tenantEmail,omitempty"`
	Unit           *string           `json:"unit,omitempty"`
	COIName        *string           `json:"coiName,omitempty"`
	ExpiryDate     *string           `json:"expiryDate,omitempty"`
	Status         *models.COIStatus `json:"status,omitempty"`
	ReminderStatus *string           `json:"reminderStatus,omitempty"`
	Notes          *string           `json:"notes,omitempty"`
	DocumentURL    *string           `json:"documentUrl,omitempty"`
	RowVersion     *int64            `json:"row_version,omitempty"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type BulkDeleteResponse struct {
	Requested int `json:"requested"`
	Removed   int `json:"removed"`
}

type SendReminderRequest struct {
	Type    models.ReminderType `json:"type,omitempty" validate:"omitempty,oneof=email sms both standard urgent expiring custom"`
	Message *string             `json:"message,omitempty"`
}

type SendBulkRemindersRequest struct {
	IDs     []string            `json:"ids" validate:"required,min=1,dive,required"`
	Type    models.ReminderType `json:"type,omitempty" validate:"omitempty,oneof=email sms both standard urgent expiring custom"`
	Message *string             `json:"message,omitempty"`
}

type SendBulkRemindersResponse struct {
	SentAt  time.Time           `json:"sentAt"`
	Updated []*models.COIRecord `json:"updated"`
	Missing []string            `json:"missing,omitempty"`
}

// ListCOIsResponse is the filtered (unpaginated) collection.
type ListCOIsResponse struct {
	Items []views.Row `json:"items"`
	Total int         `json:"total"`
}
