package models

import (
	"time"
)

// ReminderEvent is one entry of a record's append-only reminder log.
type ReminderEvent struct {
	SentAt  time.Time    `json:"sentAt"`
	Type    ReminderType `json:"type"`
	Message *string      `json:"message,omitempty"`
}

// COIRecord is a certificate of insurance obligation tracked per tenant/unit.
// JSON names match the persisted blob layout.
type COIRecord struct {
	ID                  string          `json:"id"`
	Property            string          `json:"property"`
	PropertyID          string          `json:"propertyId"`
	TenantName          string          `json:"tenantName"`
	TenantEmail         string          `json:"tenantEmail"`
	Unit                string          `json:"unit"`
	COIName             string          `json:"coiName"`
	ExpiryDate          string          `json:"expiryDate"`
	Status              COIStatus       `json:"status"`
	ReminderStatus      ReminderStatus  `json:"reminderStatus"`
	LastReminderSent    *time.Time      `json:"lastReminderSent"`
	LastReminderType    *ReminderType   `json:"lastReminderType,omitempty"`
	LastReminderMessage *string         `json:"lastReminderMessage,omitempty"`
	ReminderHistory     []ReminderEvent `json:"reminderHistory,omitempty"`
	Notes               string          `json:"notes"`
	DocumentURL         *string         `json:"documentUrl"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
	Versioned
}

func (c *COIRecord) GetID() string { return c.ID }

// Clone returns a deep copy so callers never share mutable state with the store.
func (c *COIRecord) Clone() *COIRecord {
	if c == nil {
		return nil
	}
	out := *c
	if c.LastReminderSent != nil {
		t := *c.LastReminderSent
		out.LastReminderSent = &t
	}
	if c.LastReminderType != nil {
		t := *c.LastReminderType
		out.LastReminderType = &t
	}
	if c.LastReminderMessage != nil {
		m := *c.LastReminderMessage
		out.LastReminderMessage = &m
	}
	if c.DocumentURL != nil {
		u := *c.DocumentURL
		out.DocumentURL = &u
	}
	if c.ReminderHistory != nil {
		out.ReminderHistory = make([]ReminderEvent, len(c.ReminderHistory))
		for i, ev := range c.ReminderHistory {
			out.ReminderHistory[i] = ev
			if ev.Message != nil {
				m := *ev.Message
				out.ReminderHistory[i].Message = &m
			}
		}
	}
	return &out
}

// RecordReminder applies the reminder-send transition.
func (c *COIRecord) RecordReminder(sentAt time.Time, typ ReminderType, message *string) {
	c.ReminderStatus = ReminderSent
	c.LastReminderSent = &sentAt
	c.LastReminderType = &typ
	c.LastReminderMessage = message
	c.ReminderHistory = append(c.ReminderHistory, ReminderEvent{
		SentAt:  sentAt,
		Type:    typ,
		Message: message,
	})
}

// CloneCOIs deep-copies a slice of records.
func CloneCOIs(in []*COIRecord) []*COIRecord {
	out := make([]*COIRecord, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}
