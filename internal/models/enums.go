package models

import (
	"encoding/json"
	"strings"
)

// COIStatus is the processing status of a certificate.
type COIStatus string

const (
	COIStatusActive       COIStatus = "Active"
	COIStatusExpired      COIStatus = "Expired"
	COIStatusRejected     COIStatus = "Rejected"
	COIStatusExpiringSoon COIStatus = "Expiring Soon"
	COIStatusNotProcessed COIStatus = "Not Processed"
)

var AllCOIStatuses = []COIStatus{
	COIStatusActive,
	COIStatusExpired,
	COIStatusRejected,
	COIStatusExpiringSoon,
	COIStatusNotProcessed,
}

func (s COIStatus) Valid() bool {
	for _, v := range AllCOIStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ReminderStatus is the stored reminder state. Display strings such as
// "Sent 3d ago" are derived, never stored.
type ReminderStatus string

const (
	ReminderNotSent ReminderStatus = "Not Sent"
	ReminderSent    ReminderStatus = "Sent"
	ReminderPending ReminderStatus = "Pending"
)

func (r ReminderStatus) Valid() bool {
	return r == ReminderNotSent || r == ReminderSent || r == ReminderPending
}

// NormalizeReminderStatus maps legacy stored values ("Sent (30d)", "N/A", ...)
// back into the enumeration.
func NormalizeReminderStatus(s string) ReminderStatus {
	s = strings.TrimSpace(s)
	switch {
	case ReminderStatus(s).Valid():
		return ReminderStatus(s)
	case strings.HasPrefix(strings.ToLower(s), "sent"):
		return ReminderSent
	default:
		return ReminderNotSent
	}
}

func (r *ReminderStatus) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = NormalizeReminderStatus(s)
	return nil
}

// ReminderType names the channel or template of a reminder.
type ReminderType string

const (
	ReminderTypeEmail    ReminderType = "email"
	ReminderTypeSMS      ReminderType = "sms"
	ReminderTypeBoth     ReminderType = "both"
	ReminderTypeStandard ReminderType = "standard"
	ReminderTypeUrgent   ReminderType = "urgent"
	ReminderTypeExpiring ReminderType = "expiring"
	ReminderTypeCustom   ReminderType = "custom"
)

// ExpiryFilter names a date window relative to today.
type ExpiryFilter string

const (
	ExpiryFilterAll        ExpiryFilter = "all"
	ExpiryFilterExpired    ExpiryFilter = "expired"
	ExpiryFilterExpiring30 ExpiryFilter = "expiring30"
	ExpiryFilterExpiring90 ExpiryFilter = "expiring90"
)
