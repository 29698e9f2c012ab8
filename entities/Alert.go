package entities

import "time"

// AlertType identifies which rule pass produced an alert.
type AlertType string

const (
	AlertExpiry      AlertType = "expiry"
	AlertStock       AlertType = "stock"
	AlertInteraction AlertType = "interaction"
	AlertReminder    AlertType = "reminder"
)

// Valid reports whether t is one of the four known alert types.
func (t AlertType) Valid() bool {
	switch t {
	case AlertExpiry, AlertStock, AlertInteraction, AlertReminder:
		return true
	}
	return false
}

// Alert represents one surfaced condition. The ID is a deterministic
// fingerprint encoding the alert type, the medicine(s) concerned and a
// discretized severity bucket, so re-evaluating an unchanged condition
// yields the same ID. At most one stored alert exists per ID.
type Alert struct {
	ID          string    `json:"id"`
	Type        AlertType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MedicineIDs []string  `json:"medicineIds"`
	CreatedAt   time.Time `json:"createdAt"`
	Read        bool      `json:"read"`
}

// References reports whether the alert concerns the given medicine.
func (a *Alert) References(medicineID string) bool {
	for _, id := range a.MedicineIDs {
		if id == medicineID {
			return true
		}
	}
	return false
}
