package entities

import "time"

// Medicine represents one tracked drug for one household member.
// CurrentQuantity counts the units still on hand and must stay within
// [0, TotalQuantity]. Interactions is computed once at add-time against the
// medicines already tracked; it is a display hint, not a source of truth
// (the alert evaluator recomputes pairwise interactions live).
type Medicine struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Dosage          string    `json:"dosage"`
	Frequency       string    `json:"frequency"`
	TotalQuantity   float64   `json:"totalQuantity"`
	CurrentQuantity float64   `json:"currentQuantity"`
	ExpiryDate      time.Time `json:"expiryDate"`
	Notes           string    `json:"notes,omitempty"`
	Interactions    []string  `json:"interactions,omitempty"`
	TimeToTake      []string  `json:"timeToTake,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// DaysUntilExpiry returns the number of whole days from now until the
// medicine expires, rounding partial days up. Expired medicines yield zero
// or negative values.
func (m *Medicine) DaysUntilExpiry(now time.Time) int {
	diff := m.ExpiryDate.Sub(now)
	days := int(diff.Hours() / 24)
	if diff > 0 && diff%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// PercentRemaining returns the remaining stock as a percentage of the total.
// A zero TotalQuantity reports 0 so callers never divide by zero.
func (m *Medicine) PercentRemaining() float64 {
	if m.TotalQuantity <= 0 {
		return 0
	}
	return m.CurrentQuantity / m.TotalQuantity * 100
}
