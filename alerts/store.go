package alerts

import "github.com/medikeep/medikeep-api/entities"

// Merge combines stored and newly generated alerts, deduplicating by alert
// ID with last-write-wins. An alert keeps the position of its first
// occurrence, so the stored ordering is stable across merges. Merging the
// same slice twice is a no-op.
func Merge(existing, incoming []entities.Alert) []entities.Alert {
	merged := make([]entities.Alert, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing)+len(incoming))

	for _, lists := range [][]entities.Alert{existing, incoming} {
		for _, alert := range lists {
			if pos, ok := index[alert.ID]; ok {
				merged[pos] = alert
				continue
			}
			index[alert.ID] = len(merged)
			merged = append(merged, alert)
		}
	}

	return merged
}

// FilterByType returns the alerts of one kind, preserving order.
func FilterByType(list []entities.Alert, kind entities.AlertType) []entities.Alert {
	var filtered []entities.Alert
	for _, alert := range list {
		if alert.Type == kind {
			filtered = append(filtered, alert)
		}
	}
	return filtered
}

// FilterUnread returns the alerts not yet marked as read, preserving order.
func FilterUnread(list []entities.Alert) []entities.Alert {
	var filtered []entities.Alert
	for _, alert := range list {
		if !alert.Read {
			filtered = append(filtered, alert)
		}
	}
	return filtered
}
