package alerts

import (
	"fmt"
	"sort"
	"strings"
)

// Fingerprints are the deterministic alert identities used for
// deduplication. Re-evaluating an unchanged condition always rebuilds the
// same fingerprint, so it can be checked against the processed set.

// ExpiryFingerprint identifies an expiry condition bucketed by whole days
// until expiry.
func ExpiryFingerprint(medicineID string, daysUntilExpiry int) string {
	return fmt.Sprintf("expiry:%s:%d", medicineID, daysUntilExpiry)
}

// StockFingerprint identifies a low-stock condition bucketed by the rounded
// remaining percentage.
func StockFingerprint(medicineID string, roundedPercent int) string {
	return fmt.Sprintf("stock:%s:%d", medicineID, roundedPercent)
}

// InteractionFingerprint identifies an interacting pair. The ids are sorted
// so both orderings of the pair map to the same fingerprint.
func InteractionFingerprint(idA, idB string) string {
	pair := []string{idA, idB}
	sort.Strings(pair)
	return "interaction:" + strings.Join(pair, ":")
}

// ReminderFingerprint identifies one scheduled dose on one calendar day, so
// the same wall-clock time re-arms the next day.
func ReminderFingerprint(medicineID, timeOfDay, date string) string {
	return fmt.Sprintf("reminder:%s:%s:%s", medicineID, timeOfDay, date)
}

// ProcessedSet records the fingerprints already surfaced at least once.
// Membership suppresses regeneration of the same alert on later runs.
type ProcessedSet map[string]struct{}

// NewProcessedSet builds a set from a persisted fingerprint list.
func NewProcessedSet(ids []string) ProcessedSet {
	set := make(ProcessedSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether the fingerprint was already surfaced.
func (s ProcessedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add marks a fingerprint as surfaced.
func (s ProcessedSet) Add(id string) {
	s[id] = struct{}{}
}

// Clone returns an independent copy.
func (s ProcessedSet) Clone() ProcessedSet {
	clone := make(ProcessedSet, len(s))
	for id := range s {
		clone[id] = struct{}{}
	}
	return clone
}

// PurgeContaining removes every fingerprint containing the given substring.
// Used on medicine deletion: an id is always a substring of any fingerprint
// built from it, so the match may over-purge but never under-purges.
// Returns the number of fingerprints removed.
func (s ProcessedSet) PurgeContaining(substring string) int {
	removed := 0
	for id := range s {
		if strings.Contains(id, substring) {
			delete(s, id)
			removed++
		}
	}
	return removed
}

// PurgeStaleReminders drops date-scoped reminder fingerprints from calendar
// days before today. They can never match again, so keeping them only grows
// the persisted set. Returns the number of fingerprints removed.
func (s ProcessedSet) PurgeStaleReminders(today string) int {
	removed := 0
	for id := range s {
		if !strings.HasPrefix(id, "reminder:") {
			continue
		}
		// The date is the final colon-separated component.
		date := id[strings.LastIndex(id, ":")+1:]
		if len(date) == len(today) && date < today {
			delete(s, id)
			removed++
		}
	}
	return removed
}

// Sorted returns the fingerprints as a sorted slice for stable persistence.
func (s ProcessedSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
