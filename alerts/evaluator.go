// Package alerts implements the alert generation engine: four rule passes
// over the medicine collection (expiry, stock, interaction, reminder), each
// deduplicated against a persisted set of already-surfaced fingerprints.
// Evaluation is pure; the data registry owns persistence and the
// re-entrancy guard around it.
package alerts

import (
	"fmt"
	"math"
	"time"

	"github.com/medikeep/medikeep-api/entities"
	"github.com/medikeep/medikeep-api/interactions"
	"github.com/medikeep/medikeep-api/logging"
)

const (
	// expiryWindowDays is how far ahead the expiry pass looks.
	expiryWindowDays = 30
	// lowStockPercent is the threshold for the stock pass.
	lowStockPercent = 20.0
	// reminderWindow is how long after the scheduled time a dose reminder
	// can still fire. If no evaluation runs inside the window the reminder
	// is silently missed for that day.
	reminderWindow = 60 * time.Minute
)

// Evaluate runs all four rule passes over the medicine collection and
// returns the newly triggered alerts together with an updated copy of the
// processed-fingerprint set. The inputs are not mutated.
func Evaluate(medicines []entities.Medicine, processed ProcessedSet, now time.Time) ([]entities.Alert, ProcessedSet) {
	updated := processed.Clone()
	var generated []entities.Alert

	emit := func(a entities.Alert) {
		generated = append(generated, a)
		updated.Add(a.ID)
	}

	for i := range medicines {
		expiryPass(&medicines[i], updated, now, emit)
		stockPass(&medicines[i], updated, now, emit)
	}
	interactionPass(medicines, updated, now, emit)
	for i := range medicines {
		reminderPass(&medicines[i], updated, now, emit)
	}

	return generated, updated
}

// expiryPass raises an alert for a medicine expiring within the window. If
// the remaining supply outlasts the expiry date it becomes a
// will-expire-before-use alert that estimates the wasted units; both
// variants share one fingerprint, only the wording differs.
func expiryPass(m *entities.Medicine, processed ProcessedSet, now time.Time, emit func(entities.Alert)) {
	days := m.DaysUntilExpiry(now)
	if days <= 0 || days > expiryWindowDays {
		return
	}

	id := ExpiryFingerprint(m.ID, days)
	if processed.Has(id) {
		return
	}

	dailyUsage := EstimateDailyUsage(m.Frequency)
	daysOfSupply := m.CurrentQuantity / dailyUsage

	alert := entities.Alert{
		ID:          id,
		Type:        entities.AlertExpiry,
		MedicineIDs: []string{m.ID},
		CreatedAt:   now,
	}

	if float64(days) < daysOfSupply {
		waste := math.Round(m.CurrentQuantity - dailyUsage*float64(days))
		if waste < 0 {
			waste = 0
		}
		unit := "units"
		if waste == 1 {
			unit = "unit"
		}
		alert.Title = "Medicine Will Expire Before Use"
		alert.Description = fmt.Sprintf("%s will expire in %d days. Approximately %d %s will be wasted.",
			m.Name, days, int(waste), unit)
	} else {
		alert.Title = "Medicine Expiring Soon"
		alert.Description = fmt.Sprintf("%s will expire in %d days.", m.Name, days)
	}

	emit(alert)
}

// stockPass raises an alert when the remaining stock drops to the threshold,
// bucketed by rounded percentage so each distinct level alerts once.
func stockPass(m *entities.Medicine, processed ProcessedSet, now time.Time, emit func(entities.Alert)) {
	percent := m.PercentRemaining()
	rounded := int(math.Round(percent))

	id := StockFingerprint(m.ID, rounded)
	if processed.Has(id) || percent > lowStockPercent {
		return
	}

	emit(entities.Alert{
		ID:          id,
		Type:        entities.AlertStock,
		Title:       "Medicine Running Low",
		Description: fmt.Sprintf("%s is running low (%d%% remaining).", m.Name, rounded),
		MedicineIDs: []string{m.ID},
		CreatedAt:   now,
	})
}

// interactionPass checks every unordered pair of distinct medicines against
// the static interaction table. The fingerprint sorts the two ids, so each
// pair is evaluated once regardless of collection order. The lookup is
// directional by the first medicine's name; the table lists tracked pairs
// under both names.
func interactionPass(medicines []entities.Medicine, processed ProcessedSet, now time.Time, emit func(entities.Alert)) {
	for i := range medicines {
		for j := i + 1; j < len(medicines); j++ {
			a, b := &medicines[i], &medicines[j]

			id := InteractionFingerprint(a.ID, b.ID)
			if processed.Has(id) {
				continue
			}

			if !interactions.Interacts(a.Name, b.Name) {
				continue
			}

			emit(entities.Alert{
				ID:          id,
				Type:        entities.AlertInteraction,
				Title:       "Medicine Interaction Warning",
				Description: fmt.Sprintf("%s and %s may interact with each other. Please consult your doctor.", a.Name, b.Name),
				MedicineIDs: []string{a.ID, b.ID},
				CreatedAt:   now,
			})
		}
	}
}

// reminderPass raises a dose reminder for each scheduled time that came due
// within the last hour. The fingerprint is scoped to today's date, so the
// same time fires at most once per calendar day and re-arms the next.
func reminderPass(m *entities.Medicine, processed ProcessedSet, now time.Time, emit func(entities.Alert)) {
	for _, timeOfDay := range m.TimeToTake {
		parsed, err := time.Parse("15:04", timeOfDay)
		if err != nil {
			logging.Warn("Skipping unparseable reminder time", "medicine", m.Name, "time", timeOfDay)
			continue
		}

		instant := time.Date(now.Year(), now.Month(), now.Day(),
			parsed.Hour(), parsed.Minute(), 0, 0, now.Location())

		id := ReminderFingerprint(m.ID, timeOfDay, now.Format("2006-01-02"))
		if processed.Has(id) {
			continue
		}

		if now.Before(instant) || now.Sub(instant) > reminderWindow {
			continue
		}

		emit(entities.Alert{
			ID:          id,
			Type:        entities.AlertReminder,
			Title:       "Time to Take Medicine",
			Description: fmt.Sprintf("It's time to take %s (%s).", m.Name, m.Dosage),
			MedicineIDs: []string{m.ID},
			CreatedAt:   now,
		})
	}
}
