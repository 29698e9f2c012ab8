package alerts

import (
	"strings"
	"testing"
	"time"

	"github.com/medikeep/medikeep-api/entities"
)

var noon = time.Date(2026, 8, 29, 12, 30, 0, 0, time.UTC)

func testMedicine(id, name string) entities.Medicine {
	return entities.Medicine{
		ID:              id,
		Name:            name,
		Dosage:          "100mg",
		Frequency:       "Once daily",
		TotalQuantity:   100,
		CurrentQuantity: 100,
		ExpiryDate:      noon.AddDate(2, 0, 0),
		CreatedAt:       noon.AddDate(0, -1, 0),
	}
}

func TestExpiryPassBuckets(t *testing.T) {
	med := testMedicine("m1", "Metformin")
	med.ExpiryDate = noon.Add(10 * 24 * time.Hour)
	med.CurrentQuantity = 50

	generated, processed := Evaluate([]entities.Medicine{med}, make(ProcessedSet), noon)

	if len(generated) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(generated))
	}
	alert := generated[0]
	if alert.ID != "expiry:m1:10" {
		t.Errorf("alert ID = %q, want expiry:m1:10", alert.ID)
	}
	if alert.Type != entities.AlertExpiry {
		t.Errorf("alert type = %q, want expiry", alert.Type)
	}
	// 50 units at 1/day with 10 days left: 40 wasted
	if alert.Title != "Medicine Will Expire Before Use" {
		t.Errorf("alert title = %q", alert.Title)
	}
	if !strings.Contains(alert.Description, "40 units") {
		t.Errorf("description should estimate 40 wasted units, got %q", alert.Description)
	}

	// Same conditions, same processed set: nothing new
	again, _ := Evaluate([]entities.Medicine{med}, processed, noon)
	if len(again) != 0 {
		t.Errorf("re-evaluation produced %d duplicate alerts", len(again))
	}

	// One day later the bucket changes and a fresh alert is allowed
	later, _ := Evaluate([]entities.Medicine{med}, processed, noon.Add(24*time.Hour))
	if len(later) != 1 || later[0].ID != "expiry:m1:9" {
		t.Errorf("expected expiry:m1:9 after a day, got %+v", later)
	}
}

// A supply that runs out before the expiry date gets the plain wording: the
// medicine is used up in time, nothing is wasted.
func TestExpiryPassSupplyRunsOutFirst(t *testing.T) {
	med := testMedicine("m1", "Metformin")
	med.ExpiryDate = noon.Add(10 * 24 * time.Hour)
	med.CurrentQuantity = 3

	generated, _ := Evaluate([]entities.Medicine{med}, make(ProcessedSet), noon)

	if len(generated) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(generated))
	}
	if generated[0].Title != "Medicine Expiring Soon" {
		t.Errorf("alert title = %q, want Medicine Expiring Soon", generated[0].Title)
	}
	if strings.Contains(generated[0].Description, "wasted") {
		t.Errorf("no waste estimate expected, got %q", generated[0].Description)
	}
}

func TestExpiryPassIgnoresExpiredAndDistant(t *testing.T) {
	expired := testMedicine("m1", "Metformin")
	expired.ExpiryDate = noon.Add(-24 * time.Hour)

	distant := testMedicine("m2", "Lisinopril")
	distant.ExpiryDate = noon.Add(31 * 24 * time.Hour)

	generated, _ := Evaluate([]entities.Medicine{expired, distant}, make(ProcessedSet), noon)
	for _, a := range generated {
		if a.Type == entities.AlertExpiry {
			t.Errorf("unexpected expiry alert %q", a.ID)
		}
	}
}

func TestStockPassBuckets(t *testing.T) {
	med := testMedicine("m1", "Metformin")
	med.TotalQuantity = 100
	med.CurrentQuantity = 5

	generated, processed := Evaluate([]entities.Medicine{med}, make(ProcessedSet), noon)

	if len(generated) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(generated))
	}
	if generated[0].ID != "stock:m1:5" {
		t.Errorf("alert ID = %q, want stock:m1:5", generated[0].ID)
	}

	// Unchanged quantity: no duplicate
	again, _ := Evaluate([]entities.Medicine{med}, processed, noon)
	if len(again) != 0 {
		t.Errorf("unchanged stock produced %d duplicate alerts", len(again))
	}

	// A drop that changes the rounded percentage re-triggers
	med.CurrentQuantity = 4
	dropped, _ := Evaluate([]entities.Medicine{med}, processed, noon)
	if len(dropped) != 1 || dropped[0].ID != "stock:m1:4" {
		t.Errorf("expected stock:m1:4, got %+v", dropped)
	}
}

func TestStockPassThreshold(t *testing.T) {
	med := testMedicine("m1", "Metformin")
	med.CurrentQuantity = 21

	generated, _ := Evaluate([]entities.Medicine{med}, make(ProcessedSet), noon)
	if len(generated) != 0 {
		t.Errorf("21%% stock should not alert, got %+v", generated)
	}

	med.CurrentQuantity = 20
	generated, _ = Evaluate([]entities.Medicine{med}, make(ProcessedSet), noon)
	if len(generated) != 1 {
		t.Errorf("20%% stock should alert, got %+v", generated)
	}
}

func TestInteractionPassIsSymmetricAndDeduplicated(t *testing.T) {
	aspirin := testMedicine("a1", "Aspirin")
	warfarin := testMedicine("w1", "Warfarin")

	generated, _ := Evaluate([]entities.Medicine{aspirin, warfarin}, make(ProcessedSet), noon)
	interactionAlerts := FilterByType(generated, entities.AlertInteraction)
	if len(interactionAlerts) != 1 {
		t.Fatalf("expected exactly 1 interaction alert, got %d", len(interactionAlerts))
	}

	// Reversed collection order yields the identical fingerprint
	reversed, _ := Evaluate([]entities.Medicine{warfarin, aspirin}, make(ProcessedSet), noon)
	reversedAlerts := FilterByType(reversed, entities.AlertInteraction)
	if len(reversedAlerts) != 1 {
		t.Fatalf("expected exactly 1 interaction alert in reversed order, got %d", len(reversedAlerts))
	}
	if interactionAlerts[0].ID != reversedAlerts[0].ID {
		t.Errorf("fingerprints differ by order: %q vs %q", interactionAlerts[0].ID, reversedAlerts[0].ID)
	}
	if interactionAlerts[0].ID != "interaction:a1:w1" {
		t.Errorf("fingerprint = %q, want interaction:a1:w1", interactionAlerts[0].ID)
	}
}

func TestInteractionPassMatchesNamesCaseInsensitively(t *testing.T) {
	a := testMedicine("a1", "  aspirin ")
	b := testMedicine("w1", "WARFARIN")

	generated, _ := Evaluate([]entities.Medicine{a, b}, make(ProcessedSet), noon)
	if len(FilterByType(generated, entities.AlertInteraction)) != 1 {
		t.Error("case and whitespace differences should not hide an interaction")
	}
}

func TestInteractionPassSkipsUnrelatedPairs(t *testing.T) {
	a := testMedicine("m1", "Metformin")
	b := testMedicine("m2", "Lisinopril")

	generated, _ := Evaluate([]entities.Medicine{a, b}, make(ProcessedSet), noon)
	if len(FilterByType(generated, entities.AlertInteraction)) != 0 {
		t.Errorf("Metformin and Lisinopril do not interact, got %+v", generated)
	}
}

func TestReminderPassWindow(t *testing.T) {
	med := testMedicine("m1", "Metformin")
	med.TimeToTake = []string{"12:00", "13:00", "10:00"}

	generated, _ := Evaluate([]entities.Medicine{med}, make(ProcessedSet), noon)
	reminders := FilterByType(generated, entities.AlertReminder)

	// 12:00 is 30 minutes ago (inside window), 13:00 is in the future,
	// 10:00 was missed by more than an hour.
	if len(reminders) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(reminders))
	}
	if reminders[0].ID != "reminder:m1:12:00:2026-08-29" {
		t.Errorf("reminder ID = %q", reminders[0].ID)
	}
}

func TestReminderPassIsDateScoped(t *testing.T) {
	med := testMedicine("m1", "Metformin")
	med.TimeToTake = []string{"12:00"}

	generated, processed := Evaluate([]entities.Medicine{med}, make(ProcessedSet), noon)
	if len(generated) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(generated))
	}

	// Same day, still inside the window: suppressed
	again, _ := Evaluate([]entities.Medicine{med}, processed, noon.Add(15*time.Minute))
	if len(again) != 0 {
		t.Errorf("same-day re-evaluation produced %d duplicate reminders", len(again))
	}

	// Next day at the same wall-clock time: re-armed
	nextDay, _ := Evaluate([]entities.Medicine{med}, processed, noon.Add(24*time.Hour))
	if len(nextDay) != 1 || nextDay[0].ID != "reminder:m1:12:00:2026-08-30" {
		t.Errorf("expected re-armed reminder for the next day, got %+v", nextDay)
	}
}

func TestReminderPassSkipsMalformedTimes(t *testing.T) {
	med := testMedicine("m1", "Metformin")
	med.TimeToTake = []string{"not-a-time", "12:00"}

	generated, _ := Evaluate([]entities.Medicine{med}, make(ProcessedSet), noon)
	if len(generated) != 1 {
		t.Errorf("malformed entry should be skipped, got %d alerts", len(generated))
	}
}

func TestEvaluateDoesNotMutateInputs(t *testing.T) {
	med := testMedicine("m1", "Metformin")
	med.CurrentQuantity = 5

	processed := make(ProcessedSet)
	Evaluate([]entities.Medicine{med}, processed, noon)

	if len(processed) != 0 {
		t.Errorf("input processed set was mutated, has %d entries", len(processed))
	}
}
