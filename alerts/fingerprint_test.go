package alerts

import (
	"testing"
)

func TestFingerprintFormats(t *testing.T) {
	if got := ExpiryFingerprint("m1", 10); got != "expiry:m1:10" {
		t.Errorf("ExpiryFingerprint = %q", got)
	}
	if got := StockFingerprint("m1", 5); got != "stock:m1:5" {
		t.Errorf("StockFingerprint = %q", got)
	}
	if got := ReminderFingerprint("m1", "08:30", "2026-08-29"); got != "reminder:m1:08:30:2026-08-29" {
		t.Errorf("ReminderFingerprint = %q", got)
	}
}

func TestInteractionFingerprintIsOrderIndependent(t *testing.T) {
	ab := InteractionFingerprint("a1", "b1")
	ba := InteractionFingerprint("b1", "a1")

	if ab != ba {
		t.Errorf("pair fingerprints differ: %q vs %q", ab, ba)
	}
	if ab != "interaction:a1:b1" {
		t.Errorf("InteractionFingerprint = %q, want interaction:a1:b1", ab)
	}
}

func TestProcessedSetRoundTrip(t *testing.T) {
	set := NewProcessedSet([]string{"expiry:m1:10", "stock:m1:5"})

	if !set.Has("expiry:m1:10") {
		t.Error("expected membership for persisted fingerprint")
	}
	if set.Has("stock:m1:4") {
		t.Error("unexpected membership")
	}

	set.Add("stock:m1:4")
	sorted := set.Sorted()
	want := []string{"expiry:m1:10", "stock:m1:4", "stock:m1:5"}
	if len(sorted) != len(want) {
		t.Fatalf("Sorted returned %d entries, want %d", len(sorted), len(want))
	}
	for i := range want {
		if sorted[i] != want[i] {
			t.Errorf("Sorted[%d] = %q, want %q", i, sorted[i], want[i])
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	set := NewProcessedSet([]string{"stock:m1:5"})
	clone := set.Clone()
	clone.Add("stock:m1:4")

	if set.Has("stock:m1:4") {
		t.Error("mutating the clone changed the original")
	}
}

func TestPurgeContaining(t *testing.T) {
	set := NewProcessedSet([]string{
		"expiry:m1:10",
		"stock:m1:5",
		"interaction:m1:m2",
		"stock:m2:12",
	})

	removed := set.PurgeContaining("m1")
	if removed != 3 {
		t.Errorf("PurgeContaining removed %d, want 3", removed)
	}
	if !set.Has("stock:m2:12") {
		t.Error("fingerprint for other medicines should survive the purge")
	}
	if set.Has("interaction:m1:m2") {
		t.Error("pair fingerprint containing the id should be purged")
	}
}

func TestPurgeStaleReminders(t *testing.T) {
	set := NewProcessedSet([]string{
		"reminder:m1:08:00:2026-08-27",
		"reminder:m1:08:00:2026-08-29",
		"reminder:m2:21:30:2026-08-28",
		"stock:m1:5",
	})

	removed := set.PurgeStaleReminders("2026-08-29")
	if removed != 2 {
		t.Errorf("PurgeStaleReminders removed %d, want 2", removed)
	}
	if !set.Has("reminder:m1:08:00:2026-08-29") {
		t.Error("today's reminder fingerprint must survive compaction")
	}
	if !set.Has("stock:m1:5") {
		t.Error("non-reminder fingerprints must survive compaction")
	}
}
