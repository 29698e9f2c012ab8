package alerts

import (
	"math"
	"testing"
)

func TestEstimateDailyUsage(t *testing.T) {
	tests := []struct {
		frequency string
		want      float64
	}{
		{"Once daily", 1},
		{"daily with food", 1},
		{"One tablet per day", 1},
		{"Twice daily", 2},
		{"two times a day", 2},
		{"Three times daily", 3},
		{"Four times daily", 4},
		{"Weekly", 1.0 / 7},
		{"Once a week", 1.0 / 7},
		{"", 1},
		{"as needed", 1},
	}

	for _, tt := range tests {
		got := EstimateDailyUsage(tt.frequency)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("EstimateDailyUsage(%q) = %v, want %v", tt.frequency, got, tt.want)
		}
	}
}

// "every other day" contains the substring "day"; a wrong rule order would
// classify it as one dose per day instead of half.
func TestEstimateDailyUsageOrderingHazard(t *testing.T) {
	if got := EstimateDailyUsage("Every other day"); got != 0.5 {
		t.Errorf("EstimateDailyUsage(\"Every other day\") = %v, want 0.5", got)
	}
	if got := EstimateDailyUsage("alternate days"); got != 0.5 {
		t.Errorf("EstimateDailyUsage(\"alternate days\") = %v, want 0.5", got)
	}
	if got := EstimateDailyUsage("once a week with dinner"); got != 1.0/7 {
		t.Errorf("EstimateDailyUsage(\"once a week with dinner\") = %v, want 1/7", got)
	}
}
