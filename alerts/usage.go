package alerts

import "strings"

// usageRule maps a frequency phrase to an estimated doses-per-day multiplier.
type usageRule struct {
	phrase string
	perDay float64
}

// usageRules is evaluated top to bottom, first substring match wins.
// The longer, more specific phrases must stay ahead of the generic
// "daily"/"day" rules: "every other day" contains "day", so a naive
// ordering would misread it as one dose per day.
var usageRules = []usageRule{
	{"every other day", 0.5},
	{"alternate day", 0.5},
	{"once a week", 1.0 / 7},
	{"weekly", 1.0 / 7},
	{"four times", 4},
	{"three times", 3},
	{"twice daily", 2},
	{"two times", 2},
	{"once daily", 1},
	{"daily", 1},
	{"day", 1},
}

// EstimateDailyUsage estimates doses consumed per day from a free-text
// frequency description. Unknown descriptions default to one dose per day.
func EstimateDailyUsage(frequency string) float64 {
	lower := strings.ToLower(frequency)
	for _, rule := range usageRules {
		if strings.Contains(lower, rule.phrase) {
			return rule.perDay
		}
	}
	return 1
}
