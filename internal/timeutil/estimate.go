package timeutil

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var (
	hourPattern   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:hour|hr|h)s?`)
	minutePattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:minute|min|m)s?`)
)

// EstimateMinutes extracts minutes from a free-text estimate such as
// "2h 15m", "1.5 hours" or "45 min". Only the first hour quantity and the
// first minute quantity count. Unrecognised text is 0.
func EstimateMinutes(s string) float64 {
	var total float64
	if m := hourPattern.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			total += v * 60
		}
	}
	if m := minutePattern.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			total += v
		}
	}
	return total
}

// SumEstimates adds the estimates and formats the total, rounding once at the end
func SumEstimates(estimates ...string) string {
	var total float64
	for _, e := range estimates {
		total += EstimateMinutes(e)
	}
	return FormatMinutes(total)
}

// FormatMinutes renders minutes as "Nm", "Nh" or "Nh Mm"
func FormatMinutes(total float64) string {
	if total < 0 || math.IsNaN(total) {
		total = 0
	}
	hours := int(math.Floor(total / 60))
	minutes := int(math.Round(math.Mod(total, 60)))

	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}
