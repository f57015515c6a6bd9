// Package timeutil encodes stopwatch elapsed times and sums free-text estimates.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// ZeroElapsed is the display of a stopwatch that has never run
const ZeroElapsed = "00:00:00"

// ParseElapsed converts "HH:MM:SS" to seconds. Anything that is not exactly
// three non-negative integer fields yields 0. Hours are unbounded and the
// minute and second fields are not range checked.
func ParseElapsed(s string) int {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0
	}

	var fields [3]int
	for i, p := range parts {
		if p == "" || !isDigits(p) {
			return 0
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		fields[i] = n
	}
	return fields[0]*3600 + fields[1]*60 + fields[2]
}

// FormatElapsed renders seconds as "HH:MM:SS" with each field padded to two
// digits. Hours grow past 99 rather than wrapping; negatives render as zero.
func FormatElapsed(total int) string {
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
