package tree

import (
	"strings"
	"time"
)

// NoDateKey is the group key for tasks whose createdAt cannot be read
const NoDateKey = "No Date"

const dateLayout = "2006-01-02"

var createdLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	dateLayout,
}

// DateKey extracts the ISO calendar date of a createdAt timestamp. The date
// is taken as written, with no time zone conversion. Unreadable values
// return NoDateKey and false.
func DateKey(createdAt string) (string, bool) {
	s := strings.TrimSpace(createdAt)
	if s == "" {
		return NoDateKey, false
	}
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout), true
		}
	}
	// Fall back to a leading date followed by anything, e.g. fractional seconds.
	if len(s) >= len(dateLayout) {
		if t, err := time.Parse(dateLayout, s[:len(dateLayout)]); err == nil {
			if len(s) == len(dateLayout) || s[len(dateLayout)] == ' ' || s[len(dateLayout)] == 'T' {
				return t.Format(dateLayout), true
			}
		}
	}
	return NoDateKey, false
}

// DateLabel renders a date key relative to now: "Today", "Yesterday" or
// a fixed English form such as "Monday, Jan 2".
func DateLabel(key string, now time.Time) string {
	d, err := time.ParseInLocation(dateLayout, key, now.Location())
	if err != nil {
		return NoDateKey
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case d.Equal(today):
		return "Today"
	case d.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		if d.Year() != now.Year() {
			return d.Format("Monday, Jan 2 2006")
		}
		return d.Format("Monday, Jan 2")
	}
}
