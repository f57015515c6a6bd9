package emotion

import (
	"encoding/json"
	"regexp"
	"strings"
)

var listSeparator = regexp.MustCompile(`[,\s]+`)

// ParseList reads a stored emotion list. The store holds either a JSON
// array of strings, a loosely bracketed list such as ['Happy', Sad], or
// plain text separated by commas and/or whitespace. Labels are trimmed and
// empty labels dropped.
func ParseList(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return []string{}
	}

	if strings.HasPrefix(s, "[") && strings.Contains(s, "]") {
		var labels []string
		if err := json.Unmarshal([]byte(s), &labels); err == nil {
			return compact(labels)
		}

		inner := s[strings.Index(s, "[")+1 : strings.LastIndex(s, "]")]
		var out []string
		for _, part := range strings.Split(inner, ",") {
			part = strings.Trim(strings.TrimSpace(part), `'"`)
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		if out == nil {
			return []string{}
		}
		return out
	}

	return compact(listSeparator.Split(s, -1))
}

// FormatList encodes labels the way the store keeps them, as a JSON array
func FormatList(labels []string) string {
	labels = compact(labels)
	b, err := json.Marshal(labels)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func compact(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
