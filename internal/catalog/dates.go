package catalog

import (
	"strings"
	"time"
)

var frenchMonths = map[string]string{
	"janvier":   "January",
	"février":   "February",
	"fevrier":   "February",
	"mars":      "March",
	"avril":     "April",
	"mai":       "May",
	"juin":      "June",
	"juillet":   "July",
	"août":      "August",
	"aout":      "August",
	"septembre": "September",
	"octobre":   "October",
	"novembre":  "November",
	"décembre":  "December",
	"decembre":  "December",
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2 January 2006",
	"02 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"02/01/2006",
}

// parseDate attempts to parse the loose date strings the backend emits:
// ISO timestamps, bare dates, and English or French prose dates. Dates with
// no time component land at end of day so a same-day deadline is still open.
func parseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return t, true
	}

	cleaned := cleanDateString(text)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			if strings.Contains(format, ":") {
				return t, true
			}
			return toEndOfDay(t), true
		}
	}

	// French prose dates: "15 octobre 2024", "1er mars 2025".
	lowered := strings.ToLower(cleaned)
	lowered = strings.ReplaceAll(lowered, "1er", "1")
	lowered = strings.ReplaceAll(lowered, " de ", " ")
	for fr, en := range frenchMonths {
		if strings.Contains(lowered, fr) {
			lowered = strings.ReplaceAll(lowered, fr, en)
			break
		}
	}
	for _, format := range []string{"2 January 2006", "02 January 2006"} {
		if t, err := time.Parse(format, lowered); err == nil {
			return toEndOfDay(t), true
		}
	}

	return time.Time{}, false
}

func cleanDateString(text string) string {
	text = strings.TrimSpace(text)
	for _, noise := range []string{"Deadline:", "Due:", "Date limite:", "Le "} {
		text = strings.TrimSpace(strings.TrimPrefix(text, noise))
	}
	return strings.Join(strings.Fields(text), " ")
}

func toEndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// startOfDay truncates a timestamp to local midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
