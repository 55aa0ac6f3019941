package utils

import (
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.Local)
}

// ParseInspectionDate accepts the formats the booking form produces:
// a bare date or an HTML datetime-local value.
func ParseInspectionDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02T15:04", time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(layoutDateTime)
}

// HumanDate renders the inspection date the way confirmation pages show it,
// e.g. "Monday, January 20, 2025 10:00 AM". Unparseable input is returned as is.
func HumanDate(s string) string {
	t, ok := ParseInspectionDate(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	if strings.Contains(s, "T") || strings.Contains(s, ":") {
		return t.Format("Monday, January 2, 2006 3:04 PM")
	}
	return t.Format("Monday, January 2, 2006")
}
