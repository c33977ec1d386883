package mysql

import (
	"strings"
	"time"
)

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func timeOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// windowStart is the lower bound of a days-long window ending now.
func windowStart(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -days)
}
