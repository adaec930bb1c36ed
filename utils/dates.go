// utils/dates.go
package utils

import (
	"fmt"
	"time"
)

// FormatDateTime renders timestamps the way the read views present them,
// e.g. "January 02, 2006 03:04 PM". Nil in, nil out.
func FormatDateTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("January 02, 2006 03:04 PM")
	return &s
}

// FormatDurationMins renders a duration in minutes as "X hours Y minutes".
func FormatDurationMins(mins *int) *string {
	if mins == nil {
		return nil
	}
	hours, minutes := *mins/60, *mins%60
	var s string
	switch {
	case hours > 0 && minutes > 0:
		s = fmt.Sprintf("%d hours %d minutes", hours, minutes)
	case hours > 0:
		s = fmt.Sprintf("%d hours", hours)
	case minutes > 0:
		s = fmt.Sprintf("%d minutes", minutes)
	default:
		return nil
	}
	return &s
}

// ParseClockDuration parses "HH:MM" into whole minutes.
func ParseClockDuration(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
