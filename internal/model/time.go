package model

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseClock parses an HH:mm clock string onto a fixed reference date so
// that clock times can be compared independently of the calendar day.
func ParseClock(hhmm string) (time.Time, error) {
	t, err := time.Parse(ClockLayout, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", hhmm, err)
	}
	return time.Date(2000, time.January, 1, t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// At combines a calendar day and a clock time into an instant in loc.
func At(date, hhmm string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	clock, err := time.Parse(ClockLayout, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", hhmm, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// WeekdayKey returns the lowercase English weekday name used as the
// BusinessHours map key.
func WeekdayKey(d time.Weekday) string {
	switch d {
	case time.Sunday:
		return "sunday"
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	}
	return ""
}
