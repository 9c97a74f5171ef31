package service

import "time"

// dateOf truncates t to midnight UTC of its calendar day
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// monthBounds returns the first and last day of t's month
func monthBounds(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// ParseMonth parses a YYYY-MM value into the first day of that month
func ParseMonth(value string) (time.Time, error) {
	return time.Parse("2006-01", value)
}
