package domain

import "time"

// logDateLayout renders a calendar day as weekday-month-day-year, e.g.
// "Mon May 01 2023". The form is fixed ASCII and does not vary by locale.
const logDateLayout = "Mon Jan 02 2006"

// FormatLogDate renders the date portion of t for log entries and views.
func FormatLogDate(t time.Time) string {
	return t.Format(logDateLayout)
}

// DateOnly truncates t to its calendar day in t's location.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
