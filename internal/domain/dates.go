package domain

import "time"

// DateLayout is the wire and form layout for calendar dates.
const DateLayout = "2006-01-02"

// Calendar dates are UTC midnight of the day as read in the value's own
// location, so dates parsed from text and dates taken from a local clock
// compare as the same day.

// StripTime returns the calendar day of t as UTC midnight.
func StripTime(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FirstOfMonth returns the first day of t's month.
func FirstOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// FirstOfYear returns January 1st of t's year.
func FirstOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// LastOfPreviousMonth returns midnight of the last day before t's month.
func LastOfPreviousMonth(t time.Time) time.Time {
	return FirstOfMonth(t).AddDate(0, 0, -1)
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Before reports whether ym is an earlier month than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Previous returns the preceding calendar month.
func (ym YearMonth) Previous() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}
