package habit

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time-of-day or location. The zero value
// is not a valid date; use NewDate, DateOf, or ParseDate.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for year, month and day, normalizing overflow the
// same way time.Date does (e.g. January 32 becomes February 1).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// midnight returns d as a UTC time at 00:00. UTC has no DST transitions, so
// day arithmetic on it is exact.
func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n days (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnight().AddDate(0, 0, n))
}

// DaysSince returns the number of days from o to d; negative when d is
// before o.
func (d Date) DaysSince(o Date) int {
	return int(d.midnight().Sub(o.midnight()).Hours() / 24)
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool {
	return d.midnight().Before(o.midnight())
}

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool {
	return d.midnight().After(o.midnight())
}

// Weekday returns the day of the week for d.
func (d Date) Weekday() time.Weekday {
	return d.midnight().Weekday()
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}

// NextMonth returns the first day of the month following d's month.
func (d Date) NextMonth() Date {
	return DateOf(d.FirstOfMonth().midnight().AddDate(0, 1, 0))
}

// DaysInMonth returns the number of days in d's month.
func (d Date) DaysInMonth() int {
	return d.NextMonth().AddDays(-1).Day
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock returns the current instant. Tests substitute a fixed clock.
type Clock func() time.Time

// Today returns the local calendar date reported by c, or by time.Now when
// c is nil.
func Today(c Clock) Date {
	if c == nil {
		return DateOf(time.Now())
	}
	return DateOf(c())
}
