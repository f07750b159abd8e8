package model

import (
	"encoding/json"
	"time"
)

// Date is a calendar day, stored as the number of days since the Unix
// epoch. Dates are valid map keys and cheap to walk forward day by day.
type Date int64

const dateLayout = "2006-01-02"

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) Date {
	t = t.UTC()
	midnight := t.Unix() - int64(t.Hour())*3600 - int64(t.Minute())*60 - int64(t.Second())
	return Date(midnight / (24 * 3600))
}

// MakeDate builds a Date from a civil year/month/day.
func MakeDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Today returns the current calendar day in UTC.
func Today() Date {
	return DateOf(time.Now())
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Unix(int64(d)*24*3600, 0).UTC()
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return d + Date(n)
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	// Day 0 (1970-01-01) was a Thursday.
	w := (int64(d)%7 + 7 + int64(time.Thursday)) % 7
	return time.Weekday(w)
}

// IsWeekend reports whether the day is a Saturday or Sunday.
func (d Date) IsWeekend() bool {
	w := d.Weekday()
	return w == time.Saturday || w == time.Sunday
}

// SkipWeekend returns d itself on a weekday, otherwise the following Monday.
func (d Date) SkipWeekend() Date {
	for d.IsWeekend() {
		d++
	}
	return d
}

// NextWeekday returns the first weekday strictly after d.
func (d Date) NextWeekday() Date {
	return (d + 1).SkipWeekend()
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" date string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	*d = DateOf(t)
	return nil
}
