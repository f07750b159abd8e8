package model

import "fmt"

// FractionsPerDay is the resolution of the fixed-point Duration type:
// one working day is split into 100 hundredths.
const FractionsPerDay = 100

// Duration is a fixed-point amount of working time: whole days plus
// hundredths of a day. The fraction is always normalized to 0..99.
// It is used for planned task durations, logged work, and allocated work.
type Duration struct {
	Days     uint64 `json:"days"`
	Fraction int    `json:"fraction"`
}

// DurationDays returns a Duration of n whole days.
func DurationDays(n uint64) Duration {
	return Duration{Days: n}
}

// DurationFromHundredths builds a normalized Duration from a total
// number of hundredths of a day.
func DurationFromHundredths(n uint64) Duration {
	return Duration{Days: n / FractionsPerDay, Fraction: int(n % FractionsPerDay)}
}

// IsZero reports whether d represents no time at all.
func (d Duration) IsZero() bool {
	return d.Days == 0 && d.Fraction == 0
}

// Add returns d+other, carrying fraction overflow into days.
func (d Duration) Add(other Duration) Duration {
	frac := d.Fraction + other.Fraction
	days := d.Days + other.Days + uint64(frac/FractionsPerDay)
	return Duration{Days: days, Fraction: frac % FractionsPerDay}
}

// Sub returns d-other, saturating at zero. A Duration is never negative.
func (d Duration) Sub(other Duration) Duration {
	if d.Cmp(other) <= 0 {
		return Duration{}
	}
	days := d.Days - other.Days
	frac := d.Fraction - other.Fraction
	if frac < 0 {
		days--
		frac += FractionsPerDay
	}
	return Duration{Days: days, Fraction: frac}
}

// Cmp compares two Durations: -1 if d < other, 0 if equal, 1 if d > other.
// Days are compared first, then fractions.
func (d Duration) Cmp(other Duration) int {
	switch {
	case d.Days < other.Days:
		return -1
	case d.Days > other.Days:
		return 1
	case d.Fraction < other.Fraction:
		return -1
	case d.Fraction > other.Fraction:
		return 1
	default:
		return 0
	}
}

// Less reports whether d is strictly shorter than other.
func (d Duration) Less(other Duration) bool {
	return d.Cmp(other) < 0
}

func (d Duration) String() string {
	return fmt.Sprintf("%d.%02dd", d.Days, d.Fraction)
}
