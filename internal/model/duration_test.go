package model

import "testing"

func TestDurationAddCarriesFraction(t *testing.T) {
	tests := []struct {
		name string
		a, b Duration
		want Duration
	}{
		{"no carry", Duration{Days: 1, Fraction: 25}, Duration{Days: 2, Fraction: 30}, Duration{Days: 3, Fraction: 55}},
		{"exact carry", Duration{Fraction: 50}, Duration{Fraction: 50}, Duration{Days: 1}},
		{"carry with rest", Duration{Days: 1, Fraction: 75}, Duration{Fraction: 75}, Duration{Days: 2, Fraction: 50}},
		{"zero", Duration{}, Duration{}, Duration{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Add(tt.b)
			if got != tt.want {
				t.Errorf("%v + %v = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got.Fraction < 0 || got.Fraction >= FractionsPerDay {
				t.Errorf("result fraction %d not normalized", got.Fraction)
			}
		})
	}
}

func TestDurationSubSaturates(t *testing.T) {
	tests := []struct {
		name string
		a, b Duration
		want Duration
	}{
		{"plain", Duration{Days: 3, Fraction: 50}, Duration{Days: 1, Fraction: 25}, Duration{Days: 2, Fraction: 25}},
		{"borrow", Duration{Days: 2, Fraction: 25}, Duration{Fraction: 50}, Duration{Days: 1, Fraction: 75}},
		{"equal", Duration{Days: 1, Fraction: 10}, Duration{Days: 1, Fraction: 10}, Duration{}},
		{"underflow", Duration{Fraction: 25}, Duration{Days: 5}, Duration{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Sub(tt.b); got != tt.want {
				t.Errorf("%v - %v = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDurationCmp(t *testing.T) {
	short := Duration{Days: 1, Fraction: 99}
	long := Duration{Days: 2}
	if short.Cmp(long) != -1 || long.Cmp(short) != 1 {
		t.Errorf("days must dominate fraction in ordering")
	}
	if !short.Less(long) || long.Less(short) {
		t.Errorf("Less disagrees with Cmp")
	}
	if (Duration{Days: 1, Fraction: 5}).Cmp(Duration{Days: 1, Fraction: 5}) != 0 {
		t.Errorf("equal durations must compare as 0")
	}
}

func TestDurationFromHundredths(t *testing.T) {
	if got := DurationFromHundredths(250); got != (Duration{Days: 2, Fraction: 50}) {
		t.Errorf("got %v, want 2.50d", got)
	}
	if got := DurationFromHundredths(100); got != (Duration{Days: 1}) {
		t.Errorf("got %v, want 1.00d", got)
	}
}
