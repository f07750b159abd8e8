package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateWeekday(t *testing.T) {
	// 2026-08-24 is a Monday.
	mon := MakeDate(2026, time.August, 24)
	if mon.Weekday() != time.Monday {
		t.Fatalf("2026-08-24 weekday = %v, want Monday", mon.Weekday())
	}
	if mon.IsWeekend() {
		t.Errorf("Monday reported as weekend")
	}
	sat := mon.AddDays(5)
	if !sat.IsWeekend() {
		t.Errorf("Saturday not reported as weekend")
	}
}

func TestDateSkipWeekend(t *testing.T) {
	fri := MakeDate(2026, time.August, 28)
	sat := fri.AddDays(1)
	mon := fri.AddDays(3)

	if got := fri.SkipWeekend(); got != fri {
		t.Errorf("SkipWeekend moved a weekday: %v", got)
	}
	if got := sat.SkipWeekend(); got != mon {
		t.Errorf("SkipWeekend(Sat) = %v, want %v", got, mon)
	}
	if got := fri.NextWeekday(); got != mon {
		t.Errorf("NextWeekday(Fri) = %v, want %v", got, mon)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := MakeDate(2026, time.February, 3)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2026-02-03"` {
		t.Fatalf("marshaled as %s", data)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip changed date: %v != %v", back, d)
	}
}
