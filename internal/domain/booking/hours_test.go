package booking

import (
	"reflect"
	"testing"
	"time"
)

// 2025-01-05 is a Sunday.
func day(offset int) time.Time {
	return time.Date(2025, 1, 5+offset, 0, 0, 0, 0, time.UTC)
}

func TestSlots_ClosedDayIsEmpty(t *testing.T) {
	h := DefaultBusinessHours()

	if got := h.Slots(day(0)); len(got) != 0 {
		t.Fatalf("expected no slots on sunday, got %v", got)
	}
	if got := h.Labels(day(7)); len(got) != 0 {
		t.Fatalf("expected no labels on the next sunday, got %v", got)
	}
}

func TestLabels_MondayNineToSeven(t *testing.T) {
	h := DefaultBusinessHours()

	want := []string{
		"09:00", "10:00", "11:00", "12:00", "13:00",
		"14:00", "15:00", "16:00", "17:00", "18:00",
	}

	got := h.Labels(day(1))
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSlots_CountMatchesWindowForEveryOpenDay(t *testing.T) {
	h := DefaultBusinessHours()
	h[time.Wednesday] = DayHours{Open: 7, Close: 12}

	for i := 0; i < 7; i++ {
		d := day(i)
		window, open := h.For(d.Weekday())
		if !open {
			continue
		}

		slots := h.Slots(d)
		if len(slots) != window.Close-window.Open {
			t.Fatalf("%s: expected %d slots, got %d", d.Weekday(), window.Close-window.Open, len(slots))
		}
		for j, s := range slots {
			if s.Hour != window.Open+j {
				t.Fatalf("%s: slot %d has hour %d", d.Weekday(), j, s.Hour)
			}
		}
	}
}

func TestSlots_IsRepeatable(t *testing.T) {
	h := DefaultBusinessHours()

	first := h.Labels(day(2))
	second := h.Labels(day(2))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output, got %v and %v", first, second)
	}
}

func TestSlot_Start(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	s := Slot{Date: time.Date(2025, 1, 6, 0, 0, 0, 0, loc), Hour: 14}

	got := s.Start()
	if got.Hour() != 14 || got.Location() != loc {
		t.Fatalf("unexpected start %v", got)
	}
	if s.String() != "14:00" {
		t.Fatalf("unexpected label %q", s.String())
	}
}

func TestContains(t *testing.T) {
	h := DefaultBusinessHours()

	cases := []struct {
		at   time.Time
		want bool
	}{
		{time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC), false},
		{time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), true},
		{time.Date(2025, 1, 6, 18, 0, 0, 0, time.UTC), true},
		{time.Date(2025, 1, 6, 19, 0, 0, 0, time.UTC), false},
		{time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		if got := h.Contains(tc.at); got != tc.want {
			t.Fatalf("%v: expected %v, got %v", tc.at, tc.want, got)
		}
	}
}

func TestParseBusinessHours(t *testing.T) {
	h, err := ParseBusinessHours("mon=8-17, tue=8-17,wed=8-17,thu=8-17,fri=8-20,SAT=10-14,sun=closed")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if fri, _ := h.For(time.Friday); fri.Close != 20 {
		t.Fatalf("expected friday close 20, got %d", fri.Close)
	}
	if _, open := h.For(time.Sunday); open {
		t.Fatalf("expected sunday closed")
	}
}

func TestParseBusinessHours_Errors(t *testing.T) {
	cases := map[string]string{
		"missing day":   "mon=9-19,tue=9-19,wed=9-19,thu=9-19,fri=9-19,sat=9-19",
		"inverted":      "mon=19-9,tue=9-19,wed=9-19,thu=9-19,fri=9-19,sat=9-19,sun=closed",
		"unknown day":   "xyz=9-19",
		"duplicate day": "mon=9-19,mon=9-19",
		"bad hours":     "mon=nine-19",
		"past midnight": "mon=9-25,tue=9-19,wed=9-19,thu=9-19,fri=9-19,sat=9-19,sun=closed",
	}

	for name, in := range cases {
		if _, err := ParseBusinessHours(in); err == nil {
			t.Fatalf("%s: expected error for %q", name, in)
		}
	}
}

func TestParseBusinessHours_EmptyIsDefault(t *testing.T) {
	h, err := ParseBusinessHours("  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if h != DefaultBusinessHours() {
		t.Fatalf("expected default hours, got %v", h)
	}
}
