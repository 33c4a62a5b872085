package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayHours is the salon window of one weekday. Slots start at every whole
// hour in [Open, Close).
type DayHours struct {
	Open   int  `json:"open"`
	Close  int  `json:"close"`
	Closed bool `json:"closed"`
}

// BusinessHours is indexed by time.Weekday, so it always has seven entries.
type BusinessHours [7]DayHours

func DefaultBusinessHours() BusinessHours {
	var h BusinessHours
	for d := time.Monday; d <= time.Saturday; d++ {
		h[d] = DayHours{Open: 9, Close: 19}
	}
	h[time.Sunday] = DayHours{Closed: true}
	return h
}

var weekdayKeys = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseBusinessHours reads "mon=9-19,tue=9-19,...,sun=closed". All seven days
// must be present. An empty string yields DefaultBusinessHours.
func ParseBusinessHours(s string) (BusinessHours, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultBusinessHours(), nil
	}

	var (
		h    BusinessHours
		seen [7]bool
	)

	for _, part := range strings.Split(s, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return h, fmt.Errorf("malformed entry %q", part)
		}

		day, ok := weekdayKeys[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			return h, fmt.Errorf("unknown weekday %q", key)
		}
		if seen[day] {
			return h, fmt.Errorf("weekday %q listed twice", key)
		}
		seen[day] = true

		val = strings.ToLower(strings.TrimSpace(val))
		if val == "closed" {
			h[day] = DayHours{Closed: true}
			continue
		}

		openStr, closeStr, ok := strings.Cut(val, "-")
		if !ok {
			return h, fmt.Errorf("malformed hours %q for %s", val, key)
		}
		open, err := strconv.Atoi(openStr)
		if err != nil {
			return h, fmt.Errorf("open hour for %s: %w", key, err)
		}
		closeHour, err := strconv.Atoi(closeStr)
		if err != nil {
			return h, fmt.Errorf("close hour for %s: %w", key, err)
		}
		h[day] = DayHours{Open: open, Close: closeHour}
	}

	for d, ok := range seen {
		if !ok {
			return h, fmt.Errorf("missing weekday %s", time.Weekday(d))
		}
	}

	return h, h.Validate()
}

func (h BusinessHours) Validate() error {
	for d, day := range h {
		if day.Closed {
			continue
		}
		if day.Open < 0 || day.Close > 24 || day.Open >= day.Close {
			return fmt.Errorf("%s: open hour %d must be before close hour %d", time.Weekday(d), day.Open, day.Close)
		}
	}
	return nil
}

// For reports the window of a weekday and whether the salon opens at all.
func (h BusinessHours) For(day time.Weekday) (DayHours, bool) {
	d := h[day]
	return d, !d.Closed
}

// Slots enumerates the bookable start times of date's calendar day.
func (h BusinessHours) Slots(date time.Time) []Slot {
	day, open := h.For(date.Weekday())
	if !open {
		return []Slot{}
	}

	slots := make([]Slot, 0, day.Close-day.Open)
	for hour := day.Open; hour < day.Close; hour++ {
		slots = append(slots, Slot{Date: date, Hour: hour})
	}
	return slots
}

// Labels is Slots rendered as "HH:00".
func (h BusinessHours) Labels(date time.Time) []string {
	slots := h.Slots(date)
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.String())
	}
	return out
}

// Contains reports whether t starts inside the window of its weekday.
func (h BusinessHours) Contains(t time.Time) bool {
	day, open := h.For(t.Weekday())
	if !open {
		return false
	}
	return t.Hour() >= day.Open && t.Hour() < day.Close
}
