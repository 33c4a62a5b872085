package booking

import (
	"fmt"
	"time"
)

// Slot is one hourly start time on a calendar day. Slots are derived on
// every query and never stored.
type Slot struct {
	Date time.Time
	Hour int
}

func (s Slot) String() string {
	return fmt.Sprintf("%02d:00", s.Hour)
}

// Start is the absolute instant of the slot in the location of Date.
func (s Slot) Start() time.Time {
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), s.Hour, 0, 0, 0, s.Date.Location())
}

// Label renders the time of day of an absolute timestamp the way slots are rendered.
func Label(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}

// OnTheHour reports whether t sits on the slot grid.
func OnTheHour(t time.Time) bool {
	return t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
