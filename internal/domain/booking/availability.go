package booking

// AvailabilityInput is what a caller asks for: a YYYY-MM-DD day and optionally a stylist.
type AvailabilityInput struct {
	Date      string
	StylistID uint
}

type Availability struct {
	Date                 string            `json:"date"`
	Closed               bool              `json:"closed"`
	AllSlots             []string          `json:"all_slots"`
	BookedSlotsByStylist map[uint][]string `json:"booked_slots_by_stylist"`
	Available            []string          `json:"available"`
}
