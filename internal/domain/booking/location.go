package booking

import "strings"

type LocationType string

const (
	LocationHome  LocationType = "home"
	LocationSalon LocationType = "salon"
)

// ParseLocationType is case-insensitive ("Home", "salon", ...).
func ParseLocationType(s string) (LocationType, bool) {
	switch l := LocationType(strings.ToLower(strings.TrimSpace(s))); l {
	case LocationHome, LocationSalon:
		return l, true
	}
	return "", false
}

// BoundByBusinessHours is false for home visits.
func (l LocationType) BoundByBusinessHours() bool {
	return l == LocationSalon
}
