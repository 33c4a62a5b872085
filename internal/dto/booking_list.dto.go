package dto

import "time"

type BookingListDTO struct {
	ID           uint      `json:"id"`
	DateTime     time.Time `json:"date_time"`
	Slot         string    `json:"slot"`
	Status       string    `json:"status"`
	LocationType string    `json:"location_type"`
	Duration     int       `json:"duration_minutes"`
	StylistID    uint      `json:"stylist_id"`
	StylistName  string    `json:"stylist_name"`
	ClientName   string    `json:"client_name"`
	Services     []string  `json:"services"`
}
