package models

import (
	"time"

	"gorm.io/datatypes"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	StylistID uint     `gorm:"not null;index" json:"stylist_id"`
	Stylist   *Stylist `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"stylist,omitempty"`

	ServiceIDs datatypes.JSONSlice[uint] `gorm:"not null" json:"service_ids"`

	LocationType string    `gorm:"size:10;not null" json:"location_type"`
	Address      string    `gorm:"size:255" json:"address"`
	DateTime     time.Time `gorm:"not null;index" json:"date_time"`

	Status          string `gorm:"size:20;not null;default:'pending'" json:"status"`
	DurationMinutes int    `gorm:"default:45" json:"duration_minutes"`
	Notes           string `gorm:"size:255" json:"notes"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `gorm:"<-:create" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
