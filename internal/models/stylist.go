package models

import (
	"time"

	"gorm.io/datatypes"
)

type Stylist struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// UserID links the stylist to a login; nil for stylists managed only by admins.
	UserID *uint `gorm:"uniqueIndex" json:"user_id"`

	Name            string                      `gorm:"size:100;not null" json:"name"`
	Bio             string                      `gorm:"size:500" json:"bio"`
	Specializations datatypes.JSONSlice[string] `json:"specializations"`
	ImageURL        string                      `gorm:"size:255" json:"image_url"`
	Active          bool                        `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
