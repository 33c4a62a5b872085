package models

import (
	"time"

	"gorm.io/datatypes"
)

// OrderLine is a snapshot of a product at checkout time.
type OrderLine struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Reference string `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`

	Lines  datatypes.JSONSlice[OrderLine] `gorm:"not null" json:"lines"`
	Total  float64                        `gorm:"not null" json:"total"`
	Status string                         `gorm:"size:20;not null;default:'pending'" json:"status"`

	ShippingAddress string `gorm:"size:255" json:"shipping_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
