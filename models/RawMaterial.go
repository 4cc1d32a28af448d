package models

import (
	"gorm.io/gorm"
)

// RawMaterial is a purchasable feed ingredient priced per kilogram.
type RawMaterial struct {
	gorm.Model
	Name       string  `gorm:"uniqueIndex;not null" json:"name"`
	PricePerKg float64 `gorm:"not null" json:"price_per_kg"`
}
