package models

import (
	"time"

	"gorm.io/gorm"
)

// EggSale records a sale of eggs. TotalPrice is derived as quantity times
// price per egg whenever the row is written.
type EggSale struct {
	gorm.Model
	Date        time.Time `gorm:"not null;index" json:"date"`
	Quality     string    `gorm:"not null" json:"quality"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	PricePerEgg float64   `gorm:"not null" json:"price_per_egg"`
	TotalPrice  float64   `gorm:"not null" json:"total_price"`
}
