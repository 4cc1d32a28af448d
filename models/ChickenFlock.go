package models

import (
	"time"

	"gorm.io/gorm"
)

// ChickenFlock is a batch of chickens tracked from its entry date with an
// initial headcount and the current headcount after losses and culls.
type ChickenFlock struct {
	gorm.Model
	Strain       string    `gorm:"not null" json:"strain"`
	EntryDate    time.Time `gorm:"not null" json:"entry_date"`
	InitialCount int       `gorm:"not null" json:"initial_count"`
	CurrentCount int       `gorm:"not null" json:"current_count"`
}
