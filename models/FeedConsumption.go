package models

import (
	"time"

	"gorm.io/gorm"
)

// FeedConsumption records feed given to a flock on a date. Cost is a
// snapshot of quantity times the feed's cost per kg at write time; later
// recipe changes do not rewrite recorded consumption.
type FeedConsumption struct {
	gorm.Model
	FlockID        uint      `gorm:"not null;index" json:"flock_id"`
	FinishedFeedID uint      `gorm:"not null;index" json:"finished_feed_id"`
	Date           time.Time `gorm:"not null;index" json:"date"`
	QuantityKg     float64   `gorm:"not null" json:"quantity_kg"`
	Cost           float64   `gorm:"not null" json:"cost"`

	Flock        *ChickenFlock `gorm:"foreignKey:FlockID" json:"flock,omitempty"`
	FinishedFeed *FinishedFeed `gorm:"foreignKey:FinishedFeedID" json:"finished_feed,omitempty"`
}
