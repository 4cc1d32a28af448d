package models

import (
	"time"

	"gorm.io/gorm"
)

// EggProduction records eggs collected from a flock on a date, bucketed
// by quality grade.
type EggProduction struct {
	gorm.Model
	FlockID  uint      `gorm:"not null;index" json:"flock_id"`
	Date     time.Time `gorm:"not null;index" json:"date"`
	Quality  string    `gorm:"not null" json:"quality"`
	Quantity int       `gorm:"not null" json:"quantity"`

	Flock *ChickenFlock `gorm:"foreignKey:FlockID" json:"flock,omitempty"`
}
