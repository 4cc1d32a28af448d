package models

import (
	"time"

	"gorm.io/gorm"
)

// OtherExpense records a miscellaneous cost that is neither feed purchase
// nor flock acquisition, e.g. vaccines, repairs, or transport.
type OtherExpense struct {
	gorm.Model
	Date        time.Time `gorm:"not null;index" json:"date"`
	Type        string    `gorm:"not null" json:"type"`
	Description string    `gorm:"type:text" json:"description"`
	Amount      float64   `gorm:"not null" json:"amount"`
}
