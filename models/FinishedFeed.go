package models

import (
	"gorm.io/gorm"
)

// FinishedFeed is a named blend of raw materials fed as one product.
// CostPerKg is derived from the blend's compositions and is never set
// directly by API clients.
type FinishedFeed struct {
	gorm.Model
	Name         string            `gorm:"uniqueIndex;not null" json:"name"`
	CostPerKg    float64           `gorm:"not null;default:0" json:"cost_per_kg"`
	Compositions []FeedComposition `gorm:"foreignKey:FinishedFeedID" json:"compositions"`
}
