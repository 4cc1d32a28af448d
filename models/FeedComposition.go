package models

import (
	"gorm.io/gorm"
)

// FeedComposition associates a raw material with a finished feed at a
// given percentage of the blend. Percentages for one feed are not
// required to sum to 100.
type FeedComposition struct {
	gorm.Model
	FinishedFeedID uint    `gorm:"not null;index" json:"finished_feed_id"`
	RawMaterialID  uint    `gorm:"not null;index" json:"raw_material_id"`
	Percentage     float64 `gorm:"not null" json:"percentage"`

	// Preloadable links so handlers can report names alongside ids.
	FinishedFeed *FinishedFeed `gorm:"foreignKey:FinishedFeedID" json:"finished_feed,omitempty"`
	RawMaterial  *RawMaterial  `gorm:"foreignKey:RawMaterialID" json:"raw_material,omitempty"`
}
