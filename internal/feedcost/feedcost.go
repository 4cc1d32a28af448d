// Package feedcost re-derives finished feed costs from their compositions.
// It is shared by the API handlers and the price-list importer.
package feedcost

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"coopledger/internal/pricing"
	"coopledger/models"
)

// Recompute re-derives a finished feed's cost per kg as the
// percentage-weighted sum of its composition prices and persists it. A feed
// with no live compositions costs zero. The caller's composition write and
// this recompute are separate statements, so a crash in between can leave a
// stale cost until the next composition write.
func Recompute(ctx context.Context, db *gorm.DB, feedID uint) error {
	var compositions []models.FeedComposition
	if err := db.WithContext(ctx).
		Preload("RawMaterial").
		Where("finished_feed_id = ?", feedID).
		Find(&compositions).Error; err != nil {
		return fmt.Errorf("load compositions for feed %d: %w", feedID, err)
	}

	components := make([]pricing.Component, 0, len(compositions))
	for _, composition := range compositions {
		if composition.RawMaterial == nil {
			// Material was deleted; its share no longer contributes.
			continue
		}
		components = append(components, pricing.Component{
			Percentage: composition.Percentage,
			PricePerKg: composition.RawMaterial.PricePerKg,
		})
	}

	cost := pricing.WeightedCost(components)

	if err := db.WithContext(ctx).
		Model(&models.FinishedFeed{}).
		Where("id = ?", feedID).
		Update("cost_per_kg", cost).Error; err != nil {
		return fmt.Errorf("persist cost for feed %d: %w", feedID, err)
	}

	return nil
}

// RecomputeForMaterial refreshes every finished feed whose blend references
// the given raw material, keeping derived costs current after a price change
// or a material deletion.
func RecomputeForMaterial(ctx context.Context, db *gorm.DB, materialID uint) error {
	var feedIDs []uint
	if err := db.WithContext(ctx).
		Model(&models.FeedComposition{}).
		Where("raw_material_id = ?", materialID).
		Distinct().
		Pluck("finished_feed_id", &feedIDs).Error; err != nil {
		return fmt.Errorf("find feeds using material %d: %w", materialID, err)
	}

	for _, feedID := range feedIDs {
		if err := Recompute(ctx, db, feedID); err != nil {
			return err
		}
	}
	return nil
}
