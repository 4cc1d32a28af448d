package mock

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "coopledger/internal/log"
	"coopledger/internal/pricing"
	"coopledger/models"
)

// New returns an in-memory sqlite database seeded with representative farm
// records: a material catalog, a layer blend, one flock, and a week of
// production activity.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open("file:coopledger-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.RawMaterial{},
		&models.FinishedFeed{},
		&models.FeedComposition{},
		&models.ChickenFlock{},
		&models.FeedConsumption{},
		&models.EggProduction{},
		&models.EggSale{},
		&models.OtherExpense{},
	); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	maize := models.RawMaterial{Name: "Maize", PricePerKg: 0.42}
	soy := models.RawMaterial{Name: "Soybean Meal", PricePerKg: 0.68}
	shell := models.RawMaterial{Name: "Oyster Shell", PricePerKg: 0.25}

	materials := []*models.RawMaterial{&maize, &soy, &shell}
	for _, material := range materials {
		if err := db.WithContext(ctx).Create(material).Error; err != nil {
			return err
		}
	}

	layer := models.FinishedFeed{Name: "Layer Mash"}
	if err := db.WithContext(ctx).Create(&layer).Error; err != nil {
		return err
	}

	compositions := []models.FeedComposition{
		{FinishedFeedID: layer.ID, RawMaterialID: maize.ID, Percentage: 55},
		{FinishedFeedID: layer.ID, RawMaterialID: soy.ID, Percentage: 35},
		{FinishedFeedID: layer.ID, RawMaterialID: shell.ID, Percentage: 10},
	}
	for _, composition := range compositions {
		compositionCopy := composition
		if err := db.WithContext(ctx).Create(&compositionCopy).Error; err != nil {
			return err
		}
	}

	cost := pricing.WeightedCost([]pricing.Component{
		{Percentage: 55, PricePerKg: maize.PricePerKg},
		{Percentage: 35, PricePerKg: soy.PricePerKg},
		{Percentage: 10, PricePerKg: shell.PricePerKg},
	})
	if err := db.WithContext(ctx).Model(&layer).Update("cost_per_kg", cost).Error; err != nil {
		return err
	}

	entry := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	flock := models.ChickenFlock{
		Strain:       "ISA Brown",
		EntryDate:    entry,
		InitialCount: 500,
		CurrentCount: 493,
	}
	if err := db.WithContext(ctx).Create(&flock).Error; err != nil {
		return err
	}

	for day := 0; day < 7; day++ {
		date := entry.AddDate(0, 0, 120+day)

		consumption := models.FeedConsumption{
			FlockID:        flock.ID,
			FinishedFeedID: layer.ID,
			Date:           date,
			QuantityKg:     58,
			Cost:           pricing.QuantityCost(58, cost),
		}
		if err := db.WithContext(ctx).Create(&consumption).Error; err != nil {
			return err
		}

		production := models.EggProduction{
			FlockID:  flock.ID,
			Date:     date,
			Quality:  "A",
			Quantity: 430 + day,
		}
		if err := db.WithContext(ctx).Create(&production).Error; err != nil {
			return err
		}
	}

	sale := models.EggSale{
		Date:        entry.AddDate(0, 0, 126),
		Quality:     "A",
		Quantity:    2880,
		PricePerEgg: 0.11,
		TotalPrice:  pricing.LineTotal(2880, 0.11),
	}
	if err := db.WithContext(ctx).Create(&sale).Error; err != nil {
		return err
	}

	expense := models.OtherExpense{
		Date:        entry.AddDate(0, 0, 121),
		Type:        "veterinary",
		Description: "Newcastle booster for the layer house",
		Amount:      85,
	}
	if err := db.WithContext(ctx).Create(&expense).Error; err != nil {
		return err
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
