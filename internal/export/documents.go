package export

import (
	"strconv"
	"time"

	"coopledger/models"
)

const dateLayout = "2006-01-02"

// RawMaterials builds an export document from raw material rows.
func RawMaterials(rows []models.RawMaterial, generatedAt time.Time) Document {
	doc := Document{
		Title:       "Raw Materials",
		Columns:     []string{"ID", "Name", "Price/kg"},
		GeneratedAt: generatedAt,
	}
	for _, row := range rows {
		doc.Rows = append(doc.Rows, []string{
			formatID(row.ID),
			row.Name,
			formatAmount(row.PricePerKg),
		})
	}
	return doc
}

// FinishedFeeds builds an export document from finished feed rows.
func FinishedFeeds(rows []models.FinishedFeed, generatedAt time.Time) Document {
	doc := Document{
		Title:       "Finished Feeds",
		Columns:     []string{"ID", "Name", "Cost/kg"},
		GeneratedAt: generatedAt,
	}
	for _, row := range rows {
		doc.Rows = append(doc.Rows, []string{
			formatID(row.ID),
			row.Name,
			formatAmount(row.CostPerKg),
		})
	}
	return doc
}

// Flocks builds an export document from chicken flock rows.
func Flocks(rows []models.ChickenFlock, generatedAt time.Time) Document {
	doc := Document{
		Title:       "Chicken Flocks",
		Columns:     []string{"ID", "Strain", "Entry Date", "Initial", "Current"},
		GeneratedAt: generatedAt,
	}
	for _, row := range rows {
		doc.Rows = append(doc.Rows, []string{
			formatID(row.ID),
			row.Strain,
			row.EntryDate.Format(dateLayout),
			strconv.Itoa(row.InitialCount),
			strconv.Itoa(row.CurrentCount),
		})
	}
	return doc
}

// FeedConsumption builds an export document from consumption rows.
func FeedConsumption(rows []models.FeedConsumption, generatedAt time.Time) Document {
	doc := Document{
		Title:       "Feed Consumption",
		Columns:     []string{"ID", "Date", "Flock", "Feed", "Quantity (kg)", "Cost"},
		GeneratedAt: generatedAt,
	}
	for _, row := range rows {
		flock := formatID(row.FlockID)
		if row.Flock != nil {
			flock = row.Flock.Strain
		}
		feed := formatID(row.FinishedFeedID)
		if row.FinishedFeed != nil {
			feed = row.FinishedFeed.Name
		}
		doc.Rows = append(doc.Rows, []string{
			formatID(row.ID),
			row.Date.Format(dateLayout),
			flock,
			feed,
			formatAmount(row.QuantityKg),
			formatAmount(row.Cost),
		})
	}
	return doc
}

// EggProduction builds an export document from production rows.
func EggProduction(rows []models.EggProduction, generatedAt time.Time) Document {
	doc := Document{
		Title:       "Egg Production",
		Columns:     []string{"ID", "Date", "Flock", "Quality", "Quantity"},
		GeneratedAt: generatedAt,
	}
	for _, row := range rows {
		flock := formatID(row.FlockID)
		if row.Flock != nil {
			flock = row.Flock.Strain
		}
		doc.Rows = append(doc.Rows, []string{
			formatID(row.ID),
			row.Date.Format(dateLayout),
			flock,
			row.Quality,
			strconv.Itoa(row.Quantity),
		})
	}
	return doc
}

// EggSales builds an export document from sale rows.
func EggSales(rows []models.EggSale, generatedAt time.Time) Document {
	doc := Document{
		Title:       "Egg Sales",
		Columns:     []string{"ID", "Date", "Quality", "Quantity", "Price/Egg", "Total"},
		GeneratedAt: generatedAt,
	}
	for _, row := range rows {
		doc.Rows = append(doc.Rows, []string{
			formatID(row.ID),
			row.Date.Format(dateLayout),
			row.Quality,
			strconv.Itoa(row.Quantity),
			formatAmount(row.PricePerEgg),
			formatAmount(row.TotalPrice),
		})
	}
	return doc
}

// Expenses builds an export document from miscellaneous expense rows.
func Expenses(rows []models.OtherExpense, generatedAt time.Time) Document {
	doc := Document{
		Title:       "Other Expenses",
		Columns:     []string{"ID", "Date", "Type", "Description", "Amount"},
		GeneratedAt: generatedAt,
	}
	for _, row := range rows {
		doc.Rows = append(doc.Rows, []string{
			formatID(row.ID),
			row.Date.Format(dateLayout),
			row.Type,
			row.Description,
			formatAmount(row.Amount),
		})
	}
	return doc
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
