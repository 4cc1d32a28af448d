// Command import_prices ingests a supplier price list and upserts raw
// materials by name. CSV files are read directly; PDF price lists have
// their text extracted first and are parsed line by line. Finished feed
// costs are re-derived for every material whose price changed.
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"gorm.io/gorm"

	"coopledger/internal/config"
	"coopledger/internal/db"
	"coopledger/internal/feedcost"
	"coopledger/models"
)

var priceLinePattern = regexp.MustCompile(`^(.+?)[\s;,]+([0-9]+(?:[.,][0-9]+)?)\s*$`)

type priceRecord struct {
	Name       string
	PricePerKg float64
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: import_prices <price-list.csv|price-list.pdf>")
		os.Exit(2)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("price list path must not be empty")
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("locate price list: %w", err)
	}

	records, err := readPriceList(path)
	if err != nil {
		return fmt.Errorf("read price list: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no usable price rows in %s", path)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	ctx := context.Background()
	imported := 0
	updated := 0
	var touched []uint

	for _, record := range records {
		if err := database.Transaction(func(tx *gorm.DB) error {
			var existing models.RawMaterial
			err := tx.Where("name = ?", record.Name).First(&existing).Error
			switch {
			case err == nil:
				if existing.PricePerKg == record.PricePerKg {
					return nil
				}
				if err := tx.Model(&existing).Update("price_per_kg", record.PricePerKg).Error; err != nil {
					return fmt.Errorf("update material %q: %w", record.Name, err)
				}
				touched = append(touched, existing.ID)
				updated++
			case errors.Is(err, gorm.ErrRecordNotFound):
				material := models.RawMaterial{Name: record.Name, PricePerKg: record.PricePerKg}
				if err := tx.Create(&material).Error; err != nil {
					return fmt.Errorf("create material %q: %w", record.Name, err)
				}
				imported++
			default:
				return fmt.Errorf("find material %q: %w", record.Name, err)
			}
			return nil
		}); err != nil {
			return err
		}
	}

	for _, materialID := range touched {
		if err := feedcost.RecomputeForMaterial(ctx, database, materialID); err != nil {
			return fmt.Errorf("refresh feed costs: %w", err)
		}
	}

	fmt.Printf("imported %d new materials, updated %d prices (%d rows read)\n", imported, updated, len(records))
	return nil
}

func readPriceList(path string) ([]priceRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		text, err := extractTextFromPDF(data)
		if err != nil {
			return nil, fmt.Errorf("extract pdf text: %w", err)
		}
		return parsePriceLines(text), nil
	default:
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return parseCSV(file)
	}
}

func parseCSV(reader io.Reader) ([]priceRecord, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	var records []priceRecord
	for {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 2 {
			continue
		}

		name := strings.TrimSpace(row[0])
		price, ok := parsePrice(row[1])
		if name == "" || !ok {
			// Header rows and malformed lines are skipped, not fatal.
			continue
		}
		records = append(records, priceRecord{Name: name, PricePerKg: price})
	}

	return records, nil
}

// parsePriceLines scans extracted document text for "name price" rows.
func parsePriceLines(text string) []priceRecord {
	var records []priceRecord
	for _, line := range strings.Split(text, "\n") {
		match := priceLinePattern.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}
		name := strings.TrimSpace(match[1])
		price, ok := parsePrice(match[2])
		if name == "" || !ok {
			continue
		}
		records = append(records, priceRecord{Name: name, PricePerKg: price})
	}
	return records
}

func parsePrice(value string) (float64, bool) {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	price, err := strconv.ParseFloat(normalized, 64)
	if err != nil || price < 0 {
		return 0, false
	}
	return price, true
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}
