// Package export renders already-fetched rows into flat-file buffers. The
// "excel" format is a CSV document; the "pdf" format is a column-aligned
// plain-text report. Neither is a real binary office format.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Entity types accepted by the export surface.
const (
	EntityRawMaterials    = "raw_materials"
	EntityFinishedFeeds   = "finished_feeds"
	EntityFlocks          = "flocks"
	EntityFeedConsumption = "feed_consumption"
	EntityEggProduction   = "egg_production"
	EntityEggSales        = "egg_sales"
	EntityExpenses        = "expenses"
)

var (
	ErrUnsupportedEntity = errors.New("unsupported entity type")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// Document is a rendered table ready to be serialized in either format.
type Document struct {
	Title       string
	Columns     []string
	Rows        [][]string
	GeneratedAt time.Time
}

// CSV serializes the document as comma-separated values with a header row.
func (d Document) CSV() (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(d.Columns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, row := range d.Rows {
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// Text serializes the document as a column-aligned plain-text report with a
// title banner, suitable for printing or attaching as a "PDF" stand-in.
func (d Document) Text() string {
	widths := make([]int, len(d.Columns))
	for i, column := range d.Columns {
		widths[i] = len(column)
	}
	for _, row := range d.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var builder strings.Builder
	builder.WriteString(d.Title)
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("Generated %s\n\n", d.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")))

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				builder.WriteString("  ")
			}
			builder.WriteString(cell)
			if i < len(cells)-1 {
				builder.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			}
		}
		builder.WriteString("\n")
	}

	writeRow(d.Columns)
	total := 0
	for _, width := range widths {
		total += width
	}
	builder.WriteString(strings.Repeat("-", total+2*(len(widths)-1)))
	builder.WriteString("\n")

	if len(d.Rows) == 0 {
		builder.WriteString("(no records)\n")
	}
	for _, row := range d.Rows {
		writeRow(row)
	}

	return builder.String()
}
