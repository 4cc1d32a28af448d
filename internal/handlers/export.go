package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"coopledger/internal/export"
	applog "coopledger/internal/log"
	"coopledger/models"
)

type exportFilters struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type exportRequest struct {
	Format     string        `json:"format"`
	EntityType string        `json:"entity_type"`
	Filters    exportFilters `json:"filters"`
}

// Export renders rows of one entity into a flat-file buffer. "excel" yields
// CSV, "pdf" yields a plain-text report; both are text, not binary formats.
func Export(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "export request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	var payload exportRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid export payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	format := strings.ToLower(strings.TrimSpace(payload.Format))
	switch format {
	case "pdf", "excel":
	default:
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("%s: %q", export.ErrUnsupportedFormat, payload.Format))
		return
	}

	doc, err := buildExportDocument(ctx, payload)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedEntity) {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("%s: %q", export.ErrUnsupportedEntity, payload.EntityType))
			return
		}
		applog.Error(ctx, "failed to build export document", "error", err, "entity", payload.EntityType)
		writeJSONError(w, http.StatusInternalServerError, "unable to build export")
		return
	}

	switch format {
	case "excel":
		body, err := doc.CSV()
		if err != nil {
			applog.Error(ctx, "failed to render csv export", "error", err, "entity", payload.EntityType)
			writeJSONError(w, http.StatusInternalServerError, "unable to render export")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, body)
	case "pdf":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, doc.Text())
	}

	applog.Info(ctx, "export generated", "entity", payload.EntityType, "format", format, "rows", len(doc.Rows))
}

func buildExportDocument(ctx context.Context, payload exportRequest) (export.Document, error) {
	generatedAt := time.Now().UTC()

	switch strings.TrimSpace(payload.EntityType) {
	case export.EntityRawMaterials:
		var rows []models.RawMaterial
		if err := database.WithContext(ctx).Order("name asc").Find(&rows).Error; err != nil {
			return export.Document{}, err
		}
		return export.RawMaterials(rows, generatedAt), nil

	case export.EntityFinishedFeeds:
		var rows []models.FinishedFeed
		if err := database.WithContext(ctx).Order("name asc").Find(&rows).Error; err != nil {
			return export.Document{}, err
		}
		return export.FinishedFeeds(rows, generatedAt), nil

	case export.EntityFlocks:
		var rows []models.ChickenFlock
		if err := database.WithContext(ctx).Order("entry_date asc, id asc").Find(&rows).Error; err != nil {
			return export.Document{}, err
		}
		return export.Flocks(rows, generatedAt), nil

	case export.EntityFeedConsumption:
		query, err := applyExportDateRange(database.WithContext(ctx).Preload("Flock").Preload("FinishedFeed").Order("date asc, id asc"), payload.Filters)
		if err != nil {
			return export.Document{}, err
		}
		var rows []models.FeedConsumption
		if err := query.Find(&rows).Error; err != nil {
			return export.Document{}, err
		}
		return export.FeedConsumption(rows, generatedAt), nil

	case export.EntityEggProduction:
		query, err := applyExportDateRange(database.WithContext(ctx).Preload("Flock").Order("date asc, id asc"), payload.Filters)
		if err != nil {
			return export.Document{}, err
		}
		var rows []models.EggProduction
		if err := query.Find(&rows).Error; err != nil {
			return export.Document{}, err
		}
		return export.EggProduction(rows, generatedAt), nil

	case export.EntityEggSales:
		query, err := applyExportDateRange(database.WithContext(ctx).Order("date asc, id asc"), payload.Filters)
		if err != nil {
			return export.Document{}, err
		}
		var rows []models.EggSale
		if err := query.Find(&rows).Error; err != nil {
			return export.Document{}, err
		}
		return export.EggSales(rows, generatedAt), nil

	case export.EntityExpenses:
		query, err := applyExportDateRange(database.WithContext(ctx).Order("date asc, id asc"), payload.Filters)
		if err != nil {
			return export.Document{}, err
		}
		var rows []models.OtherExpense
		if err := query.Find(&rows).Error; err != nil {
			return export.Document{}, err
		}
		return export.Expenses(rows, generatedAt), nil

	default:
		return export.Document{}, export.ErrUnsupportedEntity
	}
}

func applyExportDateRange(query *gorm.DB, filters exportFilters) (*gorm.DB, error) {
	if startParam := strings.TrimSpace(filters.Start); startParam != "" {
		start, err := parseDate(startParam)
		if err != nil {
			return nil, err
		}
		query = query.Where("date >= ?", start)
	}
	if endParam := strings.TrimSpace(filters.End); endParam != "" {
		end, err := parseDate(endParam)
		if err != nil {
			return nil, err
		}
		query = query.Where("date <= ?", end)
	}
	return query, nil
}
