package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "coopledger/internal/log"
	"coopledger/internal/pricing"
	"coopledger/models"
)

type eggSaleRequest struct {
	Date        string     `json:"date"`
	Quality     string     `json:"quality"`
	Quantity    intField   `json:"quantity"`
	PricePerEgg floatField `json:"price_per_egg"`
}

type eggSaleResponse struct {
	ID          uint      `json:"id"`
	Date        string    `json:"date"`
	Quality     string    `json:"quality"`
	Quantity    int       `json:"quantity"`
	PricePerEgg float64   `json:"price_per_egg"`
	TotalPrice  float64   `json:"total_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EggSaleResource handles CRUD interactions for egg sales. TotalPrice is
// re-derived as quantity times price per egg on every write.
func EggSaleResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "egg sale request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	saleID, hasID, ok := resourceID(r, "/api/egg-sales")
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if !hasID {
		switch r.Method {
		case http.MethodGet:
			listEggSales(w, r)
		case http.MethodPost:
			createEggSale(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showEggSale(w, r, saleID)
	case http.MethodPut:
		updateEggSale(w, r, saleID)
	case http.MethodDelete:
		deleteEggSale(w, r, saleID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listEggSales(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.EggSale

	query := database.WithContext(ctx).Order("date asc, id asc")
	query, err := applyDateRange(query, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := query.Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list egg sales", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load egg sales")
		return
	}

	responses := make([]eggSaleResponse, 0, len(results))
	for _, sale := range results {
		responses = append(responses, projectEggSale(sale))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showEggSale(w http.ResponseWriter, r *http.Request, saleID uint) {
	ctx := r.Context()
	var sale models.EggSale
	if err := database.WithContext(ctx).First(&sale, saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "egg sale not found")
			return
		}
		applog.Error(ctx, "failed to load egg sale", "error", err, "id", saleID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load egg sale")
		return
	}
	writeJSON(w, http.StatusOK, projectEggSale(sale))
}

func createEggSale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload eggSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid egg sale create payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	sale, err := eggSaleFromPayload(payload)
	if err != nil {
		applog.Debug(ctx, "egg sale validation failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := database.WithContext(ctx).Create(&sale).Error; err != nil {
		applog.Error(ctx, "failed to create egg sale", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create egg sale")
		return
	}

	writeJSON(w, http.StatusCreated, projectEggSale(sale))
}

func updateEggSale(w http.ResponseWriter, r *http.Request, saleID uint) {
	ctx := r.Context()
	var sale models.EggSale
	if err := database.WithContext(ctx).First(&sale, saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "egg sale not found")
			return
		}
		applog.Error(ctx, "failed to load egg sale for update", "error", err, "id", saleID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load egg sale")
		return
	}

	var payload eggSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid egg sale update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	parsed, err := eggSaleFromPayload(payload)
	if err != nil {
		applog.Debug(ctx, "egg sale update validation failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]any{
		"date":          parsed.Date,
		"quality":       parsed.Quality,
		"quantity":      parsed.Quantity,
		"price_per_egg": parsed.PricePerEgg,
		"total_price":   parsed.TotalPrice,
	}

	if err := database.WithContext(ctx).Model(&sale).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update egg sale", "error", err, "id", saleID)
		writeJSONError(w, http.StatusBadRequest, "unable to update egg sale")
		return
	}

	if err := database.WithContext(ctx).First(&sale, saleID).Error; err != nil {
		applog.Error(ctx, "failed to reload updated egg sale", "error", err, "id", saleID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load updated record")
		return
	}

	writeJSON(w, http.StatusOK, projectEggSale(sale))
}

func deleteEggSale(w http.ResponseWriter, r *http.Request, saleID uint) {
	ctx := r.Context()
	var sale models.EggSale
	if err := database.WithContext(ctx).First(&sale, saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "egg sale not found")
			return
		}
		applog.Error(ctx, "failed to load egg sale for delete", "error", err, "id", saleID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load egg sale")
		return
	}

	if err := database.WithContext(ctx).Delete(&sale).Error; err != nil {
		applog.Error(ctx, "failed to delete egg sale", "error", err, "id", saleID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete egg sale")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func eggSaleFromPayload(payload eggSaleRequest) (models.EggSale, error) {
	quality := strings.TrimSpace(payload.Quality)
	if quality == "" {
		return models.EggSale{}, errors.New("quality is required")
	}
	if payload.Quantity < 0 {
		return models.EggSale{}, errors.New("quantity must not be negative")
	}
	if payload.PricePerEgg < 0 {
		return models.EggSale{}, errors.New("price_per_egg must not be negative")
	}

	date, err := parseDate(payload.Date)
	if err != nil {
		return models.EggSale{}, err
	}

	return models.EggSale{
		Date:        date,
		Quality:     quality,
		Quantity:    int(payload.Quantity),
		PricePerEgg: float64(payload.PricePerEgg),
		TotalPrice:  pricing.LineTotal(int(payload.Quantity), float64(payload.PricePerEgg)),
	}, nil
}

func projectEggSale(sale models.EggSale) eggSaleResponse {
	return eggSaleResponse{
		ID:          sale.ID,
		Date:        sale.Date.Format(dateLayout),
		Quality:     sale.Quality,
		Quantity:    sale.Quantity,
		PricePerEgg: sale.PricePerEgg,
		TotalPrice:  sale.TotalPrice,
		CreatedAt:   sale.CreatedAt,
		UpdatedAt:   sale.UpdatedAt,
	}
}
