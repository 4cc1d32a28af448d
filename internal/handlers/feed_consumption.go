package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "coopledger/internal/log"
	"coopledger/internal/pricing"
	"coopledger/models"
)

type feedConsumptionRequest struct {
	FlockID        uint       `json:"flock_id"`
	FinishedFeedID uint       `json:"finished_feed_id"`
	Date           string     `json:"date"`
	QuantityKg     floatField `json:"quantity_kg"`
}

type feedConsumptionResponse struct {
	ID               uint      `json:"id"`
	FlockID          uint      `json:"flock_id"`
	FinishedFeedID   uint      `json:"finished_feed_id"`
	Date             string    `json:"date"`
	QuantityKg       float64   `json:"quantity_kg"`
	Cost             float64   `json:"cost"`
	FlockStrain      string    `json:"flock_strain,omitempty"`
	FinishedFeedName string    `json:"finished_feed_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FeedConsumptionResource handles CRUD interactions for feed consumption
// events. Cost is captured from the feed's current cost per kg at write
// time; later recipe edits do not rewrite recorded history.
func FeedConsumptionResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "feed consumption request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	consumptionID, hasID, ok := resourceID(r, "/api/feed-consumption")
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if !hasID {
		switch r.Method {
		case http.MethodGet:
			listFeedConsumption(w, r)
		case http.MethodPost:
			createFeedConsumption(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showFeedConsumption(w, r, consumptionID)
	case http.MethodPut:
		updateFeedConsumption(w, r, consumptionID)
	case http.MethodDelete:
		deleteFeedConsumption(w, r, consumptionID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listFeedConsumption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.FeedConsumption

	query := database.WithContext(ctx).
		Preload("Flock").
		Preload("FinishedFeed").
		Order("date asc, id asc")

	if flockParam := strings.TrimSpace(r.URL.Query().Get("flock_id")); flockParam != "" {
		if idValue, err := strconv.ParseUint(flockParam, 10, 64); err == nil {
			query = query.Where("flock_id = ?", uint(idValue))
		}
	}

	query, err := applyDateRange(query, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := query.Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list feed consumption", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load feed consumption")
		return
	}

	responses := make([]feedConsumptionResponse, 0, len(results))
	for _, consumption := range results {
		responses = append(responses, projectFeedConsumption(consumption))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showFeedConsumption(w http.ResponseWriter, r *http.Request, consumptionID uint) {
	ctx := r.Context()
	var consumption models.FeedConsumption
	if err := database.WithContext(ctx).
		Preload("Flock").
		Preload("FinishedFeed").
		First(&consumption, consumptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "feed consumption not found")
			return
		}
		applog.Error(ctx, "failed to load feed consumption", "error", err, "id", consumptionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load feed consumption")
		return
	}
	writeJSON(w, http.StatusOK, projectFeedConsumption(consumption))
}

func createFeedConsumption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload feedConsumptionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid feed consumption create payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	consumption, err := feedConsumptionFromPayload(ctx, payload)
	if err != nil {
		applog.Debug(ctx, "feed consumption validation failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := database.WithContext(ctx).Create(&consumption).Error; err != nil {
		applog.Error(ctx, "failed to create feed consumption", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create feed consumption")
		return
	}

	if err := database.WithContext(ctx).
		Preload("Flock").
		Preload("FinishedFeed").
		First(&consumption, consumption.ID).Error; err != nil {
		applog.Error(ctx, "failed to reload created feed consumption", "error", err, "id", consumption.ID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load feed consumption")
		return
	}

	writeJSON(w, http.StatusCreated, projectFeedConsumption(consumption))
}

func updateFeedConsumption(w http.ResponseWriter, r *http.Request, consumptionID uint) {
	ctx := r.Context()
	var existing models.FeedConsumption
	if err := database.WithContext(ctx).First(&existing, consumptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "feed consumption not found")
			return
		}
		applog.Error(ctx, "failed to load feed consumption for update", "error", err, "id", consumptionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load feed consumption")
		return
	}

	var payload feedConsumptionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid feed consumption update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	parsed, err := feedConsumptionFromPayload(ctx, payload)
	if err != nil {
		applog.Debug(ctx, "feed consumption update validation failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]any{
		"flock_id":         parsed.FlockID,
		"finished_feed_id": parsed.FinishedFeedID,
		"date":             parsed.Date,
		"quantity_kg":      parsed.QuantityKg,
		"cost":             parsed.Cost,
	}

	if err := database.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update feed consumption", "error", err, "id", consumptionID)
		writeJSONError(w, http.StatusBadRequest, "unable to update feed consumption")
		return
	}

	if err := database.WithContext(ctx).
		Preload("Flock").
		Preload("FinishedFeed").
		First(&existing, consumptionID).Error; err != nil {
		applog.Error(ctx, "failed to reload updated feed consumption", "error", err, "id", consumptionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load feed consumption")
		return
	}

	writeJSON(w, http.StatusOK, projectFeedConsumption(existing))
}

func deleteFeedConsumption(w http.ResponseWriter, r *http.Request, consumptionID uint) {
	ctx := r.Context()
	var consumption models.FeedConsumption
	if err := database.WithContext(ctx).First(&consumption, consumptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "feed consumption not found")
			return
		}
		applog.Error(ctx, "failed to load feed consumption for delete", "error", err, "id", consumptionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load feed consumption")
		return
	}

	if err := database.WithContext(ctx).Delete(&consumption).Error; err != nil {
		applog.Error(ctx, "failed to delete feed consumption", "error", err, "id", consumptionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete feed consumption")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// feedConsumptionFromPayload validates the payload, resolves both parents,
// and snapshots the cost from the feed's current cost per kg.
func feedConsumptionFromPayload(ctx context.Context, payload feedConsumptionRequest) (models.FeedConsumption, error) {
	if payload.FlockID == 0 {
		return models.FeedConsumption{}, errors.New("flock_id is required")
	}
	if payload.FinishedFeedID == 0 {
		return models.FeedConsumption{}, errors.New("finished_feed_id is required")
	}
	if payload.QuantityKg <= 0 {
		return models.FeedConsumption{}, errors.New("quantity_kg must be greater than zero")
	}

	date, err := parseDate(payload.Date)
	if err != nil {
		return models.FeedConsumption{}, err
	}

	var flockCount int64
	if err := database.WithContext(ctx).Model(&models.ChickenFlock{}).Where("id = ?", payload.FlockID).Count(&flockCount).Error; err != nil {
		return models.FeedConsumption{}, err
	}
	if flockCount == 0 {
		return models.FeedConsumption{}, errors.New("referenced flock not found")
	}

	var feed models.FinishedFeed
	if err := database.WithContext(ctx).First(&feed, payload.FinishedFeedID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FeedConsumption{}, errors.New("referenced finished feed not found")
		}
		return models.FeedConsumption{}, err
	}

	return models.FeedConsumption{
		FlockID:        payload.FlockID,
		FinishedFeedID: payload.FinishedFeedID,
		Date:           date,
		QuantityKg:     float64(payload.QuantityKg),
		Cost:           pricing.QuantityCost(float64(payload.QuantityKg), feed.CostPerKg),
	}, nil
}

func projectFeedConsumption(consumption models.FeedConsumption) feedConsumptionResponse {
	response := feedConsumptionResponse{
		ID:             consumption.ID,
		FlockID:        consumption.FlockID,
		FinishedFeedID: consumption.FinishedFeedID,
		Date:           consumption.Date.Format(dateLayout),
		QuantityKg:     consumption.QuantityKg,
		Cost:           consumption.Cost,
		CreatedAt:      consumption.CreatedAt,
		UpdatedAt:      consumption.UpdatedAt,
	}

	if consumption.Flock != nil {
		response.FlockStrain = consumption.Flock.Strain
	}
	if consumption.FinishedFeed != nil {
		response.FinishedFeedName = consumption.FinishedFeed.Name
	}

	return response
}
