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

	"coopledger/internal/feedcost"
	applog "coopledger/internal/log"
	"coopledger/models"
)

type feedCompositionRequest struct {
	FinishedFeedID uint       `json:"finished_feed_id"`
	RawMaterialID  uint       `json:"raw_material_id"`
	Percentage     floatField `json:"percentage"`
}

type feedCompositionResponse struct {
	ID               uint      `json:"id"`
	FinishedFeedID   uint      `json:"finished_feed_id"`
	RawMaterialID    uint      `json:"raw_material_id"`
	Percentage       float64   `json:"percentage"`
	FinishedFeedName string    `json:"finished_feed_name,omitempty"`
	RawMaterialName  string    `json:"raw_material_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FeedCompositionResource handles CRUD interactions for blend compositions.
// Every write re-derives the owning feed's cost per kg. Percentages for one
// feed are deliberately not validated to sum to 100.
func FeedCompositionResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "feed composition request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	compositionID, hasID, ok := resourceID(r, "/api/feed-compositions")
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if !hasID {
		switch r.Method {
		case http.MethodGet:
			listFeedCompositions(w, r)
		case http.MethodPost:
			createFeedComposition(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showFeedComposition(w, r, compositionID)
	case http.MethodPut:
		updateFeedComposition(w, r, compositionID)
	case http.MethodDelete:
		deleteFeedComposition(w, r, compositionID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listFeedCompositions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.FeedComposition

	query := database.WithContext(ctx).
		Preload("FinishedFeed").
		Preload("RawMaterial").
		Order("finished_feed_id asc, id asc")

	if feedParam := strings.TrimSpace(r.URL.Query().Get("finished_feed_id")); feedParam != "" {
		if idValue, err := strconv.ParseUint(feedParam, 10, 64); err == nil {
			query = query.Where("finished_feed_id = ?", uint(idValue))
		}
	}

	if err := query.Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list feed compositions", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load feed compositions")
		return
	}

	responses := make([]feedCompositionResponse, 0, len(results))
	for _, composition := range results {
		responses = append(responses, projectFeedComposition(composition))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showFeedComposition(w http.ResponseWriter, r *http.Request, compositionID uint) {
	ctx := r.Context()
	var composition models.FeedComposition
	if err := database.WithContext(ctx).
		Preload("FinishedFeed").
		Preload("RawMaterial").
		First(&composition, compositionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "feed composition not found")
			return
		}
		applog.Error(ctx, "failed to load feed composition", "error", err, "id", compositionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load feed composition")
		return
	}
	writeJSON(w, http.StatusOK, projectFeedComposition(composition))
}

func createFeedComposition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload feedCompositionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid feed composition create payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := validateFeedCompositionPayload(ctx, payload); err != nil {
		applog.Debug(ctx, "feed composition validation failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	composition := models.FeedComposition{
		FinishedFeedID: payload.FinishedFeedID,
		RawMaterialID:  payload.RawMaterialID,
		Percentage:     float64(payload.Percentage),
	}

	if err := database.WithContext(ctx).Create(&composition).Error; err != nil {
		applog.Error(ctx, "failed to create feed composition", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create feed composition")
		return
	}

	if err := feedcost.Recompute(ctx, database, composition.FinishedFeedID); err != nil {
		applog.Error(ctx, "failed to recompute feed cost", "error", err, "feedID", composition.FinishedFeedID)
		writeJSONError(w, http.StatusInternalServerError, "unable to refresh feed cost")
		return
	}

	if err := database.WithContext(ctx).
		Preload("FinishedFeed").
		Preload("RawMaterial").
		First(&composition, composition.ID).Error; err != nil {
		applog.Error(ctx, "failed to reload created feed composition", "error", err, "id", composition.ID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load feed composition")
		return
	}

	writeJSON(w, http.StatusCreated, projectFeedComposition(composition))
}

func updateFeedComposition(w http.ResponseWriter, r *http.Request, compositionID uint) {
	ctx := r.Context()
	var existing models.FeedComposition
	if err := database.WithContext(ctx).First(&existing, compositionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "feed composition not found")
			return
		}
		applog.Error(ctx, "failed to load feed composition for update", "error", err, "id", compositionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load feed composition")
		return
	}

	var payload feedCompositionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid feed composition update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := validateFeedCompositionPayload(ctx, payload); err != nil {
		applog.Debug(ctx, "feed composition update validation failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	previousFeedID := existing.FinishedFeedID

	updates := map[string]any{
		"finished_feed_id": payload.FinishedFeedID,
		"raw_material_id":  payload.RawMaterialID,
		"percentage":       float64(payload.Percentage),
	}

	if err := database.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		applog.Error(ctx, "failed to update feed composition", "error", err, "id", compositionID)
		writeJSONError(w, http.StatusBadRequest, "unable to update feed composition")
		return
	}

	if err := feedcost.Recompute(ctx, database, payload.FinishedFeedID); err != nil {
		applog.Error(ctx, "failed to recompute feed cost", "error", err, "feedID", payload.FinishedFeedID)
		writeJSONError(w, http.StatusInternalServerError, "unable to refresh feed cost")
		return
	}
	if previousFeedID != payload.FinishedFeedID {
		// The composition moved; the old blend loses this share.
		if err := feedcost.Recompute(ctx, database, previousFeedID); err != nil {
			applog.Error(ctx, "failed to recompute previous feed cost", "error", err, "feedID", previousFeedID)
			writeJSONError(w, http.StatusInternalServerError, "unable to refresh feed cost")
			return
		}
	}

	if err := database.WithContext(ctx).
		Preload("FinishedFeed").
		Preload("RawMaterial").
		First(&existing, compositionID).Error; err != nil {
		applog.Error(ctx, "failed to reload updated feed composition", "error", err, "id", compositionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load feed composition")
		return
	}

	writeJSON(w, http.StatusOK, projectFeedComposition(existing))
}

func deleteFeedComposition(w http.ResponseWriter, r *http.Request, compositionID uint) {
	ctx := r.Context()
	var composition models.FeedComposition
	if err := database.WithContext(ctx).First(&composition, compositionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "feed composition not found")
			return
		}
		applog.Error(ctx, "failed to load feed composition for delete", "error", err, "id", compositionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load feed composition")
		return
	}

	if err := database.WithContext(ctx).Delete(&composition).Error; err != nil {
		applog.Error(ctx, "failed to delete feed composition", "error", err, "id", compositionID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete feed composition")
		return
	}

	if err := feedcost.Recompute(ctx, database, composition.FinishedFeedID); err != nil {
		applog.Error(ctx, "failed to recompute feed cost after delete", "error", err, "feedID", composition.FinishedFeedID)
		writeJSONError(w, http.StatusInternalServerError, "unable to refresh feed cost")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func validateFeedCompositionPayload(ctx context.Context, payload feedCompositionRequest) error {
	if payload.FinishedFeedID == 0 {
		return errors.New("finished_feed_id is required")
	}
	if payload.RawMaterialID == 0 {
		return errors.New("raw_material_id is required")
	}
	if payload.Percentage <= 0 {
		return errors.New("percentage must be greater than zero")
	}

	var feedCount int64
	if err := database.WithContext(ctx).Model(&models.FinishedFeed{}).Where("id = ?", payload.FinishedFeedID).Count(&feedCount).Error; err != nil {
		return err
	}
	if feedCount == 0 {
		return errors.New("referenced finished feed not found")
	}

	var materialCount int64
	if err := database.WithContext(ctx).Model(&models.RawMaterial{}).Where("id = ?", payload.RawMaterialID).Count(&materialCount).Error; err != nil {
		return err
	}
	if materialCount == 0 {
		return errors.New("referenced raw material not found")
	}

	return nil
}

func projectFeedComposition(composition models.FeedComposition) feedCompositionResponse {
	response := feedCompositionResponse{
		ID:             composition.ID,
		FinishedFeedID: composition.FinishedFeedID,
		RawMaterialID:  composition.RawMaterialID,
		Percentage:     composition.Percentage,
		CreatedAt:      composition.CreatedAt,
		UpdatedAt:      composition.UpdatedAt,
	}

	if composition.FinishedFeed != nil {
		response.FinishedFeedName = composition.FinishedFeed.Name
	}
	if composition.RawMaterial != nil {
		response.RawMaterialName = composition.RawMaterial.Name
	}

	return response
}
