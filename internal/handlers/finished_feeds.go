package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "coopledger/internal/log"
	"coopledger/models"
)

type finishedFeedRequest struct {
	Name string `json:"name"`
}

type feedCompositionSummary struct {
	ID              uint    `json:"id"`
	RawMaterialID   uint    `json:"raw_material_id"`
	RawMaterialName string  `json:"raw_material_name,omitempty"`
	Percentage      float64 `json:"percentage"`
}

type finishedFeedResponse struct {
	ID           uint                     `json:"id"`
	Name         string                   `json:"name"`
	CostPerKg    float64                  `json:"cost_per_kg"`
	Compositions []feedCompositionSummary `json:"compositions"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// FinishedFeedResource handles CRUD interactions for finished feed blends.
// CostPerKg is derived from compositions and cannot be written directly.
func FinishedFeedResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "finished feed request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	feedID, hasID, ok := resourceID(r, "/api/finished-feeds")
	if !ok {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if !hasID {
		switch r.Method {
		case http.MethodGet:
			listFinishedFeeds(w, r)
		case http.MethodPost:
			createFinishedFeed(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showFinishedFeed(w, r, feedID)
	case http.MethodPut:
		updateFinishedFeed(w, r, feedID)
	case http.MethodDelete:
		deleteFinishedFeed(w, r, feedID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listFinishedFeeds(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.FinishedFeed
	if err := database.WithContext(ctx).
		Preload("Compositions").
		Preload("Compositions.RawMaterial").
		Order("name asc").
		Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list finished feeds", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load finished feeds")
		return
	}

	responses := make([]finishedFeedResponse, 0, len(results))
	for _, feed := range results {
		responses = append(responses, projectFinishedFeed(feed))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showFinishedFeed(w http.ResponseWriter, r *http.Request, feedID uint) {
	ctx := r.Context()
	var feed models.FinishedFeed
	if err := database.WithContext(ctx).
		Preload("Compositions").
		Preload("Compositions.RawMaterial").
		First(&feed, feedID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "finished feed not found")
			return
		}
		applog.Error(ctx, "failed to load finished feed", "error", err, "id", feedID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load finished feed")
		return
	}
	writeJSON(w, http.StatusOK, projectFinishedFeed(feed))
}

func createFinishedFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload finishedFeedRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid finished feed create payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	feed := models.FinishedFeed{Name: name}
	if err := database.WithContext(ctx).Create(&feed).Error; err != nil {
		applog.Error(ctx, "failed to create finished feed", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create finished feed")
		return
	}

	writeJSON(w, http.StatusCreated, projectFinishedFeed(feed))
}

func updateFinishedFeed(w http.ResponseWriter, r *http.Request, feedID uint) {
	ctx := r.Context()
	var feed models.FinishedFeed
	if err := database.WithContext(ctx).First(&feed, feedID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "finished feed not found")
			return
		}
		applog.Error(ctx, "failed to load finished feed for update", "error", err, "id", feedID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load finished feed")
		return
	}

	var payload finishedFeedRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid finished feed update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := database.WithContext(ctx).Model(&feed).Update("name", name).Error; err != nil {
		applog.Error(ctx, "failed to update finished feed", "error", err, "id", feedID)
		writeJSONError(w, http.StatusBadRequest, "unable to update finished feed")
		return
	}

	if err := database.WithContext(ctx).
		Preload("Compositions").
		Preload("Compositions.RawMaterial").
		First(&feed, feedID).Error; err != nil {
		applog.Error(ctx, "failed to reload updated finished feed", "error", err, "id", feedID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load updated record")
		return
	}

	writeJSON(w, http.StatusOK, projectFinishedFeed(feed))
}

func deleteFinishedFeed(w http.ResponseWriter, r *http.Request, feedID uint) {
	ctx := r.Context()
	var feed models.FinishedFeed
	if err := database.WithContext(ctx).First(&feed, feedID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSONError(w, http.StatusNotFound, "finished feed not found")
			return
		}
		applog.Error(ctx, "failed to load finished feed for delete", "error", err, "id", feedID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load finished feed")
		return
	}

	if err := database.WithContext(ctx).Delete(&feed).Error; err != nil {
		applog.Error(ctx, "failed to delete finished feed", "error", err, "id", feedID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete finished feed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func projectFinishedFeed(feed models.FinishedFeed) finishedFeedResponse {
	compositions := make([]feedCompositionSummary, 0, len(feed.Compositions))
	for _, composition := range feed.Compositions {
		summary := feedCompositionSummary{
			ID:            composition.ID,
			RawMaterialID: composition.RawMaterialID,
			Percentage:    composition.Percentage,
		}
		if composition.RawMaterial != nil {
			summary.RawMaterialName = composition.RawMaterial.Name
		}
		compositions = append(compositions, summary)
	}

	return finishedFeedResponse{
		ID:           feed.ID,
		Name:         feed.Name,
		CostPerKg:    feed.CostPerKg,
		Compositions: compositions,
		CreatedAt:    feed.CreatedAt,
		UpdatedAt:    feed.UpdatedAt,
	}
}
